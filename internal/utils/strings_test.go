package utils

import "testing"

func TestSafeTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty string", "", 10, ""},
		{"zero maxLen", "hello", 0, ""},
		{"negative maxLen", "hello", -1, ""},
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"maxLen below ellipsis", "hello", 3, "h"},
		{"unicode preserved", "你好世界", 10, "你好世界"},
		{"unicode truncate", "你好世界test", 6, "你好世..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeTruncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("SafeTruncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSanitizeOutput(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want string
	}{
		{"empty string", "", ""},
		{"plain text", "hello world", "hello world"},
		{"keeps newline and tab", "hello\n\tworld", "hello\n\tworld"},
		{"ANSI color", "\x1b[31mred\x1b[0m", "red"},
		{"ANSI complex", "\x1b[1;31;40mtext\x1b[0m", "text"},
		{"control chars", "hello\x00\x01world", "helloworld"},
		{"cursor movement", "\x1b[2Aup\x1b[2Bdown", "updown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeOutput(tt.s)
			if got != tt.want {
				t.Errorf("SanitizeOutput(%q) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}

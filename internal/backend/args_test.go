package backend

import (
	"reflect"
	"testing"
)

func TestBuildCodexArgs(t *testing.T) {
	args := BuildCodexArgs(InvokeOptions{Model: "c-1", ReasoningEffort: "high"})
	want := []string{
		"exec", "--sandbox", "read-only", "--color", "never",
		"--skip-git-repo-check",
		"--model", "c-1",
		"--config", `model_reasoning_effort="high"`,
		"-",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
}

func TestBuildCodexArgsRequireGit(t *testing.T) {
	args := BuildCodexArgs(InvokeOptions{Model: "c-1", ReasoningEffort: "low", RequireGit: true})
	for _, a := range args {
		if a == "--skip-git-repo-check" {
			t.Fatal("--skip-git-repo-check present despite RequireGit")
		}
	}
}

func TestBuildGeminiArgs(t *testing.T) {
	args := buildGeminiArgs(InvokeOptions{Model: "g-1"})
	want := []string{"--output-format", "json", "--model", "g-1"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}

	args = buildGeminiArgs(InvokeOptions{})
	want = []string{"--output-format", "json"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args without model = %v, want %v", args, want)
	}
}

func TestGeminiExtractAnswer(t *testing.T) {
	b := GeminiBackend{}

	text, err := b.ExtractAnswer([]byte(`{"response":"hello","stats":{"tokens":5}}`))
	if err != nil {
		t.Fatalf("ExtractAnswer() error = %v", err)
	}
	if text != "hello" {
		t.Fatalf("text = %q, want hello", text)
	}

	// Missing field is not a failure.
	text, err = b.ExtractAnswer([]byte(`{"stats":{}}`))
	if err != nil {
		t.Fatalf("missing field should not fail, got %v", err)
	}
	if text != "" {
		t.Fatalf("text = %q, want empty", text)
	}

	// A malformed envelope is.
	if _, err := b.ExtractAnswer([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed envelope")
	}
}

func TestCodexExtractAnswer(t *testing.T) {
	text, err := CodexBackend{}.ExtractAnswer([]byte("raw answer\n"))
	if err != nil {
		t.Fatalf("ExtractAnswer() error = %v", err)
	}
	if text != "raw answer\n" {
		t.Fatalf("text = %q", text)
	}
}

func TestSelect(t *testing.T) {
	for _, p := range []Provider{ProviderGemini, ProviderCodex} {
		b, err := Select(p)
		if err != nil {
			t.Fatalf("Select(%s) error = %v", p, err)
		}
		if b.Name() != string(p) {
			t.Fatalf("Select(%s).Name() = %s", p, b.Name())
		}
	}
	if _, err := Select(Provider("claude")); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ToolName is the fixed name for this tool; it prefixes log file names.
const ToolName = "llm-ensemble"

// Logger writes diagnostic lines to a pid-named file under the temp
// directory. It is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	zl   zerolog.Logger
	path string

	recentMu sync.Mutex
	recent   []string // ring of recent error lines
}

const recentErrorLimit = 50

// NewLogger creates a log file named <ToolName>-<pid>.log in the temp dir.
func NewLogger() (*Logger, error) {
	return NewLoggerWithSuffix("")
}

// NewLoggerWithSuffix creates a log file with an extra name component, used
// to keep per-task logs apart in tests.
func NewLoggerWithSuffix(suffix string) (*Logger, error) {
	name := fmt.Sprintf("%s-%d", ToolName, os.Getpid())
	if suffix = SanitizeLogSuffix(suffix); suffix != "" {
		name += "-" + suffix
	}
	path := filepath.Join(os.TempDir(), name+".log")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	zl := zerolog.New(file).With().Timestamp().Logger()
	return &Logger{file: file, zl: zl, path: path}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Debug(msg string) { l.log(zerolog.DebugLevel, msg) }
func (l *Logger) Info(msg string)  { l.log(zerolog.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.log(zerolog.WarnLevel, msg) }

func (l *Logger) Error(msg string) {
	l.log(zerolog.ErrorLevel, msg)
	if l == nil {
		return
	}
	l.recentMu.Lock()
	l.recent = append(l.recent, msg)
	if len(l.recent) > recentErrorLimit {
		l.recent = l.recent[len(l.recent)-recentErrorLimit:]
	}
	l.recentMu.Unlock()
}

func (l *Logger) log(level zerolog.Level, msg string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	l.zl.WithLevel(level).Msg(msg)
}

// Flush forces buffered data to disk.
func (l *Logger) Flush() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Sync()
	}
}

// Close stops the logger. The file is kept on disk for debugging.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// RemoveLogFile deletes the log file, typically after a clean run.
func (l *Logger) RemoveLogFile() error {
	if l == nil || l.path == "" {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExtractRecentErrors returns up to n of the most recent error messages.
func (l *Logger) ExtractRecentErrors(n int) []string {
	if l == nil || n <= 0 {
		return nil
	}
	l.recentMu.Lock()
	defer l.recentMu.Unlock()
	if len(l.recent) == 0 {
		return nil
	}
	start := len(l.recent) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(l.recent)-start)
	copy(out, l.recent[start:])
	return out
}

// SanitizeLogSuffix keeps only characters safe in a file name component.
func SanitizeLogSuffix(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	const maxSuffix = 64
	s := b.String()
	if len(s) > maxSuffix {
		s = s[:maxSuffix]
	}
	return s
}

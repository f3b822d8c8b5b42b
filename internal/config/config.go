package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Built-in defaults, overridable via flags, config file or environment.
const (
	DefaultGeminiModel    = "gemini-3-pro-preview"
	DefaultCodexModel     = "gpt-5.2-codex"
	DefaultReasoning      = "high"
	DefaultTimeoutSeconds = 300
)

// Config holds the resolved run configuration. It is built once at startup
// and passed explicitly; nothing mutates it afterwards.
type Config struct {
	ModelsCSV  string
	Iterations int

	PromptText string
	PromptFile string

	OutDir string

	GeminiModel    string
	CodexModel     string
	CodexReasoning string

	MergeCodexModel string
	MergeReasoning  string
	MergePromptText string
	MergePromptFile string

	Timeout      int // seconds, 0 = unbounded
	OutputFormat string
	RequireGit   bool

	MaxParallelWorkers int
}

// ConfigError marks a configuration-time failure. These are fatal and are
// reported before any task runs.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Errorf builds a ConfigError with fmt-style formatting.
func Errorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// ReasoningLevels enumerates the accepted reasoning-effort values.
var ReasoningLevels = map[string]struct{}{
	"minimal": {},
	"low":     {},
	"medium":  {},
	"high":    {},
	"xhigh":   {},
}

// ValidReasoning reports whether level is an accepted reasoning effort.
func ValidReasoning(level string) bool {
	_, ok := ReasoningLevels[level]
	return ok
}

// Output formats.
const (
	FormatText = "txt"
	FormatRTF  = "rtf"
)

// Validate checks the cross-field constraints that flag parsing alone
// cannot express. It returns a *ConfigError on the first violation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModelsCSV) == "" {
		return Errorf("--models is required")
	}
	if c.Iterations < 1 {
		return Errorf("--iterations must be positive, got %d", c.Iterations)
	}
	if c.PromptText != "" && c.PromptFile != "" {
		return Errorf("use only one of --prompt or --prompt-file")
	}
	if c.MergePromptText != "" && c.MergePromptFile != "" {
		return Errorf("use only one of --merge-prompt or --merge-prompt-file")
	}
	if !ValidReasoning(c.CodexReasoning) {
		return Errorf("invalid --codex-reasoning %q (allowed: minimal, low, medium, high, xhigh)", c.CodexReasoning)
	}
	if c.MergeReasoning != "" && !ValidReasoning(c.MergeReasoning) {
		return Errorf("invalid --merge-reasoning %q (allowed: minimal, low, medium, high, xhigh)", c.MergeReasoning)
	}
	if c.OutputFormat != FormatText && c.OutputFormat != FormatRTF {
		return Errorf("invalid --format %q (allowed: txt, rtf)", c.OutputFormat)
	}
	if c.Timeout < 0 {
		return Errorf("--timeout must be >= 0, got %d", c.Timeout)
	}
	return nil
}

// EnvFlagEnabled returns true when the environment variable exists and is not
// explicitly set to a falsey value ("0/false/no/off").
func EnvFlagEnabled(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return ParseBoolFlag(val, true)
}

func ParseBoolFlag(val string, defaultValue bool) bool {
	val = strings.TrimSpace(strings.ToLower(val))
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

const maxParallelWorkersLimit = 100

// ResolveMaxParallelWorkers reads LLM_ENSEMBLE_MAX_PARALLEL_WORKERS. It
// returns 0 for "unlimited".
func ResolveMaxParallelWorkers() int {
	raw := strings.TrimSpace(os.Getenv("LLM_ENSEMBLE_MAX_PARALLEL_WORKERS"))
	if raw == "" {
		return 0
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	if value > maxParallelWorkersLimit {
		return maxParallelWorkersLimit
	}
	return value
}

// ClampMaxParallelWorkers applies the same cap to an explicitly configured
// value.
func ClampMaxParallelWorkers(value int) int {
	if value < 0 {
		return 0
	}
	if value > maxParallelWorkersLimit {
		return maxParallelWorkersLimit
	}
	return value
}

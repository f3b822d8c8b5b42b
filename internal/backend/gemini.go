package backend

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// GeminiBackend invokes the gemini CLI with JSON output. The answer arrives
// wrapped in a single-object envelope with a "response" field.
type GeminiBackend struct{}

func (GeminiBackend) Name() string    { return "gemini" }
func (GeminiBackend) Command() string { return "gemini" }

// Env disables ANSI coloring so the captured envelope stays clean.
func (GeminiBackend) Env() []string { return []string{"NO_COLOR=1"} }

func (GeminiBackend) BuildArgs(opts InvokeOptions) []string {
	return buildGeminiArgs(opts)
}

// ExtractAnswer decodes the envelope and pulls out the response field. A
// missing field yields an empty answer, not an error; only a malformed
// envelope fails the invocation.
func (GeminiBackend) ExtractAnswer(stdout []byte) (string, error) {
	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(stdout, &envelope); err != nil {
		return "", fmt.Errorf("decode gemini envelope: %w", err)
	}
	return envelope.Response, nil
}

func buildGeminiArgs(opts InvokeOptions) []string {
	args := []string{"--output-format", "json"}

	if model := strings.TrimSpace(opts.Model); model != "" {
		args = append(args, "--model", model)
	}

	return args
}

package backend

import (
	"strings"

	config "llm-ensemble/internal/config"
)

// Provider identifies a backend family.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderCodex  Provider = "codex"
)

// RunnerSpec is one configured (provider, model) pair. Label is derived
// from both and is unique across the configured set.
type RunnerSpec struct {
	Provider Provider
	Model    string
	Label    string
}

// SanitizeLabel replaces every character outside [a-zA-Z0-9._-] with '_'.
func SanitizeLabel(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ParseSpecs resolves a comma-separated list of provider[:model] tokens into
// validated RunnerSpecs. Empty tokens are skipped; an unknown provider or a
// duplicate derived label is a configuration error.
func ParseSpecs(modelsCSV, geminiDefault, codexDefault string) ([]RunnerSpec, error) {
	var specs []RunnerSpec
	seen := make(map[string]string) // label -> raw token

	for _, raw := range strings.Split(modelsCSV, ",") {
		raw = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
		if raw == "" {
			continue
		}

		name, model, _ := strings.Cut(raw, ":")
		provider, err := ParseProvider(name)
		if err != nil {
			return nil, config.Errorf("invalid --models entry %q: %v", raw, err)
		}

		if model == "" {
			switch provider {
			case ProviderGemini:
				model = geminiDefault
			case ProviderCodex:
				model = codexDefault
			}
		}

		label := string(provider) + "__" + SanitizeLabel(model)
		if prev, dup := seen[label]; dup {
			return nil, config.Errorf("duplicate runner label %q derived from %q and %q", label, prev, raw)
		}
		seen[label] = raw

		specs = append(specs, RunnerSpec{Provider: provider, Model: model, Label: label})
	}

	if len(specs) == 0 {
		return nil, config.Errorf("no valid runners parsed from --models")
	}
	return specs, nil
}

// ResolveMergeModel picks the codex model used by the merge stage: an
// explicit override wins, then the first codex spec, then the global default.
func ResolveMergeModel(specs []RunnerSpec, explicit, fallback string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	for _, spec := range specs {
		if spec.Provider == ProviderCodex && spec.Model != "" {
			return spec.Model
		}
	}
	return fallback
}

// Providers returns the distinct providers referenced by specs, in first
// appearance order.
func Providers(specs []RunnerSpec) []Provider {
	var out []Provider
	seen := make(map[Provider]struct{})
	for _, spec := range specs {
		if _, ok := seen[spec.Provider]; ok {
			continue
		}
		seen[spec.Provider] = struct{}{}
		out = append(out, spec.Provider)
	}
	return out
}

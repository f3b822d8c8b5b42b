package backend

import (
	"fmt"
	"strings"
)

var registry = map[Provider]Backend{
	ProviderGemini: GeminiBackend{},
	ProviderCodex:  CodexBackend{},
}

// Registry exposes the available backends. Intended for internal inspection/tests.
func Registry() map[Provider]Backend {
	return registry
}

// Select returns the backend for a provider.
func Select(provider Provider) (Backend, error) {
	if b, ok := registry[provider]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("unsupported backend %q", provider)
}

// ParseProvider maps a raw token to a Provider.
func ParseProvider(name string) (Provider, error) {
	key := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := registry[key]; ok {
		return key, nil
	}
	return "", fmt.Errorf("unknown provider %q (allowed: gemini, codex)", name)
}

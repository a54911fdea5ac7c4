package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnknownProvider reports a name with no registry entry.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMissingAPIKey reports a credential-requiring provider constructed
	// without one.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrModel covers transport failures, non-success statuses and malformed
	// response bodies from a model endpoint.
	ErrModel = errors.New("model request failed")
)

// Provider is the uniform contract every model backend implements: one
// prompt in, one complete response out, no retries and no streaming.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the per-call construction parameters for a provider
// variant. BaseURL and HTTPClient exist so tests can point a variant at a
// stub endpoint; both fall back to the variant's own defaults.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type descriptor struct {
	defaultModel string
	needsKey     bool
	factory      func(Config) Provider
}

var registry = map[string]descriptor{
	"groq":   {defaultModel: "llama-3.1-8b-instant", needsKey: true, factory: newGroq},
	"openai": {defaultModel: "gpt-4o", needsKey: true, factory: newOpenAI},
	"gemini": {defaultModel: "gemini-2.0-flash", needsKey: true, factory: newGemini},
	"ollama": {defaultModel: "llama3", needsKey: false, factory: newOllama},
}

// providerOrder fixes the listing order; map iteration would shuffle it.
var providerOrder = []string{"groq", "openai", "gemini", "ollama"}

// New constructs the client variant registered under name. Construction
// fails before any network activity when the name is unknown or a required
// credential is absent. Adding a provider means adding one variant and one
// registry entry.
func New(name string, cfg Config) (Provider, error) {
	canon := Canonical(name)
	d, ok := registry[canon]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if d.needsKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s %w", canon, ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = d.defaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return d.factory(cfg), nil
}

// Canonical normalizes a provider name. "local" is accepted as an alias for
// the ollama backend.
func Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "local" {
		return "ollama"
	}
	return name
}

// Known reports whether name resolves to a registered provider.
func Known(name string) bool {
	_, ok := registry[Canonical(name)]
	return ok
}

// Names returns the canonical provider names in registration order.
func Names() []string {
	out := make([]string, len(providerOrder))
	copy(out, providerOrder)
	return out
}

// DefaultModel returns the model a provider uses when none is configured.
func DefaultModel(name string) string {
	return registry[Canonical(name)].defaultModel
}

// DefaultModels maps every provider to its default model.
func DefaultModels() map[string]string {
	out := make(map[string]string, len(registry))
	for name, d := range registry {
		out[name] = d.defaultModel
	}
	return out
}

// NeedsAPIKey reports whether the named provider requires a credential.
func NeedsAPIKey(name string) bool {
	return registry[Canonical(name)].needsKey
}

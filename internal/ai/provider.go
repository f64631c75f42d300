// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for generating code through
// external generative AI providers (ChatGPT, Gemini, Copilot). Each
// provider implements the Provider interface and handles its own HTTP
// communication; the Registry dispatches to the provider selected by name.
// The gateway carries no retry or backoff policy of its own beyond each
// provider's 60-second transport client.
package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wireforge/internal/models"
)

// ErrUnsupportedProvider is returned when a generation request names a
// provider that has no configured implementation.
var ErrUnsupportedProvider = errors.New("unsupported AI provider")

// codeOnlySystemPrompt steers every provider toward returning bare code.
const codeOnlySystemPrompt = "Only return clean code output."

// Provider defines the single capability every AI provider must implement:
// complete a text prompt and return code-only text.
type Provider interface {
	// Generate sends a prompt to the provider and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the user's request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the user-facing provider identifier (e.g., "ChatGPT").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry holds the configured providers keyed by their user-facing names.
// Adding a provider means registering one more variant; callers never branch
// on provider names themselves. All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[models.ProviderName]Provider
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped
// and resolve to ErrUnsupportedProvider at dispatch time.
func NewRegistry(configs map[models.ProviderName]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[models.ProviderName]Provider),
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case models.ProviderChatGPT:
			r.providers[name] = newChatGPT(cfg)
		case models.ProviderGemini:
			r.providers[name] = newGemini(cfg)
		case models.ProviderCopilot:
			r.providers[name] = newCopilot(cfg)
		}
	}

	return r
}

// Generate builds the canonical prompt for a language and base prompt, then
// dispatches it to the named provider. The returned text is the provider's
// code-only completion.
func (r *Registry) Generate(ctx context.Context, name models.ProviderName, language models.Language, basePrompt string) (string, error) {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}

	return p.Generate(ctx, codeOnlySystemPrompt, BuildPrompt(language, basePrompt))
}

// Register adds or replaces a provider in the registry. This allows
// injecting custom providers at runtime (e.g. for testing).
func (r *Registry) Register(name models.ProviderName, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name models.ProviderName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

// Available returns the names of all providers that have valid API keys.
func (r *Registry) Available() []models.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []models.ProviderName
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// BuildPrompt assembles the canonical generation prompt sent to every
// provider.
func BuildPrompt(language models.Language, basePrompt string) string {
	return fmt.Sprintf("Generate responsive %s code for this prompt: %s", language, basePrompt)
}

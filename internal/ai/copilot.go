// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"net/http"
	"time"
)

// copilotProvider implements the Provider interface through the GitHub
// Models inference endpoint, which is OpenAI-compatible.
type copilotProvider struct {
	inner *chatGPTProvider
}

// newCopilot creates a new Copilot provider. It reuses the chat completions
// codec at a different base URL.
func newCopilot(cfg ProviderConfig) *copilotProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://models.inference.ai.azure.com"
	}
	return &copilotProvider{
		inner: &chatGPTProvider{
			config: cfg,
			client: &http.Client{Timeout: 60 * time.Second},
		},
	}
}

func (p *copilotProvider) Name() string { return "Copilot" }

// Generate sends a chat completion request to the GitHub Models endpoint.
func (p *copilotProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	body := chatRequest{
		Model:    p.inner.config.Model,
		Messages: messages,
	}

	return p.inner.doChat(ctx, body)
}

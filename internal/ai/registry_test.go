// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"wireforge/internal/models"
)

// mockProvider is a test double implementing the Provider interface.
// It records calls and returns configurable responses.
type mockProvider struct {
	name       string
	response   string
	err        error
	callCount  int
	lastSystem string
	lastUser   string
	mu         sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("dispatches to the named provider", func(t *testing.T) {
		mock := &mockProvider{name: "Gemini", response: "<form></form>"}

		reg := NewRegistry(nil)
		reg.Register(models.ProviderGemini, mock)

		result, err := reg.Generate(context.Background(), models.ProviderGemini, models.LangHTMLCSS, "a login form")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "<form></form>" {
			t.Errorf("result: got %q, want %q", result, "<form></form>")
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		wantPrompt := "Generate responsive htmlcss code for this prompt: a login form"
		if mock.lastUser != wantPrompt {
			t.Errorf("userPrompt: got %q, want %q", mock.lastUser, wantPrompt)
		}
		if mock.lastSystem != codeOnlySystemPrompt {
			t.Errorf("systemPrompt: got %q, want %q", mock.lastSystem, codeOnlySystemPrompt)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		mock := &mockProvider{name: "ChatGPT", err: fmt.Errorf("api failure")}

		reg := NewRegistry(nil)
		reg.Register(models.ProviderChatGPT, mock)

		_, err := reg.Generate(context.Background(), models.ProviderChatGPT, models.LangReact, "a navbar")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("unknown provider returns ErrUnsupportedProvider", func(t *testing.T) {
		reg := NewRegistry(nil)

		_, err := reg.Generate(context.Background(), models.ProviderCopilot, models.LangReact, "a navbar")
		if !errors.Is(err, ErrUnsupportedProvider) {
			t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
		}
	})
}

func TestNewRegistrySkipsProvidersWithoutKeys(t *testing.T) {
	reg := NewRegistry(map[models.ProviderName]ProviderConfig{
		models.ProviderChatGPT: {APIKey: "sk-test", Model: "gpt-4"},
		models.ProviderGemini:  {APIKey: "", Model: "gemini-1.5-pro"},
	})

	if !reg.HasProvider(models.ProviderChatGPT) {
		t.Error("ChatGPT should be available with a key")
	}
	if reg.HasProvider(models.ProviderGemini) {
		t.Error("Gemini should be skipped without a key")
	}
	if reg.HasProvider(models.ProviderCopilot) {
		t.Error("Copilot should not exist without config")
	}

	available := reg.Available()
	if len(available) != 1 || available[0] != models.ProviderChatGPT {
		t.Errorf("Available: got %v, want [ChatGPT]", available)
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(models.LangReact, "a pricing table")
	want := "Generate responsive react code for this prompt: a pricing table"
	if got != want {
		t.Errorf("BuildPrompt: got %q, want %q", got, want)
	}
}

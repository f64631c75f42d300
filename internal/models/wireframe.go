// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Language is the target output language/framework for generated code.
type Language string

const (
	LangReact      Language = "react"
	LangNext       Language = "next"
	LangHTMLCSS    Language = "htmlcss"
	LangAngular    Language = "angular"
	LangPHP        Language = "php"
	LangJavaScript Language = "javascript"
	LangOthers     Language = "others"
)

// Valid reports whether l is one of the supported output languages.
func (l Language) Valid() bool {
	switch l {
	case LangReact, LangNext, LangHTMLCSS, LangAngular, LangPHP, LangJavaScript, LangOthers:
		return true
	}
	return false
}

// ProviderName identifies an external generative AI service by its
// user-facing name.
type ProviderName string

const (
	ProviderChatGPT ProviderName = "ChatGPT"
	ProviderCopilot ProviderName = "Copilot"
	ProviderGemini  ProviderName = "Gemini"
)

// Valid reports whether p is one of the accepted provider names.
func (p ProviderName) Valid() bool {
	switch p {
	case ProviderChatGPT, ProviderCopilot, ProviderGemini:
		return true
	}
	return false
}

// ProviderNames lists the accepted provider names, for validation messages.
func ProviderNames() []ProviderName {
	return []ProviderName{ProviderChatGPT, ProviderCopilot, ProviderGemini}
}

// Suggestion is a deterministically derived alternate rendering of
// generated code. Suggestions are never AI-produced.
type Suggestion struct {
	SuggestionText string `json:"suggestionText"`
	CodeSnippet    string `json:"codeSnippet"`
}

// Wireframe ties a user's prompt or uploaded image to the code generated
// from it. A wireframe without generated code is a draft: the AI call
// either has not happened yet or failed after the draft was persisted.
//
// Invariant: at least one of ImageURL or TextPrompt is non-empty.
type Wireframe struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	ImageURL      string       `json:"imageUrl"`
	TextPrompt    string       `json:"textPrompt"`
	Language      Language     `json:"language"`
	AIUsed        ProviderName `json:"aiUsed"`
	GeneratedCode string       `json:"generatedCode"`
	LivePreview   string       `json:"livePreview"`
	Suggestions   []Suggestion `json:"suggestions"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// BasePrompt returns the text to feed the AI gateway: the text prompt when
// present, otherwise the image URL. Empty when the wireframe has neither.
func (w *Wireframe) BasePrompt() string {
	if w.TextPrompt != "" {
		return w.TextPrompt
	}
	return w.ImageURL
}

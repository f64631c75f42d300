package ai

import "wireforge/internal/models"

// DeriveVariants produces the three suggestion variants for a piece of
// generated code: header-prefixed, footer-suffixed, and background-wrapped.
// The derivation is deterministic, so identical code always yields
// identical suggestions.
func DeriveVariants(code string) []models.Suggestion {
	return []models.Suggestion{
		{
			SuggestionText: "Variation 1: Add a header",
			CodeSnippet:    "<header>Header Example</header>\n" + code,
		},
		{
			SuggestionText: "Variation 2: Add a footer",
			CodeSnippet:    code + "\n<footer>Footer Example</footer>",
		},
		{
			SuggestionText: "Variation 3: Change background color",
			CodeSnippet:    "<div style='background: #f0f0f0'>" + code + "</div>",
		},
	}
}

// LivePreview wraps generated code in the container markup the frontend
// renders as an inline preview.
func LivePreview(code string) string {
	return "<div class='live-preview'>" + code + "</div>"
}

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"wireforge/internal/models"
)

// Validation limits for account and generation fields.
const (
	maxUsernameLen = 100
	maxEmailLen    = 254
	maxPromptLen   = 10_000
	minPasswordLen = 6
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateSignup checks signup inputs and returns the first error found.
func validateSignup(username, email, password, confirmPassword string) string {
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return "All fields of signup are required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 100 characters)."
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 6 characters."
	}
	if password != confirmPassword {
		return "Passwords do not match."
	}
	return ""
}

// validateEmail checks basic email shape and length.
func validateEmail(email string) string {
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if !emailRx.MatchString(email) {
		return "Email address is not valid."
	}
	return ""
}

// validateProfile checks profile update inputs.
func validateProfile(username, email string) string {
	if username == "" || email == "" {
		return "Username and email are required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 100 characters)."
	}
	return validateEmail(email)
}

// validateGeneration checks the fields of a generation request and returns
// the first error found. The image/prompt presence invariant is checked by
// the orchestrator after any upload has resolved.
func validateGeneration(textPrompt string, language models.Language, aiUsed models.ProviderName) string {
	if !aiUsed.Valid() {
		names := make([]string, 0, 3)
		for _, n := range models.ProviderNames() {
			names = append(names, string(n))
		}
		return "Invalid aiUsed value. Must be one of " + strings.Join(names, ", ")
	}
	if !language.Valid() {
		return "Invalid language value."
	}
	if utf8.RuneCountInString(textPrompt) > maxPromptLen {
		return "Text prompt is too long (max 10,000 characters)."
	}
	return ""
}

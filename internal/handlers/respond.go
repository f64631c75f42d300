// Package handlers implements the JSON HTTP endpoints for account
// management and wireframe code generation.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"wireforge/internal/models"
)

// envelope is the JSON response body shape shared by most endpoints.
type envelope map[string]any

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError writes a failure envelope with the given status and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"success": false, "message": message})
}

// userJSON is the public projection of a user account. The password hash
// never leaves the store layer.
func userJSON(u *models.User) envelope {
	return envelope{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wireforge/internal/middleware"
	"wireforge/internal/session"
	"wireforge/internal/store"
)

// Auth groups all account-related HTTP handlers.
type Auth struct {
	users  *store.UserStore
	issuer *session.Issuer
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, issuer *session.Issuer) *Auth {
	return &Auth{users: users, issuer: issuer}
}

// Signup registers a new account, issues a token, and sets the token cookie
// so the client is logged in immediately.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateSignup(req.Username, req.Email, req.Password, req.ConfirmPassword); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.Create(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Email is already registered")
			return
		}
		slog.Error("signup create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	token, err := a.issuer.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("signup token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error registering user")
		return
	}
	a.issuer.SetTokenCookie(w, token)

	respondJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "User registered successfully",
		"user":    userJSON(user),
		"token":   token,
	})
}

// Login verifies credentials and issues a fresh token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed due to server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User with this email does not exist")
		return
	}

	if !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := a.issuer.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("login token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed due to server error")
		return
	}
	a.issuer.SetTokenCookie(w, token)

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "User logged in successfully",
		"user":    userJSON(user),
		"token":   token,
	})
}

// Profile returns the authenticated user's account details.
func (a *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	user, err := a.users.FindByID(ident.UserID)
	if err != nil {
		slog.Error("profile lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error while fetching the profile")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "User profile fetched successfully",
		"user":    userJSON(user),
	})
}

// UpdateProfile changes the authenticated user's username and email.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateProfile(req.Username, req.Email); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.UpdateProfile(ident.UserID, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Email is already registered")
			return
		}
		slog.Error("profile update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error while updating profile")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userJSON(user),
	})
}

// ChangePassword verifies the current password and replaces it.
func (a *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	var req struct {
		CurrentPassword    string `json:"currentPassword"`
		NewPassword        string `json:"newPassword"`
		ConfirmNewPassword string `json:"confirmNewPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmNewPassword == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		respondError(w, http.StatusBadRequest, "New passwords do not match")
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	}

	user, err := a.users.FindByID(ident.UserID)
	if err != nil {
		slog.Error("change password lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error while changing password")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if !a.users.CheckPassword(user, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	if err := a.users.UpdatePassword(ident.UserID, req.NewPassword); err != nil {
		slog.Error("change password update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error while changing password")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Password changed successfully",
	})
}

// DeleteAccount removes the authenticated user and everything they own.
// The FK cascades drop their wireframes, generated code, and AI logs.
func (a *Auth) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	deleted, err := a.users.Delete(ident.UserID)
	if err != nil {
		slog.Error("account delete failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error while deleting account")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	a.revokeRequestToken(r)
	a.issuer.ClearTokenCookie(w)

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "User account deleted successfully",
	})
}

// Logout revokes the presented token and clears the cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.revokeRequestToken(r)
	a.issuer.ClearTokenCookie(w)

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "User logged out successfully",
	})
}

// revokeRequestToken puts the request's bearer token on the revocation
// list. Failures are logged, not surfaced: the cookie is cleared either way
// and the token still dies at its natural expiry.
func (a *Auth) revokeRequestToken(r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		token = cookie.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		token = h[7:]
	}
	if token == "" {
		return
	}
	if err := a.issuer.Revoke(r.Context(), token); err != nil {
		slog.Error("token revoke failed", "error", err)
	}
}

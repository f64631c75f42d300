// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"wireforge/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// identityKey is the context key for the authenticated identity.
	identityKey contextKey = "identity"
)

// Authenticate validates the bearer credential on every request and stores
// the resulting identity in the request context. The token is read from the
// Authorization header first, falling back to the "token" cookie for
// browser clients. Requests without a valid token receive 401.
func Authenticate(issuer *session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "Authentication required")
				return
			}

			ident, err := issuer.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the raw token from "Authorization: Bearer <token>"
// or from the token cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(session.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// IdentityFromCtx extracts the authenticated identity from the request
// context. Returns nil if the request did not pass Authenticate.
func IdentityFromCtx(ctx context.Context) *session.Identity {
	ident, _ := ctx.Value(identityKey).(*session.Identity)
	return ident
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

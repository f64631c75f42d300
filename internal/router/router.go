// Package router sets up all HTTP routes and middleware chains for the
// wireforge API. It organizes routes into public auth endpoints and
// token-protected account and wireframe groups.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wireforge/internal/handlers"
	"wireforge/internal/middleware"
	"wireforge/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(issuer *session.Issuer, auth *handlers.Auth, wireframes *handlers.Wireframes) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/auth", func(r chi.Router) {
		// Public endpoints.
		r.Post("/signup", auth.Signup)
		r.Post("/login", auth.Login)

		// Token-protected account management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(issuer))
			r.Get("/profile", auth.Profile)
			r.Put("/update-profile", auth.UpdateProfile)
			r.Put("/change-password", auth.ChangePassword)
			r.Delete("/delete-account", auth.DeleteAccount)
			r.Post("/logout", auth.Logout)
		})
	})

	// Wireframe workflow — every endpoint requires a valid token.
	r.Route("/wireframes", func(r chi.Router) {
		r.Use(middleware.Authenticate(issuer))

		r.Post("/generate-full", wireframes.GenerateFull)
		r.Get("/getwireframes", wireframes.List)
		r.Post("/suggestions", wireframes.SuggestSimilar)
		r.Get("/all-codes/user", wireframes.ListGeneratedCodes)
		r.Get("/generated-code/{id}", wireframes.GetGeneratedCode)
		r.Put("/update/{id}", wireframes.Update)
		r.Delete("/delete/{id}", wireframes.Delete)
		r.Post("/{id}/generate-code", wireframes.GenerateCode)
		r.Get("/{id}", wireframes.Get)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wireforge/internal/ai"
	"wireforge/internal/database"
	"wireforge/internal/middleware"
	"wireforge/internal/models"
	"wireforge/internal/session"
	"wireforge/internal/store"
)

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name       string
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockAIProvider) Name() string { return m.name }
func (m *mockAIProvider) Generate(_ context.Context, system, user string) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	return m.response, m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "wireforge")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "wireforge")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	db         *sql.DB
	router     chi.Router
	issuer     *session.Issuer
	users      *store.UserStore
	wireframes *store.WireframeStore
	codes      *store.GeneratedCodeStore
	logs       *store.AILogStore
	registry   *ai.Registry
}

// newTestEnv builds the full handler stack against the test database.
// AI providers must be registered per test through env.registry.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	issuer := session.NewIssuer("test-secret", time.Hour, nil, false)

	users := store.NewUserStore(db)
	wireframes := store.NewWireframeStore(db)
	codes := store.NewGeneratedCodeStore(db)
	logs := store.NewAILogStore(db)
	registry := ai.NewRegistry(nil)

	authHandlers := NewAuth(users, issuer)
	wireframeHandlers := NewWireframes(wireframes, codes, logs, nil, registry)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandlers.Signup)
		r.Post("/login", authHandlers.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(issuer))
			r.Get("/profile", authHandlers.Profile)
			r.Put("/update-profile", authHandlers.UpdateProfile)
			r.Put("/change-password", authHandlers.ChangePassword)
			r.Delete("/delete-account", authHandlers.DeleteAccount)
			r.Post("/logout", authHandlers.Logout)
		})
	})
	r.Route("/wireframes", func(r chi.Router) {
		r.Use(middleware.Authenticate(issuer))
		r.Post("/generate-full", wireframeHandlers.GenerateFull)
		r.Get("/getwireframes", wireframeHandlers.List)
		r.Post("/suggestions", wireframeHandlers.SuggestSimilar)
		r.Get("/all-codes/user", wireframeHandlers.ListGeneratedCodes)
		r.Get("/generated-code/{id}", wireframeHandlers.GetGeneratedCode)
		r.Put("/update/{id}", wireframeHandlers.Update)
		r.Delete("/delete/{id}", wireframeHandlers.Delete)
		r.Post("/{id}/generate-code", wireframeHandlers.GenerateCode)
		r.Get("/{id}", wireframeHandlers.Get)
	})

	return &testEnv{
		db:         db,
		router:     r,
		issuer:     issuer,
		users:      users,
		wireframes: wireframes,
		codes:      codes,
		logs:       logs,
		registry:   registry,
	}
}

// doJSON performs a JSON request against the test router. token may be empty.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doForm performs a form-encoded request, as the browser client does for
// the generation endpoints.
func (e *testEnv) doForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorder's JSON body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

// signupUser registers a user through the API and returns their token.
// The account is removed when the test finishes.
func (e *testEnv) signupUser(t *testing.T, username, email, password string) string {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username":        username,
		"email":           email,
		"password":        password,
		"confirmPassword": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status %d: %s", email, rec.Code, rec.Body.String())
	}

	t.Cleanup(func() {
		e.db.Exec("DELETE FROM users WHERE email = $1", email)
	})

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("signup response missing token")
	}
	return token
}

// registerMockAI installs a mock provider under the given name.
func (e *testEnv) registerMockAI(name models.ProviderName, response string, err error) *mockAIProvider {
	mock := &mockAIProvider{name: string(name), response: response, err: err}
	e.registry.Register(name, mock)
	return mock
}

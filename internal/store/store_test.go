// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides the shared database harness for store tests.
// Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wireforge/internal/database"
	"wireforge/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

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

// createTestUser inserts a user and removes it (with cascades) on cleanup.
func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	users := NewUserStore(db)
	email := fmt.Sprintf("store-%d@test.local", time.Now().UnixNano())
	u, err := users.Create("storeuser", email, "secret1")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func TestUserStore(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	u := createTestUser(t, db)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := users.Create("someone", u.Email, "secret1")
		if err != ErrEmailTaken {
			t.Errorf("err = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := users.FindByEmail(u.Email)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found == nil || found.ID != u.ID {
			t.Errorf("found = %v, want id %s", found, u.ID)
		}
	})

	t.Run("find unknown email returns nil", func(t *testing.T) {
		found, err := users.FindByEmail("nobody@test.local")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found != nil {
			t.Errorf("found = %v, want nil", found)
		}
	})

	t.Run("check password", func(t *testing.T) {
		if !users.CheckPassword(u, "secret1") {
			t.Error("correct password rejected")
		}
		if users.CheckPassword(u, "wrong") {
			t.Error("wrong password accepted")
		}
	})

	t.Run("update password", func(t *testing.T) {
		if err := users.UpdatePassword(u.ID, "changed1"); err != nil {
			t.Fatalf("update password: %v", err)
		}
		fresh, err := users.FindByID(u.ID)
		if err != nil || fresh == nil {
			t.Fatalf("reload: %v", err)
		}
		if !users.CheckPassword(fresh, "changed1") {
			t.Error("new password rejected")
		}
		if users.CheckPassword(fresh, "secret1") {
			t.Error("old password still accepted")
		}
	})

	t.Run("update profile duplicate email", func(t *testing.T) {
		other := createTestUser(t, db)
		_, err := users.UpdateProfile(u.ID, "renamed", other.Email)
		if err != ErrEmailTaken {
			t.Errorf("err = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		victim := createTestUser(t, db)
		deleted, err := users.Delete(victim.ID)
		if err != nil || !deleted {
			t.Fatalf("delete = %v, %v; want true, nil", deleted, err)
		}
		deleted, err = users.Delete(victim.ID)
		if err != nil {
			t.Fatalf("second delete: %v", err)
		}
		if deleted {
			t.Error("second delete reported a removed row")
		}
	})
}

func TestWireframeStore(t *testing.T) {
	db := testDB(t)
	wireframes := NewWireframeStore(db)
	u := createTestUser(t, db)

	w, err := wireframes.Create(u.ID, "", "store test prompt xkq", models.LangReact, models.ProviderChatGPT)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.GeneratedCode != "" || w.LivePreview != "" {
		t.Errorf("draft should have empty code fields, got %q / %q", w.GeneratedCode, w.LivePreview)
	}
	if len(w.Suggestions) != 0 {
		t.Errorf("draft suggestions = %v, want empty", w.Suggestions)
	}

	t.Run("create without image and prompt violates check", func(t *testing.T) {
		if _, err := wireframes.Create(u.ID, "", "", models.LangReact, models.ProviderChatGPT); err == nil {
			t.Error("expected constraint violation, got nil")
		}
	})

	t.Run("set generated round trip", func(t *testing.T) {
		suggestions := []models.Suggestion{
			{SuggestionText: "Variation 1: Add a header", CodeSnippet: "<header></header>\n<div/>"},
		}
		updated, err := wireframes.SetGenerated(w.ID, "<div/>", "<div class='live-preview'><div/></div>", suggestions)
		if err != nil {
			t.Fatalf("set generated: %v", err)
		}
		if updated.GeneratedCode != "<div/>" {
			t.Errorf("generated code = %q", updated.GeneratedCode)
		}

		reloaded, err := wireframes.FindByID(w.ID)
		if err != nil || reloaded == nil {
			t.Fatalf("reload: %v", err)
		}
		if len(reloaded.Suggestions) != 1 || reloaded.Suggestions[0].SuggestionText != "Variation 1: Add a header" {
			t.Errorf("suggestions after reload = %v", reloaded.Suggestions)
		}
	})

	t.Run("find unknown returns nil", func(t *testing.T) {
		found, err := wireframes.FindByID(uuid.New())
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found != nil {
			t.Errorf("found = %v, want nil", found)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		second, err := wireframes.Create(u.ID, "", "another store prompt", models.LangNext, models.ProviderGemini)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		items, err := wireframes.ListByUser(u.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("list length = %d, want 2", len(items))
		}
		if items[0].ID != second.ID {
			t.Errorf("first item = %s, want newest %s", items[0].ID, second.ID)
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		matches, err := wireframes.SearchByPrompt("PROMPT XKQ", 5)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(matches) != 1 || matches[0].ID != w.ID {
			t.Errorf("matches = %v, want the xkq wireframe", matches)
		}
	})

	t.Run("search respects limit", func(t *testing.T) {
		matches, err := wireframes.SearchByPrompt("store", 1)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(matches) != 1 {
			t.Errorf("matches = %d, want 1", len(matches))
		}
	})
}

func TestGeneratedCodeStore(t *testing.T) {
	db := testDB(t)
	wireframes := NewWireframeStore(db)
	codes := NewGeneratedCodeStore(db)
	u := createTestUser(t, db)

	w, err := wireframes.Create(u.ID, "", "code store prompt", models.LangHTMLCSS, models.ProviderGemini)
	if err != nil {
		t.Fatalf("create wireframe: %v", err)
	}

	t.Run("latest of none is nil", func(t *testing.T) {
		latest, err := codes.LatestByWireframe(w.ID)
		if err != nil {
			t.Fatalf("latest: %v", err)
		}
		if latest != nil {
			t.Errorf("latest = %v, want nil", latest)
		}
	})

	if _, err := codes.Create(w.ID, u.ID, "<p>v1</p>", w.Language); err != nil {
		t.Fatalf("create v1: %v", err)
	}
	// Distinct created_at so the ordering is deterministic.
	time.Sleep(10 * time.Millisecond)
	if _, err := codes.Create(w.ID, u.ID, "<p>v2</p>", w.Language); err != nil {
		t.Fatalf("create v2: %v", err)
	}

	t.Run("latest wins", func(t *testing.T) {
		latest, err := codes.LatestByWireframe(w.ID)
		if err != nil || latest == nil {
			t.Fatalf("latest: %v", err)
		}
		if latest.Code != "<p>v2</p>" {
			t.Errorf("latest code = %q, want v2", latest.Code)
		}
	})

	t.Run("list by user", func(t *testing.T) {
		items, err := codes.ListByUser(u.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("list length = %d, want 2", len(items))
		}
	})
}

func TestAILogStore(t *testing.T) {
	db := testDB(t)
	wireframes := NewWireframeStore(db)
	logs := NewAILogStore(db)
	u := createTestUser(t, db)

	w, err := wireframes.Create(u.ID, "", "log store prompt", models.LangHTMLCSS, models.ProviderChatGPT)
	if err != nil {
		t.Fatalf("create wireframe: %v", err)
	}

	if err := logs.Append(u.ID, &w.ID, models.ProviderChatGPT, []byte(`{"prompt":"x"}`), []byte(`{"generatedCode":"y"}`), models.AILogSuccess, ""); err != nil {
		t.Fatalf("append success: %v", err)
	}
	if err := logs.Append(u.ID, &w.ID, models.ProviderChatGPT, []byte(`{"prompt":"x"}`), nil, models.AILogFailure, "upstream timeout"); err != nil {
		t.Fatalf("append failure: %v", err)
	}
	// Rows with no wireframe reference are allowed.
	if err := logs.Append(u.ID, nil, models.ProviderGemini, nil, nil, models.AILogFailure, "no wireframe"); err != nil {
		t.Fatalf("append without wireframe: %v", err)
	}

	t.Run("list by wireframe", func(t *testing.T) {
		items, err := logs.ListByWireframe(w.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("list length = %d, want 2", len(items))
		}
	})

	t.Run("list by user includes unattached rows", func(t *testing.T) {
		items, err := logs.ListByUser(u.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("list length = %d, want 3", len(items))
		}
		var failures int
		for _, item := range items {
			if item.Status == models.AILogFailure {
				failures++
			}
		}
		if failures != 2 {
			t.Errorf("failure rows = %d, want 2", failures)
		}
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"wireforge/internal/models"
)

// WireframeStore handles all wireframe-related database operations.
type WireframeStore struct {
	db *sql.DB
}

// NewWireframeStore creates a new WireframeStore with the given database connection.
func NewWireframeStore(db *sql.DB) *WireframeStore {
	return &WireframeStore{db: db}
}

const wireframeColumns = `id, user_id, image_url, text_prompt, language, ai_used,
       generated_code, live_preview, suggestions, created_at, updated_at`

// scanWireframe reads one wireframe row, decoding the suggestions JSONB column.
func scanWireframe(row interface{ Scan(...any) error }) (*models.Wireframe, error) {
	w := &models.Wireframe{}
	var suggestions []byte
	err := row.Scan(
		&w.ID, &w.UserID, &w.ImageURL, &w.TextPrompt, &w.Language, &w.AIUsed,
		&w.GeneratedCode, &w.LivePreview, &suggestions, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(suggestions, &w.Suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return w, nil
}

// Create inserts a draft wireframe with empty code fields.
func (s *WireframeStore) Create(userID uuid.UUID, imageURL, textPrompt string, language models.Language, aiUsed models.ProviderName) (*models.Wireframe, error) {
	row := s.db.QueryRow(`
		INSERT INTO wireframes (user_id, image_url, text_prompt, language, ai_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+wireframeColumns,
		userID, imageURL, textPrompt, language, aiUsed,
	)
	w, err := scanWireframe(row)
	if err != nil {
		return nil, fmt.Errorf("create wireframe: %w", err)
	}
	return w, nil
}

// FindByID retrieves a wireframe by its UUID. Returns nil if not found.
func (s *WireframeStore) FindByID(id uuid.UUID) (*models.Wireframe, error) {
	row := s.db.QueryRow(`SELECT `+wireframeColumns+` FROM wireframes WHERE id = $1`, id)
	w, err := scanWireframe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wireframe by id: %w", err)
	}
	return w, nil
}

// ListByUser returns all wireframes owned by a user, newest first.
func (s *WireframeStore) ListByUser(userID uuid.UUID) ([]models.Wireframe, error) {
	rows, err := s.db.Query(`
		SELECT `+wireframeColumns+`
		FROM wireframes WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wireframes: %w", err)
	}
	defer rows.Close()

	var items []models.Wireframe
	for rows.Next() {
		w, err := scanWireframe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wireframe: %w", err)
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

// Update replaces the mutable prompt fields of a wireframe. Generated code
// fields are only written through SetGenerated.
func (s *WireframeStore) Update(id uuid.UUID, imageURL, textPrompt string, language models.Language, aiUsed models.ProviderName) (*models.Wireframe, error) {
	row := s.db.QueryRow(`
		UPDATE wireframes
		SET image_url = $1, text_prompt = $2, language = $3, ai_used = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+wireframeColumns,
		imageURL, textPrompt, language, aiUsed, id,
	)
	w, err := scanWireframe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update wireframe: %w", err)
	}
	return w, nil
}

// SetGenerated writes the results of a successful generation onto the
// wireframe: the code itself, the live preview markup, and the derived
// suggestion variants.
func (s *WireframeStore) SetGenerated(id uuid.UUID, code, livePreview string, suggestions []models.Suggestion) (*models.Wireframe, error) {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("encode suggestions: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE wireframes
		SET generated_code = $1, live_preview = $2, suggestions = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+wireframeColumns,
		code, livePreview, payload, id,
	)
	w, err := scanWireframe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set generated code: %w", err)
	}
	return w, nil
}

// Delete removes a wireframe by ID. Returns false when no row existed.
func (s *WireframeStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM wireframes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete wireframe: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SearchByPrompt finds wireframes whose text prompt contains the given
// substring, case-insensitively, capped at limit results. The search spans
// all users: prompt text is treated as a shared corpus of past requests.
func (s *WireframeStore) SearchByPrompt(substr string, limit int) ([]models.Wireframe, error) {
	rows, err := s.db.Query(`
		SELECT `+wireframeColumns+`
		FROM wireframes
		WHERE text_prompt ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, substr, limit)
	if err != nil {
		return nil, fmt.Errorf("search wireframes: %w", err)
	}
	defer rows.Close()

	var items []models.Wireframe
	for rows.Next() {
		w, err := scanWireframe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wireframe: %w", err)
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"wireforge/internal/models"
)

// GeneratedCodeStore handles the append-only generated code records.
type GeneratedCodeStore struct {
	db *sql.DB
}

// NewGeneratedCodeStore creates a new GeneratedCodeStore with the given database connection.
func NewGeneratedCodeStore(db *sql.DB) *GeneratedCodeStore {
	return &GeneratedCodeStore{db: db}
}

// Create appends a generated code record for a wireframe.
func (s *GeneratedCodeStore) Create(wireframeID, userID uuid.UUID, code string, language models.Language) (*models.GeneratedCode, error) {
	g := &models.GeneratedCode{}
	err := s.db.QueryRow(`
		INSERT INTO generated_codes (wireframe_id, user_id, code, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, wireframe_id, user_id, code, language, created_at
	`, wireframeID, userID, code, language).Scan(
		&g.ID, &g.WireframeID, &g.UserID, &g.Code, &g.Language, &g.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create generated code: %w", err)
	}
	return g, nil
}

// LatestByWireframe returns the most recent generated code for a wireframe.
// Returns nil if the wireframe has no generated code yet.
func (s *GeneratedCodeStore) LatestByWireframe(wireframeID uuid.UUID) (*models.GeneratedCode, error) {
	g := &models.GeneratedCode{}
	err := s.db.QueryRow(`
		SELECT id, wireframe_id, user_id, code, language, created_at
		FROM generated_codes
		WHERE wireframe_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, wireframeID).Scan(
		&g.ID, &g.WireframeID, &g.UserID, &g.Code, &g.Language, &g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest generated code: %w", err)
	}
	return g, nil
}

// ListByUser returns all generated code records owned by a user, newest first.
func (s *GeneratedCodeStore) ListByUser(userID uuid.UUID) ([]models.GeneratedCode, error) {
	rows, err := s.db.Query(`
		SELECT id, wireframe_id, user_id, code, language, created_at
		FROM generated_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list generated codes: %w", err)
	}
	defer rows.Close()

	var items []models.GeneratedCode
	for rows.Next() {
		var g models.GeneratedCode
		if err := rows.Scan(
			&g.ID, &g.WireframeID, &g.UserID, &g.Code, &g.Language, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generated code: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

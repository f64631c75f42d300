package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"wireforge/internal/models"
)

// AILogStore persists the append-only audit trail of AI call attempts.
// Callers treat Append failures as non-fatal: losing an audit row must
// never fail the request that produced it.
type AILogStore struct {
	db *sql.DB
}

// NewAILogStore creates a new AILogStore with the given database connection.
func NewAILogStore(db *sql.DB) *AILogStore {
	return &AILogStore{db: db}
}

// Append inserts one audit record for an AI call attempt.
func (s *AILogStore) Append(userID uuid.UUID, wireframeID *uuid.UUID, provider models.ProviderName, request, response json.RawMessage, status models.AILogStatus, errorDetail string) error {
	if request == nil {
		request = json.RawMessage(`{}`)
	}
	if response == nil {
		response = json.RawMessage(`{}`)
	}

	_, err := s.db.Exec(`
		INSERT INTO ai_request_logs (user_id, wireframe_id, provider, request_payload, response_payload, status, error_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, wireframeID, provider, []byte(request), []byte(response), status, errorDetail)
	if err != nil {
		return fmt.Errorf("append ai log: %w", err)
	}
	return nil
}

// ListByWireframe returns the audit records for a wireframe, oldest first.
func (s *AILogStore) ListByWireframe(wireframeID uuid.UUID) ([]models.AIRequestLog, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, wireframe_id, provider, request_payload, response_payload, status, error_detail, created_at
		FROM ai_request_logs
		WHERE wireframe_id = $1
		ORDER BY created_at ASC
	`, wireframeID)
	if err != nil {
		return nil, fmt.Errorf("list ai logs: %w", err)
	}
	defer rows.Close()

	return scanAILogs(rows)
}

// ListByUser returns all audit records for a user, oldest first.
func (s *AILogStore) ListByUser(userID uuid.UUID) ([]models.AIRequestLog, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, wireframe_id, provider, request_payload, response_payload, status, error_detail, created_at
		FROM ai_request_logs
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ai logs by user: %w", err)
	}
	defer rows.Close()

	return scanAILogs(rows)
}

func scanAILogs(rows *sql.Rows) ([]models.AIRequestLog, error) {
	var items []models.AIRequestLog
	for rows.Next() {
		var l models.AIRequestLog
		var request, response []byte
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.WireframeID, &l.Provider,
			&request, &response, &l.Status, &l.ErrorDetail, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ai log: %w", err)
		}
		l.RequestPayload = json.RawMessage(request)
		l.ResponsePayload = json.RawMessage(response)
		items = append(items, l)
	}
	return items, rows.Err()
}

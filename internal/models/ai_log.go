package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AILogStatus marks the outcome of one AI call attempt.
type AILogStatus string

const (
	AILogSuccess AILogStatus = "success"
	AILogFailure AILogStatus = "failure"
)

// AIRequestLog is an append-only audit record of a single AI request and
// its response. One row exists per call attempt, success or failure.
type AIRequestLog struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	WireframeID     *uuid.UUID      `json:"wireframe_id"` // nullable: a call may precede any wireframe
	Provider        ProviderName    `json:"provider"`
	RequestPayload  json.RawMessage `json:"request_payload"`
	ResponsePayload json.RawMessage `json:"response_payload"`
	Status          AILogStatus     `json:"status"`
	ErrorDetail     string          `json:"error_detail"`
	CreatedAt       time.Time       `json:"created_at"`
}

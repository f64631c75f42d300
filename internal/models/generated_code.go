package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedCode is one generation attempt's output for a wireframe.
// A new row is appended on every successful generation; rows are never
// mutated afterwards.
type GeneratedCode struct {
	ID          uuid.UUID `json:"id"`
	WireframeID uuid.UUID `json:"wireframe_id"`
	UserID      uuid.UUID `json:"user_id"`
	Code        string    `json:"code"`
	Language    Language  `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
}

package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveSessions = errors.New("no active sessions available")
)

// SessionConfig is one stored Instagram session token plus its usage
// bookkeeping. The scraper rotates through active sessions.
type SessionConfig struct {
	ID            int64     `json:"id" db:"id"`
	SessionID     string    `json:"session_id" db:"session_id"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	LastUsed      time.Time `json:"last_used" db:"last_used"`
	SuccessRate   float64   `json:"success_rate" db:"success_rate"`
	TotalRequests int64     `json:"total_requests" db:"total_requests"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreateSessionRequest registers a new session token.
type CreateSessionRequest struct {
	SessionID string `json:"session_id"`
	IsActive  bool   `json:"is_active"`
}

func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SessionID,
			validation.Required.Error("session_id is required"),
			validation.Length(8, 512),
		),
	)
}

// UpdateSessionRequest toggles a stored session.
type UpdateSessionRequest struct {
	IsActive *bool `json:"is_active"`
}

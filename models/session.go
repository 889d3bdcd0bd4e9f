package models

import (
	"time"

	"github.com/google/uuid"
)

// Session struct for storing session data
type Session struct {
	SessionToken string    `json:"session_token"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
	CSRFToken    string    `json:"csrf_token"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
}

// Owner returns the account the session acts for, or uuid.Nil.
func (s *Session) Owner() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.UserID
}

package storage

import (
	"context"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage stores the credential handed over by the external auth collaborator.
// The engine never creates or refreshes credentials itself.
type SessionStorage interface {
	// SaveSession stores session data as-is
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error
}

// Session represents an authenticated user session in storage
type Session struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds, 0 = no expiry
}

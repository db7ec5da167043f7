// Package session provides server-side session storage for the dashboard's
// cookie-based authentication. Two backends are available: a PostgreSQL store
// for deployments with a shared database and an in-memory store for local
// development, selected through configuration.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session referenced by the cookie value.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session's lifetime has elapsed.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists sessions across requests.
type Store interface {
	// Create stores a new session for the user and returns it.
	Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, error)
	// Get retrieves a live session by ID. Expired or unknown sessions return
	// apperrors.ErrSessionExpired / apperrors.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session (logout).
	Delete(ctx context.Context, id string) error
	// DeleteExpired sweeps expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// NewSessionID generates an opaque session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

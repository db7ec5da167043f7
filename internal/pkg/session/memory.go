package session

import (
	"context"
	"sync"
	"time"

	"github.com/deniz/regdesk/internal/pkg/apperrors"
)

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart; intended for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session for the user.
func (s *MemoryStore) Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        NewSessionID(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get retrieves a live session by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if sess.Expired() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, apperrors.ErrSessionExpired
	}

	copy := *sess
	return &copy, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// DeleteExpired sweeps expired sessions.
func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, sess := range s.sessions {
		if sess.Expired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// PGStore persists sessions in the sessions table so logins survive restarts
// and are shared across instances.
type PGStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPGStore creates a PostgreSQL-backed session store.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new session for the user.
func (s *PGStore) Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        NewSessionID(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	sql, args, err := s.sb.Insert("sessions").
		Columns("id", "user_id", "expires_at", "created_at").
		Values(sess.ID, sess.UserID, sess.ExpiresAt, sess.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create session query")
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return sess, nil
}

// Get retrieves a live session by ID.
func (s *PGStore) Get(ctx context.Context, id string) (*Session, error) {
	sql, args, err := s.sb.Select("id", "user_id", "expires_at", "created_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var sess Session
	err = s.db.QueryRow(ctx, sql, args...).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Str("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	if sess.Expired() {
		return nil, apperrors.ErrSessionExpired
	}

	return &sess, nil
}

// Delete removes a session.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	sql, args, err := s.sb.Delete("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error executing delete session query")
		return fmt.Errorf("error deleting session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// DeleteExpired sweeps expired sessions.
func (s *PGStore) DeleteExpired(ctx context.Context) (int64, error) {
	sql, args, err := s.sb.Delete("sessions").
		Where(squirrel.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build sweep sessions query: %w", err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error sweeping expired sessions: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

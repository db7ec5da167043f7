package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// ListStateRepository persists per-session list view state as a JSON document
type ListStateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewListStateRepository creates a new list state repository
func NewListStateRepository(db *pgxpool.Pool) *ListStateRepository {
	return &ListStateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the stored state document for a session.
func (r *ListStateRepository) Get(ctx context.Context, sessionID string) (json.RawMessage, error) {
	sql, args, err := r.sb.Select("state").
		From("list_states").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get list state query: %w", err)
	}

	var state json.RawMessage
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&state); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving list state: %w", err)
	}

	return state, nil
}

// Save upserts the state document for a session.
func (r *ListStateRepository) Save(ctx context.Context, sessionID string, state json.RawMessage) error {
	sql, args, err := r.sb.Insert("list_states").
		Columns("session_id", "state", "updated_at").
		Values(sessionID, state, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (session_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save list state query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error executing save list state query")
		return fmt.Errorf("error saving list state: %w", err)
	}

	return nil
}

// Delete removes the stored state for a session, typically on logout.
func (r *ListStateRepository) Delete(ctx context.Context, sessionID string) error {
	sql, args, err := r.sb.Delete("list_states").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete list state query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting list state: %w", err)
	}

	return nil
}

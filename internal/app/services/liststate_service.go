package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/deniz/regdesk/internal/app/liststate"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// listStateStore is the subset of the list state repository the service needs.
type listStateStore interface {
	Get(ctx context.Context, sessionID string) (json.RawMessage, error)
	Save(ctx context.Context, sessionID string, state json.RawMessage) error
	Delete(ctx context.Context, sessionID string) error
}

// ListStateService loads and persists the per-session list view state
type ListStateService interface {
	Load(ctx context.Context, sessionID string, query url.Values) (*liststate.State, error)
	Save(ctx context.Context, sessionID string, state *liststate.State) error
	Clear(ctx context.Context, sessionID string) error
}

type listStateService struct {
	store listStateStore
}

// NewListStateService creates a new ListStateService instance
func NewListStateService(store listStateStore) ListStateService {
	return &listStateService{store: store}
}

// Load restores the session's view state. If the URL carries any recognized
// parameter the URL wins outright and the saved snapshot is not consulted;
// otherwise the snapshot is restored. A session with no snapshot starts from
// the default state. A corrupt snapshot is discarded, not surfaced.
func (s *listStateService) Load(ctx context.Context, sessionID string, query url.Values) (*liststate.State, error) {
	state := liststate.New()
	if state.ApplyQueryParams(query) {
		if err := s.Save(ctx, sessionID, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	raw, err := s.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		if unmarshalErr := json.Unmarshal(raw, state); unmarshalErr != nil {
			logger.Warn().Err(unmarshalErr).Str("sessionID", sessionID).Msg("Discarding corrupt list state snapshot")
			state = liststate.New()
		}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		// first visit, defaults apply
	default:
		return nil, err
	}

	state.Normalize()
	return state, nil
}

// Save validates and persists the view state snapshot.
func (s *listStateService) Save(ctx context.Context, sessionID string, state *liststate.State) error {
	state.Normalize()

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, sessionID, raw)
}

// Clear drops the session's snapshot, typically on logout.
func (s *listStateService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

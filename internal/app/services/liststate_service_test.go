package services

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/helpers"
)

type stubListStateStore struct {
	snapshots map[string]json.RawMessage
}

func newStubListStateStore() *stubListStateStore {
	return &stubListStateStore{snapshots: map[string]json.RawMessage{}}
}

func (s *stubListStateStore) Get(_ context.Context, sessionID string) (json.RawMessage, error) {
	raw, ok := s.snapshots[sessionID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return raw, nil
}

func (s *stubListStateStore) Save(_ context.Context, sessionID string, state json.RawMessage) error {
	s.snapshots[sessionID] = state
	return nil
}

func (s *stubListStateStore) Delete(_ context.Context, sessionID string) error {
	delete(s.snapshots, sessionID)
	return nil
}

func TestListStateLoad_FirstVisitDefaults(t *testing.T) {
	svc := NewListStateService(newStubListStateStore())

	state, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)

	assert.Equal(t, helpers.DefaultLimit, state.Limit)
	assert.Zero(t, state.Offset)
	assert.Empty(t, state.SortBy)
}

func TestListStateLoad_QueryParamsBeatSnapshot(t *testing.T) {
	store := newStubListStateStore()
	svc := NewListStateService(store)

	saved, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)
	saved.SetNameFilter("smith")
	saved.ClickSort("name")
	require.NoError(t, svc.Save(context.Background(), "sess1", saved))

	query := url.Values{"status": {"active,pending"}, "limit": {"10"}}
	state, err := svc.Load(context.Background(), "sess1", query)
	require.NoError(t, err)

	assert.Equal(t, []string{"active", "pending"}, state.Filters.Status)
	assert.Equal(t, 10, state.Limit)
	// the snapshot is not consulted when the URL names any filter
	assert.Empty(t, state.Filters.Name)
	assert.Empty(t, state.SortBy)

	// the URL-derived state was written back
	reloaded, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Limit)
	assert.Equal(t, []string{"active", "pending"}, reloaded.Filters.Status)
	assert.Empty(t, reloaded.Filters.Name)
}

func TestListStateLoad_NoParamsRestoresSnapshot(t *testing.T) {
	store := newStubListStateStore()
	svc := NewListStateService(store)

	saved, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)
	saved.SetNameFilter("smith")
	require.NoError(t, svc.Save(context.Background(), "sess1", saved))

	state, err := svc.Load(context.Background(), "sess1", url.Values{"unrelated": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, "smith", state.Filters.Name)
}

func TestListStateLoad_CorruptSnapshotDiscarded(t *testing.T) {
	store := newStubListStateStore()
	store.snapshots["sess1"] = json.RawMessage(`{"limit": "not a number"`)
	svc := NewListStateService(store)

	state, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)
	assert.Equal(t, helpers.DefaultLimit, state.Limit)
}

func TestListStateClear(t *testing.T) {
	store := newStubListStateStore()
	svc := NewListStateService(store)

	state, err := svc.Load(context.Background(), "sess1", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Save(context.Background(), "sess1", state))
	require.NoError(t, svc.Clear(context.Background(), "sess1"))

	assert.NotContains(t, store.snapshots, "sess1")
}

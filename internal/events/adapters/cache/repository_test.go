package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-analytics-service/internal/events/core/domain"
)

type fakeStore struct {
	events    map[uint64]domain.Event
	gets      int
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: map[uint64]domain.Event{}}
}

func (f *fakeStore) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, ok := f.events[e.ID]; ok {
		return false, nil
	}
	f.events[e.ID] = *e
	return true, nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id uint64) (*domain.Event, error) {
	f.gets++
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func TestEventRepository_WriteThrough(t *testing.T) {
	store := newFakeStore()
	repo, err := NewEventRepository(store, 8)
	require.NoError(t, err)

	e := &domain.Event{ID: 5000000, Timestamp: 5000, DeviceID: "d", Payload: domain.Identify{}}
	created, err := repo.InsertEvent(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.GetEvent(context.Background(), 5000000)
	require.NoError(t, err)
	assert.Equal(t, e, got)
	assert.Equal(t, 0, store.gets, "lookup must be served from cache")
}

func TestEventRepository_MissFillsCache(t *testing.T) {
	store := newFakeStore()
	store.events[1] = domain.Event{ID: 1, Timestamp: 1, ClientID: "c", Payload: domain.Base{Description: "x"}}
	repo, err := NewEventRepository(store, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := repo.GetEvent(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, repo.Len())
}

func TestEventRepository_NotFoundIsNotCached(t *testing.T) {
	store := newFakeStore()
	repo, err := NewEventRepository(store, 8)
	require.NoError(t, err)

	_, err = repo.GetEvent(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Equal(t, 0, repo.Len())
}

func TestEventRepository_InsertErrorNotCached(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("db down")
	repo, err := NewEventRepository(store, 8)
	require.NoError(t, err)

	_, err = repo.InsertEvent(context.Background(), &domain.Event{ID: 1, Payload: domain.Identify{}})
	assert.Error(t, err)
	assert.Equal(t, 0, repo.Len())
}

func TestNewEventRepository_InvalidSize(t *testing.T) {
	_, err := NewEventRepository(newFakeStore(), 0)
	assert.Error(t, err)
}

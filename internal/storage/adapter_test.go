package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/state"
	"github.com/palemoky/bridge-scorer/internal/testutil"
)

const testKey = "bridge-scorer/game-state"

var now = time.Date(2026, 10, 18, 21, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func sampleState(t *testing.T) *state.State {
	t.Helper()
	st := state.New(state.WithClock(clockAt(now)), state.WithMode(deal.ModeChicago))
	require.NoError(t, st.AddScore(deal.EW, 620))
	st.RecordDeal(history.Entry{Declarer: deal.EW, Score: 620})
	st.NextDeal()
	return st
}

func TestAdapter_SaveLoad(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := NewAdapter(store, 0, WithAdapterClock(clockAt(now)))
	st := sampleState(t)

	ctx := context.Background()
	require.True(t, a.Save(ctx, testKey, st.Export()))

	snap, ok := a.Load(ctx, testKey)
	require.True(t, ok)
	require.NotNil(t, snap.SavedAt)
	assert.True(t, now.Equal(*snap.SavedAt))
	assert.Equal(t, 2, snap.DealNumber)
	assert.Equal(t, 620, snap.Scores[deal.EW])
	assert.Equal(t, deal.ModeChicago, snap.ModeTag())
	assert.Len(t, snap.History, 1)
	assert.Equal(t, DefaultMaxAge, a.MaxAge())
}

func TestAdapter_LoadMissing(t *testing.T) {
	t.Parallel()

	a := NewAdapter(NewMemoryStore(), time.Hour)
	snap, ok := a.Load(context.Background(), testKey)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestAdapter_LoadExpired(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	// Saved 25 hours ago against a 24 hour threshold.
	writer := NewAdapter(store, 24*time.Hour, WithAdapterClock(clockAt(now.Add(-25*time.Hour))))
	require.True(t, writer.Save(ctx, testKey, sampleState(t).Export()))

	reader := NewAdapter(store, 24*time.Hour, WithAdapterClock(clockAt(now)))
	snap, ok := reader.Load(ctx, testKey)
	assert.False(t, ok)
	assert.Nil(t, snap)

	_, err := store.Get(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound, "expired snapshot is removed")
}

func TestAdapter_LoadWithinMaxAge(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	writer := NewAdapter(store, 24*time.Hour, WithAdapterClock(clockAt(now.Add(-23*time.Hour))))
	require.True(t, writer.Save(ctx, testKey, sampleState(t).Export()))

	reader := NewAdapter(store, 24*time.Hour, WithAdapterClock(clockAt(now)))
	_, ok := reader.Load(ctx, testKey)
	assert.True(t, ok)
}

func TestAdapter_LoadMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"scores":`},
		{"missing history", `{"scores":{"NS":0,"EW":0},"dealNumber":1,"vulnerability":"None","savedAt":"2026-10-18T20:00:00Z"}`},
		{"missing dealNumber", `{"scores":{"NS":0,"EW":0},"history":[],"vulnerability":"None","savedAt":"2026-10-18T20:00:00Z"}`},
		{"no timestamps", `{"scores":{"NS":0,"EW":0},"dealNumber":1,"history":[],"vulnerability":"None"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewMemoryStore()
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, testKey, []byte(tt.data)))

			a := NewAdapter(store, 24*time.Hour, WithAdapterClock(clockAt(now)))
			snap, ok := a.Load(ctx, testKey)
			assert.False(t, ok)
			assert.Nil(t, snap)
		})
	}
}

func TestAdapter_LastModifiedFallback(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	snap := sampleState(t).Export()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, testKey, data))

	a := NewAdapter(store, time.Hour, WithAdapterClock(clockAt(now.Add(30*time.Minute))))
	_, ok := a.Load(ctx, testKey)
	assert.True(t, ok)
}

func TestAdapter_StoreFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	store := new(testutil.MockStore)
	store.On("Set", mock.Anything, testKey, mock.Anything).Return(boom)
	store.On("Get", mock.Anything, testKey).Return(nil, boom)
	store.On("Delete", mock.Anything, testKey).Return(boom)

	a := NewAdapter(store, time.Hour)
	ctx := context.Background()
	st := sampleState(t)
	before := st.Export()

	assert.NotPanics(t, func() {
		assert.False(t, a.Save(ctx, testKey, st.Export()))
		_, ok := a.Load(ctx, testKey)
		assert.False(t, ok)
		a.Clear(ctx, testKey)
	})
	assert.Equal(t, before, st.Export(), "in-memory state unaffected")
	store.AssertExpectations(t)
}

// countingStore counts writes.
type countingStore struct {
	*MemoryStore
	mu   sync.Mutex
	sets int
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryStore.Set(ctx, key, value)
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func TestAutosaver_DebounceCoalesces(t *testing.T) {
	t.Parallel()

	store := &countingStore{MemoryStore: NewMemoryStore()}
	st := state.New(state.WithMode("kitchen"))
	saver := NewAutosaver(NewAdapter(store, time.Hour), st, testKey, 50*time.Millisecond, time.Hour)
	saver.Start()
	defer saver.Stop()

	for range 5 {
		st.NextDeal()
	}
	assert.True(t, st.Dirty())

	require.Eventually(t, func() bool { return store.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, store.count())
	assert.False(t, st.Dirty())

	snap, ok := NewAdapter(store, time.Hour).Load(context.Background(), testKey)
	require.True(t, ok)
	assert.Equal(t, 6, snap.DealNumber)
}

func TestAutosaver_PeriodicFlush(t *testing.T) {
	t.Parallel()

	store := &countingStore{MemoryStore: NewMemoryStore()}
	st := state.New()
	saver := NewAutosaver(NewAdapter(store, time.Hour), st, testKey, time.Hour, 30*time.Millisecond)
	saver.Start()
	defer saver.Stop()

	require.Eventually(t, func() bool { return store.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestAutosaver_StopCancelsPending(t *testing.T) {
	t.Parallel()

	store := &countingStore{MemoryStore: NewMemoryStore()}
	st := state.New()
	saver := NewAutosaver(NewAdapter(store, time.Hour), st, testKey, 50*time.Millisecond, time.Hour)
	saver.Start()

	st.NextDeal()
	saver.Stop()
	saver.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, store.count())

	saver.Flush()
	assert.Equal(t, 1, store.count())
}

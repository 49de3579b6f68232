package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/config"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/mode"
	"github.com/palemoky/bridge-scorer/internal/storage"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 10, 18, 19, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendMemory, Key: "session"},
		Session: config.SessionConfig{MaxAge: 24, SaveDebounce: 60000, FlushInterval: 3600},
		Game:    config.GameConfig{DefaultMode: "chicago"},
	}
}

func newTestApp(t *testing.T, store storage.Store, clock *testClock) *App {
	t.Helper()
	a, err := New(testConfig(), store, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func play(t *testing.T, s mode.Strategy, values ...string) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, s.HandleAction(v), "button %s", v)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Game.DefaultMode = "whist"
	_, err = New(cfg, storage.NewMemoryStore())
	assert.ErrorIs(t, err, apperrors.ErrUnknownMode)
}

func TestStart_FreshSession(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	a := newTestApp(t, store, newTestClock())
	require.NoError(t, a.Start(context.Background()))

	_, pending := a.PendingResume()
	assert.False(t, pending)
	require.NotNil(t, a.Strategy())
	assert.Equal(t, mode.Chicago, a.Strategy().Tag())
	assert.Equal(t, deal.ModeChicago, a.State().Mode())

	// The fresh session is written straight away.
	_, err := store.Get(context.Background(), "session")
	assert.NoError(t, err)
	assert.False(t, a.State().Dirty())
}

func TestDealsAreSavedImmediately(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	clock := newTestClock()
	a := newTestApp(t, store, clock)
	require.NoError(t, a.Start(context.Background()))

	play(t, a.Strategy(), "4", "S", "N", "MADE", "=")

	// A second app on the same store sees the deal without Close.
	b := newTestApp(t, store, clock)
	require.NoError(t, b.Start(context.Background()))
	snap, ok := b.PendingResume()
	require.True(t, ok)
	assert.Equal(t, 420, snap.Scores[deal.NS])
	assert.Len(t, snap.History, 1)
}

func TestResume(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	clock := newTestClock()

	first := newTestApp(t, store, clock)
	require.NoError(t, first.Start(context.Background()))
	require.NoError(t, first.SwitchMode(mode.Rubber))
	play(t, first.Strategy(), "4", "S", "N", "MADE", "=")
	first.Close()

	clock.Advance(time.Hour)
	second := newTestApp(t, store, clock)
	require.NoError(t, second.Start(context.Background()))

	assert.Nil(t, second.Strategy(), "waits for the user")
	snap, ok := second.PendingResume()
	require.True(t, ok)
	assert.Equal(t, "rubber", snap.ModeTag())

	require.NoError(t, second.Resume())
	_, ok = second.PendingResume()
	assert.False(t, ok)
	assert.Equal(t, mode.Rubber, second.Strategy().Tag())
	assert.Equal(t, 2, second.State().DealNumber())
	assert.Equal(t, 120, second.State().Scores()[deal.NS])
	// Rubber vulnerability is rebuilt from the history.
	assert.Equal(t, deal.VulnNS, second.State().Vulnerability())

	assert.Error(t, second.Resume(), "nothing left to resume")
}

func TestPendingSessionIsNotOverwritten(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	clock := newTestClock()

	first := newTestApp(t, store, clock)
	require.NoError(t, first.Start(context.Background()))
	play(t, first.Strategy(), fourSpades()...)
	first.Close()

	second := newTestApp(t, store, clock)
	require.NoError(t, second.Start(context.Background()))
	second.SaveNow()
	second.Close()

	third := newTestApp(t, store, clock)
	require.NoError(t, third.Start(context.Background()))
	snap, ok := third.PendingResume()
	require.True(t, ok)
	assert.Len(t, snap.History, 1)
}

// fourSpades enters 4♠ by North, just made.
func fourSpades() []string { return []string{"4", "S", "N", "MADE", "="} }

func TestDiscard(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	clock := newTestClock()

	first := newTestApp(t, store, clock)
	require.NoError(t, first.Start(context.Background()))
	play(t, first.Strategy(), fourSpades()...)
	first.Close()

	second := newTestApp(t, store, clock)
	require.NoError(t, second.Start(context.Background()))
	require.NoError(t, second.Discard(context.Background()))

	assert.Equal(t, mode.Chicago, second.Strategy().Tag())
	assert.Equal(t, 1, second.State().DealNumber())
	assert.Empty(t, second.State().History())

	third := newTestApp(t, store, clock)
	require.NoError(t, third.Start(context.Background()))
	snap, ok := third.PendingResume()
	require.True(t, ok, "the fresh session replaced the discarded one")
	assert.Empty(t, snap.History)
}

func TestExpiredSessionStartsFresh(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	clock := newTestClock()

	first := newTestApp(t, store, clock)
	require.NoError(t, first.Start(context.Background()))
	play(t, first.Strategy(), fourSpades()...)
	first.Close()

	clock.Advance(25 * time.Hour)
	second := newTestApp(t, store, clock)
	require.NoError(t, second.Start(context.Background()))

	_, ok := second.PendingResume()
	assert.False(t, ok)
	require.NotNil(t, second.Strategy())
	assert.Empty(t, second.State().History())
}

func TestSwitchMode_KeepsScores(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, storage.NewMemoryStore(), newTestClock())
	require.NoError(t, a.Start(context.Background()))
	play(t, a.Strategy(), fourSpades()...)
	play(t, a.Strategy(), "3")

	require.NoError(t, a.SwitchMode(mode.Kitchen))
	assert.Equal(t, mode.Kitchen, a.Strategy().Tag())
	assert.False(t, a.Strategy().CanGoBack(), "partial entry is not carried over")
	assert.Equal(t, 420, a.State().Scores()[deal.NS])
	assert.Len(t, a.State().History(), 1)

	assert.ErrorIs(t, a.SwitchMode(mode.Tag("whist")), apperrors.ErrUnknownMode)
	assert.Equal(t, mode.Kitchen, a.Strategy().Tag())
}

func TestNewGame(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, storage.NewMemoryStore(), newTestClock())
	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.SwitchMode(mode.Bonus))
	play(t, a.Strategy(), "PASS", "PASS")

	require.NoError(t, a.NewGame())
	assert.Equal(t, mode.Bonus, a.Strategy().Tag())
	assert.Equal(t, 1, a.State().DealNumber())
	assert.Empty(t, a.State().History())
	assert.Equal(t, map[deal.Partnership]int{deal.NS: 0, deal.EW: 0}, a.State().Scores())
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"session.json", "session.pb"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			clock := newTestClock()

			src := newTestApp(t, storage.NewMemoryStore(), clock)
			require.NoError(t, src.Start(context.Background()))
			require.NoError(t, src.SwitchMode(mode.Kitchen))
			play(t, src.Strategy(), fourSpades()...)
			require.NoError(t, src.Export(path))

			dst := newTestApp(t, storage.NewMemoryStore(), clock)
			require.NoError(t, dst.Start(context.Background()))
			require.NoError(t, dst.Import(path))

			assert.Equal(t, mode.Kitchen, dst.Strategy().Tag())
			assert.Equal(t, src.State().Scores(), dst.State().Scores())
			assert.Equal(t, 2, dst.State().DealNumber())
			assert.Len(t, dst.State().History(), 1)
		})
	}
}

func TestImport_BadFileLeavesSession(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, storage.NewMemoryStore(), newTestClock())
	require.NoError(t, a.Start(context.Background()))
	play(t, a.Strategy(), fourSpades()...)

	assert.Error(t, a.Import(filepath.Join(t.TempDir(), "missing.json")))
	assert.Len(t, a.State().History(), 1)
	assert.Equal(t, mode.Chicago, a.Strategy().Tag())
}

func TestAdjustScore(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	a := newTestApp(t, store, newTestClock())
	require.NoError(t, a.Start(context.Background()))

	require.NoError(t, a.AdjustScore("ew", " 50 "))
	require.NoError(t, a.AdjustScore("NS", "-20"))
	assert.Equal(t, map[deal.Partnership]int{deal.NS: -20, deal.EW: 50}, a.State().Scores())
	assert.Empty(t, a.State().History())
	assert.False(t, a.State().Dirty())

	tests := []struct {
		name   string
		side   string
		points string
		want   error
	}{
		{"non-numeric points", "NS", "fifty", apperrors.ErrInvalidAmount},
		{"empty points", "EW", "", apperrors.ErrInvalidAmount},
		{"unknown side", "NE", "10", apperrors.ErrInvalidPartnership},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, a.AdjustScore(tt.side, tt.points), tt.want)
		})
	}
	assert.Equal(t, map[deal.Partnership]int{deal.NS: -20, deal.EW: 50}, a.State().Scores())
}

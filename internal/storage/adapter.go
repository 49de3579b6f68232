package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/palemoky/bridge-scorer/internal/game/state"
	"github.com/palemoky/bridge-scorer/internal/logger"
)

// DefaultMaxAge is how long a saved session stays resumable.
const DefaultMaxAge = 24 * time.Hour

// Adapter reads and writes snapshots. None of its methods report failure to
// the caller; faults are logged and the session carries on in memory.
type Adapter struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAdapterClock replaces time.Now.
func WithAdapterClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// NewAdapter wraps store. A non-positive maxAge means DefaultMaxAge.
func NewAdapter(store Store, maxAge time.Duration, opts ...AdapterOption) *Adapter {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	a := &Adapter{store: store, maxAge: maxAge, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxAge returns the expiry threshold.
func (a *Adapter) MaxAge() time.Duration { return a.maxAge }

// Save stamps savedAt and writes the snapshot. It reports whether the write
// succeeded; callers are free to ignore it.
func (a *Adapter) Save(ctx context.Context, key string, snap state.Snapshot) bool {
	savedAt := a.now().UTC()
	snap.SavedAt = &savedAt

	data, err := json.Marshal(snap)
	if err != nil {
		logger.LogError("encode snapshot %s: %v", key, err)
		return false
	}
	if err := a.store.Set(ctx, key, data); err != nil {
		logger.LogError("save snapshot %s: %v", key, err)
		return false
	}
	return true
}

// Load returns the saved snapshot, or false when there is none usable:
// missing, unreadable, malformed, incomplete or older than the max age.
// Malformed and expired copies are removed.
func (a *Adapter) Load(ctx context.Context, key string) (*state.Snapshot, bool) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.LogError("load snapshot %s: %v", key, err)
		}
		return nil, false
	}

	snap, err := state.DecodeSnapshot(data)
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		logger.LogWarn("discarding saved snapshot %s: %v", key, err)
		a.Clear(ctx, key)
		return nil, false
	}

	if a.expired(snap) {
		logger.LogInfo("saved snapshot %s expired, clearing", key)
		a.Clear(ctx, key)
		return nil, false
	}
	return snap, true
}

func (a *Adapter) expired(snap *state.Snapshot) bool {
	var saved time.Time
	switch {
	case snap.SavedAt != nil:
		saved = *snap.SavedAt
	case !snap.LastModified.IsZero():
		saved = snap.LastModified
	default:
		return true
	}
	return a.now().Sub(saved) > a.maxAge
}

// Clear removes the saved snapshot.
func (a *Adapter) Clear(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		logger.LogError("clear snapshot %s: %v", key, err)
	}
}

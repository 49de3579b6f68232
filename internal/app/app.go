// Package app wires the game state, the active scoring mode and session
// persistence together. It replaces package-level singletons: everything a
// running scorer needs hangs off one App built in main.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/palemoky/bridge-scorer/internal/config"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/score"
	"github.com/palemoky/bridge-scorer/internal/game/state"
	"github.com/palemoky/bridge-scorer/internal/logger"
	"github.com/palemoky/bridge-scorer/internal/mode"
	"github.com/palemoky/bridge-scorer/internal/storage"
	"github.com/palemoky/bridge-scorer/internal/transfer"
)

// App is one scoring session.
type App struct {
	cfg     *config.Config
	key     string
	st      *state.State
	adapter *storage.Adapter
	saver   *storage.Autosaver

	mu       sync.Mutex
	strategy mode.Strategy
	pending  *state.Snapshot
	running  bool
}

// Option configures an App.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for the state and the storage adapter.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds an App on store. Nothing is loaded until Start.
func New(cfg *config.Config, store storage.Store, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if store == nil {
		return nil, fmt.Errorf("app: nil store")
	}
	if _, err := mode.ParseTag(cfg.Game.DefaultMode); err != nil {
		return nil, fmt.Errorf("default mode: %w", err)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	st := state.New(state.WithClock(o.now))
	adapter := storage.NewAdapter(store, cfg.Session.MaxAgeDuration(), storage.WithAdapterClock(o.now))
	a := &App{
		cfg:     cfg,
		key:     cfg.Storage.Key,
		st:      st,
		adapter: adapter,
	}
	a.saver = storage.NewAutosaver(adapter, st, a.key,
		cfg.Session.SaveDebounceDuration(), cfg.Session.FlushIntervalDuration())
	return a, nil
}

// Start looks for a saved session. When one is found the App waits for
// Resume or Discard; otherwise a fresh game starts in the default mode.
func (a *App) Start(ctx context.Context) error {
	snap, ok := a.adapter.Load(ctx, a.key)
	if ok {
		a.mu.Lock()
		a.pending = snap
		a.mu.Unlock()
		logger.LogInfo("saved session found: deal %d, %d recorded", snap.DealNumber, len(snap.History))
		return nil
	}
	return a.begin(a.defaultTag())
}

// PendingResume returns the saved session waiting to be resumed.
func (a *App) PendingResume() (*state.Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending, a.pending != nil
}

// Resume restores the pending session and continues in its mode.
func (a *App) Resume() error {
	a.mu.Lock()
	snap := a.pending
	a.mu.Unlock()
	if snap == nil {
		return fmt.Errorf("no saved session to resume")
	}

	if err := a.st.Restore(*snap); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()

	tag, err := mode.ParseTag(snap.ModeTag())
	if err != nil {
		tag = a.defaultTag()
	}
	logger.LogInfo("resumed session at deal %d in %s mode", a.st.DealNumber(), tag)
	return a.begin(tag)
}

// Discard drops the pending session and starts a fresh game.
func (a *App) Discard(ctx context.Context) error {
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()

	a.adapter.Clear(ctx, a.key)
	return a.begin(a.defaultTag())
}

// begin activates tag and turns autosave on.
func (a *App) begin(tag mode.Tag) error {
	if err := a.SwitchMode(tag); err != nil {
		return err
	}
	a.mu.Lock()
	wasRunning := a.running
	a.running = true
	a.mu.Unlock()
	if !wasRunning {
		a.saver.Start()
	}
	a.SaveNow()
	return nil
}

func (a *App) defaultTag() mode.Tag {
	tag, err := mode.ParseTag(a.cfg.Game.DefaultMode)
	if err != nil {
		return mode.Chicago
	}
	return tag
}

// SwitchMode cleans up the active mode and activates tag. Scores and
// history carry over.
func (a *App) SwitchMode(tag mode.Tag) error {
	next, err := mode.New(tag, mode.Context{State: a.st, Session: a})
	if err != nil {
		return err
	}

	a.mu.Lock()
	prev := a.strategy
	a.mu.Unlock()
	if prev != nil {
		prev.Cleanup()
	}

	if err := next.Initialize(); err != nil {
		return fmt.Errorf("initialize %s: %w", tag, err)
	}
	a.mu.Lock()
	a.strategy = next
	a.mu.Unlock()
	return nil
}

// NewGame resets scores, history and the deal cycle; the mode stays.
func (a *App) NewGame() error {
	s := a.Strategy()
	if s == nil {
		return fmt.Errorf("no active mode")
	}
	s.Cleanup()
	a.st.Reset()
	if err := s.Initialize(); err != nil {
		return err
	}
	logger.LogInfo("new game in %s mode", s.Tag())
	a.SaveNow()
	return nil
}

// AdjustScore credits side with points typed by the user, e.g. a revoke
// penalty. The adjustment is not part of the history and undo leaves it alone.
func (a *App) AdjustScore(side, points string) error {
	p, err := deal.ParsePartnership(side)
	if err != nil {
		return err
	}
	n, err := score.ParsePoints(points)
	if err != nil {
		return err
	}
	if err := a.st.AddScore(p, n); err != nil {
		return err
	}
	logger.LogInfo("manual adjustment: %s %+d", p, n)
	a.SaveNow()
	return nil
}

// Strategy is the active mode, nil before Start or while a resume is pending.
func (a *App) Strategy() mode.Strategy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.strategy
}

// State exposes the game state for display and event subscriptions.
func (a *App) State() *state.State { return a.st }

// SaveNow writes the session immediately. Before the session is running it
// does nothing so a pending saved session is not overwritten.
func (a *App) SaveNow() {
	a.mu.Lock()
	running := a.running
	a.mu.Unlock()
	if running {
		a.saver.Flush()
	}
}

// Export writes the session to path (.json or .pb).
func (a *App) Export(path string) error {
	return transfer.Export(a.st, path)
}

// Import replaces the session with the file at path and switches to the
// imported mode.
func (a *App) Import(path string) error {
	if err := transfer.Import(a.st, path); err != nil {
		return err
	}
	tag, err := mode.ParseTag(a.st.Mode())
	if err != nil {
		tag = a.defaultTag()
	}
	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()
	return a.begin(tag)
}

// Close saves the session and stops the timers. The store is left open.
func (a *App) Close() {
	a.SaveNow()
	a.saver.Stop()

	a.mu.Lock()
	a.running = false
	s := a.strategy
	a.mu.Unlock()
	if s != nil {
		s.Cleanup()
	}
}

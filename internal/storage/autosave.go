package storage

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/bridge-scorer/internal/game/state"
)

// Default autosave timings.
const (
	DefaultSaveDebounce  = 2 * time.Second
	DefaultFlushInterval = 30 * time.Second
	saveTimeout          = 5 * time.Second
)

// Autosaver coalesces bursts of mutations into one write after a quiet
// period and also writes on a fixed interval.
type Autosaver struct {
	adapter  *Adapter
	st       *state.State
	key      string
	debounce time.Duration
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	started bool
	saveMu  sync.Mutex
}

// NewAutosaver builds an autosaver; non-positive durations use the defaults.
func NewAutosaver(adapter *Adapter, st *state.State, key string, debounce, interval time.Duration) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Autosaver{
		adapter:  adapter,
		st:       st,
		key:      key,
		debounce: debounce,
		interval: interval,
	}
}

// Start hooks into state modifications and starts the periodic flush.
func (a *Autosaver) Start() {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.done = make(chan struct{})
	done := a.done
	a.mu.Unlock()

	a.st.OnModified(a.Schedule)

	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.Flush()
			case <-done:
				return
			}
		}
	}()
}

// Schedule (re)starts the debounce window.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.Flush)
}

// Flush writes the current state now.
func (a *Autosaver) Flush() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	rev := a.st.Revision()
	if a.adapter.Save(ctx, a.key, a.st.Export()) {
		a.st.MarkSaved(rev)
	}
}

// Stop cancels pending timers. It does not flush; call Flush first to keep
// the latest changes.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	a.started = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	close(a.done)
	a.st.OnModified(nil)
}

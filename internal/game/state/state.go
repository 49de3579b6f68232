// Package state is the single mutable aggregate of a scoring session: deal
// cycle, ledger, history and the active mode marker. Every mutation notifies
// listeners and then calls the modification hook that schedules a save.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/score"
	"github.com/palemoky/bridge-scorer/internal/logger"
)

// State is owned by one scoring mode at a time; switching modes keeps the data.
type State struct {
	mu sync.Mutex

	mode         string
	cycle        deal.Cycle
	ledger       *score.Ledger
	log          *history.Log
	settings     map[string]string
	sessionStart time.Time
	lastModified time.Time
	dirty        bool
	revision     uint64

	now        func() time.Time
	onModified func()

	bus bus
}

// Option configures a State.
type Option func(*State)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithMode sets the initial mode without emitting events.
func WithMode(mode string) Option {
	return func(s *State) { s.mode = mode }
}

// New returns a fresh session at deal 1.
func New(opts ...Option) *State {
	s := &State{
		cycle:    deal.NewCycle(),
		ledger:   score.NewLedger(),
		log:      history.NewLog(),
		settings: make(map[string]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if deal.IsAutoVulnerability(s.mode) {
		s.cycle.Recompute()
	}
	s.sessionStart = s.now()
	s.lastModified = s.sessionStart
	return s
}

// OnModified registers the hook called after every mutation.
func (s *State) OnModified(fn func()) {
	s.mu.Lock()
	s.onModified = fn
	s.mu.Unlock()
}

// Subscribe registers fn for one kind of event.
func (s *State) Subscribe(kind Kind, fn Listener) Subscription {
	return s.bus.subscribe(kind, fn)
}

// SubscribeAll registers fn for every event.
func (s *State) SubscribeAll(fn Listener) Subscription {
	return s.bus.subscribe(0, fn)
}

// Unsubscribe removes a listener; it reports whether one was removed.
func (s *State) Unsubscribe(sub Subscription) bool {
	return s.bus.unsubscribe(sub)
}

// touch must be called with mu held.
func (s *State) touch() {
	s.lastModified = s.now()
	s.dirty = true
	s.revision++
}

// commit runs after mu is released.
func (s *State) commit(events ...Event) {
	s.bus.emit(events...)

	s.mu.Lock()
	hook := s.onModified
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// Dirty reports whether there are changes not yet saved.
func (s *State) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Revision increases with every mutation. Read it before Export and hand it
// to MarkSaved once the export is stored.
func (s *State) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// MarkSaved clears the dirty flag unless the state changed after rev.
func (s *State) MarkSaved(rev uint64) {
	s.mu.Lock()
	if s.revision == rev {
		s.dirty = false
	}
	s.mu.Unlock()
}

// --- Mode ---

func (s *State) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the mode marker. Entering an auto-vulnerability mode
// recomputes vulnerability from the current deal; other modes keep the last
// value.
func (s *State) SetMode(mode string) {
	s.mu.Lock()
	from := s.mode
	prevVuln := s.cycle.Vulnerability
	s.mode = mode
	if deal.IsAutoVulnerability(mode) {
		s.cycle.Recompute()
	} else {
		s.cycle.Vulnerability = s.cycle.Vulnerability.Normalize()
	}
	vuln := s.cycle.Vulnerability
	s.touch()
	s.mu.Unlock()

	events := []Event{ModeChanged{From: from, To: mode}}
	if vuln != prevVuln {
		events = append(events, VulnerabilityChanged{Vulnerability: vuln})
	}
	s.commit(events...)
}

// --- Deal cycle ---

func (s *State) DealNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.DealNumber
}

func (s *State) Dealer() deal.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.Dealer()
}

func (s *State) Vulnerability() deal.Vulnerability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.Vulnerability.Normalize()
}

// SetVulnerability sets vulnerability manually. In an auto-vulnerability mode
// the call is ignored with a warning and returns nil.
func (s *State) SetVulnerability(v deal.Vulnerability) error {
	if !v.Valid() {
		return fmt.Errorf("set vulnerability %q: %w", v, apperrors.ErrInvalidVuln)
	}

	s.mu.Lock()
	if deal.IsAutoVulnerability(s.mode) {
		mode := s.mode
		s.mu.Unlock()
		logger.LogWarn("ignoring manual vulnerability %s in %s mode", v, mode)
		return nil
	}
	s.cycle.Vulnerability = v
	s.touch()
	s.mu.Unlock()

	s.commit(VulnerabilityChanged{Vulnerability: v})
	return nil
}

// NextDeal advances to the next deal.
func (s *State) NextDeal() {
	s.mu.Lock()
	prevVuln := s.cycle.Vulnerability
	s.cycle.Advance(deal.IsAutoVulnerability(s.mode))
	ev := DealChanged{DealNumber: s.cycle.DealNumber, Dealer: s.cycle.Dealer()}
	vuln := s.cycle.Vulnerability
	s.touch()
	s.mu.Unlock()

	events := []Event{ev}
	if vuln != prevVuln {
		events = append(events, VulnerabilityChanged{Vulnerability: vuln})
	}
	s.commit(events...)
}

// SetDealNumber jumps to deal n.
func (s *State) SetDealNumber(n int) error {
	if err := deal.ValidateDealNumber(n); err != nil {
		return err
	}

	s.mu.Lock()
	events := s.moveToDealLocked(n)
	s.touch()
	s.mu.Unlock()

	s.commit(events...)
	return nil
}

func (s *State) moveToDealLocked(n int) []Event {
	prevVuln := s.cycle.Vulnerability
	s.cycle.DealNumber = n
	if deal.IsAutoVulnerability(s.mode) {
		s.cycle.Recompute()
	}
	events := []Event{DealChanged{DealNumber: n, Dealer: s.cycle.Dealer()}}
	if s.cycle.Vulnerability != prevVuln {
		events = append(events, VulnerabilityChanged{Vulnerability: s.cycle.Vulnerability})
	}
	return events
}

// --- Ledger ---

// AddScore adds points to p's total.
func (s *State) AddScore(p deal.Partnership, points int) error {
	s.mu.Lock()
	total, err := s.ledger.Add(p, points)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.touch()
	s.mu.Unlock()

	s.commit(ScoreChanged{Partnership: p, Delta: points, Total: total})
	return nil
}

// Scores returns a copy of both totals.
func (s *State) Scores() map[deal.Partnership]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Totals()
}

// Leader returns the side ahead; false on a tie.
func (s *State) Leader() (deal.Partnership, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Leader()
}

// --- History ---

// RecordDeal appends entry stamped with the current dealer. Unset deal
// number and vulnerability are taken from the current deal.
func (s *State) RecordDeal(entry history.Entry) history.Entry {
	s.mu.Lock()
	if entry.DealNumber == 0 {
		entry.DealNumber = s.cycle.DealNumber
	}
	if entry.Vulnerability == "" {
		entry.Vulnerability = s.cycle.Vulnerability.Normalize()
	}
	stored := s.log.Append(entry, deal.DealerFor(entry.DealNumber), s.now())
	length := s.log.Len()
	s.touch()
	s.mu.Unlock()

	s.commit(HistoryChanged{Action: HistoryAppended, Entry: stored, Length: length})
	return stored
}

// UndoLastDeal removes the last entry and moves back to its deal. Points are
// not touched; the mode reverses them. It returns false when there is
// nothing to undo.
func (s *State) UndoLastDeal() (history.Entry, bool) {
	s.mu.Lock()
	last, ok := s.log.RemoveLast()
	if !ok {
		s.mu.Unlock()
		return history.Entry{}, false
	}
	events := []Event{HistoryChanged{Action: HistoryRemoved, Entry: last, Length: s.log.Len()}}
	if last.DealNumber >= 1 {
		events = append(events, s.moveToDealLocked(last.DealNumber)...)
	}
	s.touch()
	s.mu.Unlock()

	s.commit(events...)
	return last, true
}

// History returns a copy of the log.
func (s *State) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// Summary computes the history statistics.
func (s *State) Summary() history.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Summary()
}

// ClearHistory empties the log.
func (s *State) ClearHistory() {
	s.mu.Lock()
	s.log.Clear()
	s.touch()
	s.mu.Unlock()

	s.commit(HistoryCleared{})
}

// --- Settings ---

func (s *State) Setting(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	return v, ok
}

func (s *State) SetSetting(key, value string) {
	s.mu.Lock()
	s.settings[key] = value
	s.touch()
	s.mu.Unlock()

	s.commit(SettingChanged{Key: key, Value: value})
}

// --- Session ---

func (s *State) SessionStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionStart
}

func (s *State) LastModified() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastModified
}

// Reset starts a new game in the current mode. Settings are kept.
func (s *State) Reset() {
	s.mu.Lock()
	s.cycle = deal.NewCycle()
	if deal.IsAutoVulnerability(s.mode) {
		s.cycle.Recompute()
	}
	s.ledger.Reset()
	s.log.Clear()
	s.sessionStart = s.now()
	s.touch()
	s.mu.Unlock()

	s.commit(StateReset{})
}

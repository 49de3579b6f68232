package state

import (
	"sync"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
)

// Kind identifies a notification.
type Kind int

const (
	KindModeChanged Kind = iota + 1
	KindDealChanged
	KindVulnerabilityChanged
	KindScoreChanged
	KindHistoryChanged
	KindHistoryCleared
	KindSettingChanged
	KindStateReset
	KindStateImported
)

var kindNames = map[Kind]string{
	KindModeChanged:          "modeChanged",
	KindDealChanged:          "dealChanged",
	KindVulnerabilityChanged: "vulnerabilityChanged",
	KindScoreChanged:         "scoreChanged",
	KindHistoryChanged:       "historyChanged",
	KindHistoryCleared:       "historyCleared",
	KindSettingChanged:       "settingChanged",
	KindStateReset:           "stateReset",
	KindStateImported:        "stateImported",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is implemented only by the payload types below.
type Event interface {
	Kind() Kind
	event()
}

type ModeChanged struct {
	From, To string
}

type DealChanged struct {
	DealNumber int
	Dealer     deal.Seat
}

type VulnerabilityChanged struct {
	Vulnerability deal.Vulnerability
}

type ScoreChanged struct {
	Partnership deal.Partnership
	Delta       int
	Total       int
}

// HistoryAction says how the log changed.
type HistoryAction int

const (
	HistoryAppended HistoryAction = iota
	HistoryRemoved
)

type HistoryChanged struct {
	Action HistoryAction
	Entry  history.Entry
	Length int
}

type HistoryCleared struct{}

type SettingChanged struct {
	Key, Value string
}

type StateReset struct{}

type StateImported struct {
	DealNumber int
	Mode       string
}

func (ModeChanged) Kind() Kind          { return KindModeChanged }
func (DealChanged) Kind() Kind          { return KindDealChanged }
func (VulnerabilityChanged) Kind() Kind { return KindVulnerabilityChanged }
func (ScoreChanged) Kind() Kind         { return KindScoreChanged }
func (HistoryChanged) Kind() Kind       { return KindHistoryChanged }
func (HistoryCleared) Kind() Kind       { return KindHistoryCleared }
func (SettingChanged) Kind() Kind       { return KindSettingChanged }
func (StateReset) Kind() Kind           { return KindStateReset }
func (StateImported) Kind() Kind        { return KindStateImported }

func (ModeChanged) event()          {}
func (DealChanged) event()          {}
func (VulnerabilityChanged) event() {}
func (ScoreChanged) event()         {}
func (HistoryChanged) event()       {}
func (HistoryCleared) event()       {}
func (SettingChanged) event()       {}
func (StateReset) event()           {}
func (StateImported) event()        {}

// Listener receives events after the change they describe has been applied.
type Listener func(Event)

// Subscription identifies a registered listener.
type Subscription struct {
	id uint64
}

type listenerEntry struct {
	id   uint64
	kind Kind // 0 means every kind
	fn   Listener
}

// bus dispatches events to listeners in registration order.
type bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listenerEntry
}

func (b *bus) subscribe(kind Kind, fn Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners = append(b.listeners, listenerEntry{id: b.nextID, kind: kind, fn: fn})
	return Subscription{id: b.nextID}
}

func (b *bus) unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l.id == sub.id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bus) emit(events ...Event) {
	b.mu.Lock()
	listeners := make([]listenerEntry, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			if l.kind == 0 || l.kind == ev.Kind() {
				l.fn(ev)
			}
		}
	}
}

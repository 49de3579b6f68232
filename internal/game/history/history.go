// Package history keeps the ordered record of played deals.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/score"
)

// Entry is one recorded deal. Score is signed from the declaring side:
// positive when the contract made, negative when it failed. Entries without
// a contract are passed-out deals.
type Entry struct {
	ID            string             `json:"id"`
	DealNumber    int                `json:"dealNumber"`
	Dealer        deal.Seat          `json:"dealer"`
	Declarer      deal.Partnership   `json:"declarer,omitempty"`
	Score         int                `json:"score"`
	Contract      *score.Contract    `json:"contract,omitempty"`
	Tricks        int                `json:"tricks,omitempty"`
	Vulnerability deal.Vulnerability `json:"vulnerability,omitempty"`
	Mode          string             `json:"mode,omitempty"`
	Note          string             `json:"note,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

// PassedOut reports whether the deal was thrown in without a contract.
func (e Entry) PassedOut() bool { return e.Contract == nil }

// clone returns a copy that shares no contract with e.
func (e Entry) clone() Entry {
	if e.Contract != nil {
		c := *e.Contract
		e.Contract = &c
	}
	return e
}

// Winner returns the side that gained points on this deal.
func (e Entry) Winner() (deal.Partnership, bool) {
	if e.Declarer == "" || e.Score == 0 {
		return "", false
	}
	if e.Score > 0 {
		return e.Declarer, true
	}
	return e.Declarer.Opponent(), true
}

// Log is an append-only sequence of entries; RemoveLast is the only other
// mutation and exists for undo.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append stamps entry with dealer, timestamp and a fresh id, stores it and
// returns the stored copy.
func (l *Log) Append(entry Entry, dealer deal.Seat, now time.Time) Entry {
	entry.ID = uuid.NewString()
	entry.Dealer = dealer
	entry.Timestamp = now
	entry = entry.clone()
	l.entries = append(l.entries, entry)
	return entry.clone()
}

// RemoveLast pops the most recent entry. It returns false when the log is
// empty.
func (l *Log) RemoveLast() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	last := l.entries[len(l.entries)-1]
	l.entries[len(l.entries)-1] = Entry{}
	l.entries = l.entries[:len(l.entries)-1]
	return last, true
}

// Last returns the most recent entry without removing it.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1].clone(), true
}

// Entries returns a copy of the log in recording order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

func (l *Log) Len() int { return len(l.entries) }

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
}

// Replace swaps the whole log; used when restoring a snapshot.
func (l *Log) Replace(entries []Entry) {
	l.entries = make([]Entry, len(entries))
	for i, e := range entries {
		l.entries[i] = e.clone()
	}
}

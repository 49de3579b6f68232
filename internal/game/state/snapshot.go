package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
)

// Snapshot is the persisted form of a State.
type Snapshot struct {
	Scores           map[deal.Partnership]int `json:"scores"`
	DealNumber       int                      `json:"dealNumber"`
	Vulnerability    deal.Vulnerability       `json:"vulnerability"`
	Mode             *string                  `json:"mode"`
	History          []history.Entry          `json:"history"`
	SessionStartTime time.Time                `json:"sessionStartTime"`
	LastModified     time.Time                `json:"lastModified"`
	Settings         map[string]string        `json:"settings,omitempty"`
	SavedAt          *time.Time               `json:"savedAt,omitempty"`
}

// ModeTag returns the mode or "" when none was set.
func (snap *Snapshot) ModeTag() string {
	if snap.Mode == nil {
		return ""
	}
	return *snap.Mode
}

// Validate checks that every required field is present and in range.
func (snap *Snapshot) Validate() error {
	switch {
	case snap.Scores == nil:
		return fmt.Errorf("missing scores: %w", apperrors.ErrInvalidStateData)
	case snap.DealNumber == 0:
		return fmt.Errorf("missing dealNumber: %w", apperrors.ErrInvalidStateData)
	case snap.Vulnerability == "":
		return fmt.Errorf("missing vulnerability: %w", apperrors.ErrInvalidStateData)
	case snap.History == nil:
		return fmt.Errorf("missing history: %w", apperrors.ErrInvalidStateData)
	}

	if snap.DealNumber < 1 {
		return fmt.Errorf("dealNumber %d: %w", snap.DealNumber, apperrors.ErrInvalidStateData)
	}
	if !snap.Vulnerability.Valid() {
		return fmt.Errorf("vulnerability %q: %w", snap.Vulnerability, apperrors.ErrInvalidStateData)
	}
	for p := range snap.Scores {
		if !p.Valid() {
			return fmt.Errorf("scores key %q: %w", p, apperrors.ErrInvalidStateData)
		}
	}
	for i, e := range snap.History {
		if e.Contract != nil {
			if err := e.Contract.Validate(); err != nil {
				return fmt.Errorf("history[%d]: %v: %w", i, err, apperrors.ErrInvalidStateData)
			}
		}
	}
	return nil
}

// DecodeSnapshot parses JSON; malformed input is ErrInvalidStateData.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %v: %w", err, apperrors.ErrInvalidStateData)
	}
	return &snap, nil
}

// Export captures the whole state.
func (s *State) Export() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Scores:           s.ledger.Totals(),
		DealNumber:       s.cycle.DealNumber,
		Vulnerability:    s.cycle.Vulnerability.Normalize(),
		History:          s.log.Entries(),
		SessionStartTime: s.sessionStart,
		LastModified:     s.lastModified,
	}
	if s.mode != "" {
		mode := s.mode
		snap.Mode = &mode
	}
	if len(s.settings) > 0 {
		snap.Settings = make(map[string]string, len(s.settings))
		for k, v := range s.settings {
			snap.Settings[k] = v
		}
	}
	return snap
}

// Restore replaces the whole state with snap. A snapshot that fails
// validation returns ErrInvalidStateData and leaves the state untouched.
func (s *State) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.mode = snap.ModeTag()
	s.cycle = deal.Cycle{DealNumber: snap.DealNumber, Vulnerability: snap.Vulnerability}
	s.ledger.Set(snap.Scores)
	s.log.Replace(snap.History)
	s.settings = make(map[string]string, len(snap.Settings))
	for k, v := range snap.Settings {
		s.settings[k] = v
	}
	s.sessionStart = snap.SessionStartTime
	if s.sessionStart.IsZero() {
		s.sessionStart = s.now()
	}
	s.lastModified = snap.LastModified
	s.dirty = true
	s.revision++
	ev := StateImported{DealNumber: snap.DealNumber, Mode: s.mode}
	s.mu.Unlock()

	s.commit(ev)
	return nil
}

// RestoreJSON decodes and restores in one step.
func (s *State) RestoreJSON(data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	return s.Restore(*snap)
}

// Package score holds the running totals of both partnerships and the
// contract scoring rules used by the scoring modes.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
)

// Ledger maps each partnership to its running total.
type Ledger struct {
	totals map[deal.Partnership]int
}

// NewLedger returns a ledger with both totals at zero.
func NewLedger() *Ledger {
	return &Ledger{totals: map[deal.Partnership]int{deal.NS: 0, deal.EW: 0}}
}

// Add adds points (which may be negative) to p and returns the new total.
// Totals are unchanged on error.
func (l *Ledger) Add(p deal.Partnership, points int) (int, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("add %d to %q: %w", points, p, apperrors.ErrInvalidPartnership)
	}
	cur := l.totals[p]
	if (points > 0 && cur > math.MaxInt-points) || (points < 0 && cur < math.MinInt-points) {
		return 0, fmt.Errorf("add %d to %s: %w", points, p, apperrors.ErrInvalidAmount)
	}
	l.totals[p] = cur + points
	return l.totals[p], nil
}

// Total returns the total of p.
func (l *Ledger) Total(p deal.Partnership) int {
	return l.totals[p]
}

// Totals returns a copy of both totals.
func (l *Ledger) Totals() map[deal.Partnership]int {
	return map[deal.Partnership]int{deal.NS: l.totals[deal.NS], deal.EW: l.totals[deal.EW]}
}

// Set replaces both totals; used when restoring a snapshot.
func (l *Ledger) Set(totals map[deal.Partnership]int) {
	l.totals = map[deal.Partnership]int{deal.NS: totals[deal.NS], deal.EW: totals[deal.EW]}
}

// Reset sets both totals to zero.
func (l *Ledger) Reset() {
	l.totals[deal.NS] = 0
	l.totals[deal.EW] = 0
}

// Leader returns the side with the strictly greater total; false on a tie.
func (l *Ledger) Leader() (deal.Partnership, bool) {
	ns, ew := l.totals[deal.NS], l.totals[deal.EW]
	switch {
	case ns > ew:
		return deal.NS, true
	case ew > ns:
		return deal.EW, true
	}
	return "", false
}

// ParsePoints parses a signed integer amount entered by the user.
func ParsePoints(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, apperrors.ErrInvalidAmount)
	}
	return n, nil
}

// Package deal holds the table vocabulary (seats, partnerships, vulnerability)
// and the deal cycle that derives dealer and vulnerability from a deal number.
package deal

import (
	"fmt"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
)

// Partnership is one of the two competing pairs.
type Partnership string

const (
	NS Partnership = "NS"
	EW Partnership = "EW"
)

// Partnerships lists both sides in display order.
func Partnerships() []Partnership { return []Partnership{NS, EW} }

func (p Partnership) Valid() bool { return p == NS || p == EW }

// Opponent returns the other side.
func (p Partnership) Opponent() Partnership {
	if p == NS {
		return EW
	}
	return NS
}

// ParsePartnership accepts "NS"/"EW" in any case.
func ParsePartnership(s string) (Partnership, error) {
	p := Partnership(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%q: %w", s, apperrors.ErrInvalidPartnership)
	}
	return p, nil
}

// Seat is a compass position at the table.
type Seat string

const (
	North Seat = "N"
	East  Seat = "E"
	South Seat = "S"
	West  Seat = "W"
)

var dealerCycle = [4]Seat{North, East, South, West}

func (s Seat) Valid() bool {
	switch s {
	case North, East, South, West:
		return true
	}
	return false
}

// Partnership returns the side the seat belongs to.
func (s Seat) Partnership() Partnership {
	if s == North || s == South {
		return NS
	}
	return EW
}

// Next returns the seat to the left (clockwise).
func (s Seat) Next() Seat {
	for i, seat := range dealerCycle {
		if seat == s {
			return dealerCycle[(i+1)%4]
		}
	}
	return North
}

func (s Seat) Name() string {
	switch s {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return string(s)
}

// ParseSeat accepts N/E/S/W in any case.
func ParseSeat(v string) (Seat, error) {
	s := Seat(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown seat %q", v)
	}
	return s, nil
}

// Vulnerability says which sides score at the vulnerable rate.
type Vulnerability string

const (
	VulnNone Vulnerability = "None"
	VulnNS   Vulnerability = "NS"
	VulnEW   Vulnerability = "EW"
	VulnBoth Vulnerability = "Both"
)

var vulnCycle = [4]Vulnerability{VulnNone, VulnNS, VulnEW, VulnBoth}

// Vulnerabilities lists every value in cycle order.
func Vulnerabilities() []Vulnerability { return vulnCycle[:] }

func (v Vulnerability) Valid() bool {
	switch v {
	case VulnNone, VulnNS, VulnEW, VulnBoth:
		return true
	}
	return false
}

// Normalize maps the uninitialized value to None.
func (v Vulnerability) Normalize() Vulnerability {
	if v == "" {
		return VulnNone
	}
	return v
}

// IsVulnerable reports whether p is vulnerable.
func (v Vulnerability) IsVulnerable(p Partnership) bool {
	switch v {
	case VulnBoth:
		return true
	case VulnNS:
		return p == NS
	case VulnEW:
		return p == EW
	}
	return false
}

// ParseVulnerability accepts the canonical names case-insensitively.
func ParseVulnerability(s string) (Vulnerability, error) {
	trimmed := strings.TrimSpace(s)
	for _, v := range vulnCycle {
		if strings.EqualFold(string(v), trimmed) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, apperrors.ErrInvalidVuln)
}

// cycleIndex keeps deal 1 at index 0.
func cycleIndex(n int) int {
	return ((n-1)%4 + 4) % 4
}

// DealerFor returns the dealer of deal n (n >= 1).
func DealerFor(n int) Seat {
	return dealerCycle[cycleIndex(n)]
}

// VulnerabilityFor returns the fixed 4-deal vulnerability of deal n (n >= 1).
func VulnerabilityFor(n int) Vulnerability {
	return vulnCycle[cycleIndex(n)]
}

// ValidateDealNumber rejects deal numbers below 1.
func ValidateDealNumber(n int) error {
	if n < 1 {
		return fmt.Errorf("deal %d: %w", n, apperrors.ErrInvalidDealNumber)
	}
	return nil
}

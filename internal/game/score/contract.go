package score

import (
	"fmt"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
)

// Strain is the trump suit of a contract, or no-trump.
type Strain string

const (
	Clubs    Strain = "C"
	Diamonds Strain = "D"
	Hearts   Strain = "H"
	Spades   Strain = "S"
	NoTrump  Strain = "NT"
)

// Strains lists every strain in bidding order.
func Strains() []Strain { return []Strain{Clubs, Diamonds, Hearts, Spades, NoTrump} }

func (s Strain) Valid() bool {
	switch s {
	case Clubs, Diamonds, Hearts, Spades, NoTrump:
		return true
	}
	return false
}

func (s Strain) IsMinor() bool { return s == Clubs || s == Diamonds }

func (s Strain) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	}
	return "NT"
}

// Doubled is the doubling state of a contract.
type Doubled string

const (
	Undoubled Doubled = ""
	Double    Doubled = "X"
	Redouble  Doubled = "XX"
)

func (d Doubled) multiplier() int {
	switch d {
	case Double:
		return 2
	case Redouble:
		return 4
	}
	return 1
}

// Contract is the final bid of a deal.
type Contract struct {
	Level    int       `json:"level"`
	Strain   Strain    `json:"strain"`
	Doubled  Doubled   `json:"doubled,omitempty"`
	Declarer deal.Seat `json:"declarer"`
}

// Validate checks every field of the contract.
func (c Contract) Validate() error {
	if c.Level < 1 || c.Level > 7 {
		return fmt.Errorf("level %d: %w", c.Level, apperrors.ErrInvalidContract)
	}
	if !c.Strain.Valid() {
		return fmt.Errorf("strain %q: %w", c.Strain, apperrors.ErrInvalidContract)
	}
	if c.Doubled != Undoubled && c.Doubled != Double && c.Doubled != Redouble {
		return fmt.Errorf("doubled %q: %w", c.Doubled, apperrors.ErrInvalidContract)
	}
	if !c.Declarer.Valid() {
		return fmt.Errorf("declarer %q: %w", c.Declarer, apperrors.ErrInvalidContract)
	}
	return nil
}

// Side returns the declaring partnership.
func (c Contract) Side() deal.Partnership {
	return c.Declarer.Partnership()
}

func (c Contract) IsSlam() bool      { return c.Level == 6 }
func (c Contract) IsGrandSlam() bool { return c.Level == 7 }

func (c Contract) String() string {
	s := fmt.Sprintf("%d%s", c.Level, c.Strain.Symbol())
	if c.Doubled != Undoubled {
		s += " " + string(c.Doubled)
	}
	if c.Declarer != "" {
		s += " by " + string(c.Declarer)
	}
	return s
}

// Result is a played contract. Tricks is relative to the contract:
// 0 just made, +n overtricks, -n down n.
type Result struct {
	Contract Contract
	Tricks   int
}

func (r Result) Made() bool { return r.Tricks >= 0 }

// Validate checks the contract and that Tricks is achievable.
func (r Result) Validate() error {
	if err := r.Contract.Validate(); err != nil {
		return err
	}
	maxOver := 7 - r.Contract.Level
	maxDown := r.Contract.Level + 6
	if r.Tricks > maxOver || r.Tricks < -maxDown {
		return fmt.Errorf("%s with %+d tricks: %w", r.Contract, r.Tricks, apperrors.ErrInvalidContract)
	}
	return nil
}

// String renders e.g. "4♠ X by N =" or "3NT by S -2".
func (r Result) String() string {
	if r.Tricks == 0 {
		return r.Contract.String() + " ="
	}
	return fmt.Sprintf("%s %+d", r.Contract, r.Tricks)
}

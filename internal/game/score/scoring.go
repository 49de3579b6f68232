package score

import (
	"fmt"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
)

// GameThreshold is the trick score that completes a game.
const GameThreshold = 100

// TrickScore returns the contracted trick score, including doubling.
func TrickScore(c Contract) int {
	var base int
	switch {
	case c.Strain.IsMinor():
		base = 20 * c.Level
	case c.Strain == NoTrump:
		base = 40 + 30*(c.Level-1)
	default:
		base = 30 * c.Level
	}
	return base * c.Doubled.multiplier()
}

func overtrickScore(c Contract, over int, vulnerable bool) int {
	switch c.Doubled {
	case Double:
		return over * pick(vulnerable, 200, 100)
	case Redouble:
		return over * pick(vulnerable, 400, 200)
	}
	if c.Strain.IsMinor() {
		return over * 20
	}
	return over * 30
}

func slamBonus(c Contract, vulnerable bool) int {
	switch c.Level {
	case 6:
		return pick(vulnerable, 750, 500)
	case 7:
		return pick(vulnerable, 1500, 1000)
	}
	return 0
}

func insultBonus(c Contract) int {
	switch c.Doubled {
	case Double:
		return 50
	case Redouble:
		return 100
	}
	return 0
}

// Penalty returns the (positive) undertrick penalty for going down.
func Penalty(c Contract, down int, vulnerable bool) int {
	if down <= 0 {
		return 0
	}
	if c.Doubled == Undoubled {
		return down * pick(vulnerable, 100, 50)
	}

	total := 0
	for i := 1; i <= down; i++ {
		switch {
		case vulnerable && i == 1:
			total += 200
		case vulnerable:
			total += 300
		case i == 1:
			total += 100
		case i <= 3:
			total += 200
		default:
			total += 300
		}
	}
	if c.Doubled == Redouble {
		total *= 2
	}
	return total
}

// DuplicateScore scores a result the duplicate way, signed from the
// declarer's side (negative when the contract failed).
func DuplicateScore(r Result, vulnerable bool) int {
	c := r.Contract
	if !r.Made() {
		return -Penalty(c, -r.Tricks, vulnerable)
	}

	trick := TrickScore(c)
	total := trick + overtrickScore(c, r.Tricks, vulnerable) + slamBonus(c, vulnerable) + insultBonus(c)
	if trick >= GameThreshold {
		total += pick(vulnerable, 500, 300)
	} else {
		total += 50
	}
	return total
}

// RubberScore splits a result into below-the-line and above-the-line points
// for the declarer. A failed contract returns the penalty as a negative
// above-the-line value; it belongs to the defenders.
func RubberScore(r Result, vulnerable bool) (below, above int) {
	c := r.Contract
	if !r.Made() {
		return 0, -Penalty(c, -r.Tricks, vulnerable)
	}
	below = TrickScore(c)
	above = overtrickScore(c, r.Tricks, vulnerable) + slamBonus(c, vulnerable) + insultBonus(c)
	return below, above
}

// Rubber bonuses.
const (
	RubberBonusTwoNil = 700
	RubberBonusTwoOne = 500
)

// BonusPar is the high-card-point count a side is expected to hold.
const BonusPar = 20

// BonusAdjustment returns the high-card adjustment of bonus bridge, signed
// from the declarer's side: a contract made on fewer than BonusPar points
// earns (BonusPar-hcp)*10; a contract failed on more than BonusPar points
// gives the defenders (hcp-BonusPar)*10.
func BonusAdjustment(hcp int, made bool) (int, error) {
	if hcp < 0 || hcp > 40 {
		return 0, fmt.Errorf("hcp %d: %w", hcp, apperrors.ErrInvalidAmount)
	}
	switch {
	case made && hcp < BonusPar:
		return (BonusPar - hcp) * 10, nil
	case !made && hcp > BonusPar:
		return -(hcp - BonusPar) * 10, nil
	}
	return 0, nil
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

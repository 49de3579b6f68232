package mode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/score"
)

// Buttons shared by every mode.
const (
	ButtonPass     = "PASS"
	ButtonUndo     = "UNDO"
	ButtonBack     = "BACK"
	ButtonDouble   = "X"
	ButtonRedouble = "XX"
	ButtonMade     = "MADE"
	ButtonDown     = "DOWN"
	ButtonJustMade = "="
)

type step int

const (
	stepLevel step = iota
	stepStrain
	stepDeclarer
	stepDouble
	stepTricks
	stepDone
)

// contractEntry walks the user through level, strain, declarer, doubling
// and result.
type contractEntry struct {
	step     step
	level    int
	strain   score.Strain
	declarer deal.Seat
	doubled  score.Doubled
	made     bool
	tricks   int
}

func (e *contractEntry) reset() {
	*e = contractEntry{}
}

func (e *contractEntry) idle() bool {
	return e.step == stepLevel
}

func (e *contractEntry) contract() score.Contract {
	return score.Contract{Level: e.level, Strain: e.strain, Doubled: e.doubled, Declarer: e.declarer}
}

func (e *contractEntry) result() score.Result {
	return score.Result{Contract: e.contract(), Tricks: e.tricks}
}

func (e *contractEntry) buttons() []string {
	switch e.step {
	case stepLevel:
		return []string{"1", "2", "3", "4", "5", "6", "7"}
	case stepStrain:
		out := make([]string, 0, 5)
		for _, s := range score.Strains() {
			out = append(out, string(s))
		}
		return out
	case stepDeclarer:
		return []string{string(deal.North), string(deal.East), string(deal.South), string(deal.West)}
	case stepDouble:
		out := []string{}
		switch e.doubled {
		case score.Undoubled:
			out = append(out, ButtonDouble)
		case score.Double:
			out = append(out, ButtonRedouble)
		}
		return append(out, ButtonMade, ButtonDown)
	case stepTricks:
		if e.made {
			out := []string{ButtonJustMade}
			for i := 1; i <= 7-e.level; i++ {
				out = append(out, fmt.Sprintf("+%d", i))
			}
			return out
		}
		out := make([]string, 0, e.level+6)
		for i := 1; i <= e.level+6; i++ {
			out = append(out, fmt.Sprintf("-%d", i))
		}
		return out
	}
	return nil
}

// handle applies one button press and reports whether a full result has
// been entered.
func (e *contractEntry) handle(value string) (bool, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if !contains(e.buttons(), v) {
		return false, fmt.Errorf("%q: %w", value, apperrors.ErrInvalidAction)
	}

	switch e.step {
	case stepLevel:
		e.level, _ = strconv.Atoi(v)
		e.step = stepStrain
	case stepStrain:
		e.strain = score.Strain(v)
		e.step = stepDeclarer
	case stepDeclarer:
		e.declarer = deal.Seat(v)
		e.step = stepDouble
	case stepDouble:
		switch v {
		case ButtonDouble:
			e.doubled = score.Double
		case ButtonRedouble:
			e.doubled = score.Redouble
		case ButtonMade:
			e.made = true
			e.step = stepTricks
		case ButtonDown:
			e.made = false
			e.step = stepTricks
		}
	case stepTricks:
		if v == ButtonJustMade {
			e.tricks = 0
		} else {
			e.tricks, _ = strconv.Atoi(v)
		}
		e.step = stepDone
		return true, nil
	}
	return false, nil
}

func (e *contractEntry) canGoBack() bool {
	return e.step != stepLevel
}

// back undoes the last button press; false when there is nothing to undo.
func (e *contractEntry) back() bool {
	switch e.step {
	case stepLevel:
		return false
	case stepStrain:
		e.level = 0
		e.step = stepLevel
	case stepDeclarer:
		e.strain = ""
		e.step = stepStrain
	case stepDouble:
		if e.doubled != score.Undoubled {
			if e.doubled == score.Redouble {
				e.doubled = score.Double
			} else {
				e.doubled = score.Undoubled
			}
			return true
		}
		e.declarer = ""
		e.step = stepDeclarer
	case stepTricks:
		e.step = stepDouble
	case stepDone:
		e.tricks = 0
		e.step = stepTricks
	}
	return true
}

// pending renders the partially entered contract.
func (e *contractEntry) pending() string {
	if e.step == stepLevel {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(e.level))
	if e.strain != "" {
		sb.WriteString(e.strain.Symbol())
	}
	if e.doubled != score.Undoubled {
		sb.WriteString(" " + string(e.doubled))
	}
	if e.declarer != "" {
		sb.WriteString(" by " + string(e.declarer))
	}
	if e.step >= stepTricks {
		if e.made {
			sb.WriteString(" made")
		} else {
			sb.WriteString(" down")
		}
	}
	return sb.String()
}

func (e *contractEntry) prompt() string {
	switch e.step {
	case stepLevel:
		return "Contract level (or PASS)"
	case stepStrain:
		return "Strain"
	case stepDeclarer:
		return "Declarer"
	case stepDouble:
		return "Doubled? Then MADE or DOWN"
	case stepTricks:
		if e.made {
			return "Overtricks"
		}
		return "Undertricks"
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Package mode implements the scoring variants. Each variant interprets the
// buttons pressed by the user and reads and writes the shared game state;
// the UI only talks to the Strategy interface.
package mode

import (
	"fmt"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/state"
)

// Tag names a scoring variant.
type Tag string

const (
	Kitchen Tag = "kitchen"
	Rubber  Tag = "rubber"
	Chicago Tag = Tag(deal.ModeChicago)
	Bonus   Tag = Tag(deal.ModeBonus)
)

// Tags lists the variants in menu order.
func Tags() []Tag { return []Tag{Kitchen, Rubber, Chicago, Bonus} }

// ParseTag accepts a variant name in any case.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tags() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, apperrors.ErrUnknownMode)
}

// Title is the display name of the variant.
func (t Tag) Title() string {
	switch t {
	case Kitchen:
		return "Kitchen Bridge"
	case Rubber:
		return "Rubber Bridge"
	case Chicago:
		return "Chicago"
	case Bonus:
		return "Bonus Bridge"
	}
	return string(t)
}

// Display is what the UI renders for the current moment.
type Display struct {
	Mode          Tag
	Title         string
	DealNumber    int
	Dealer        deal.Seat
	Vulnerability deal.Vulnerability
	Scores        map[deal.Partnership]int
	Pending       string
	Prompt        string
	LastResult    string
	Lines         []string
}

// Help is the help screen of a variant.
type Help struct {
	Title   string
	Content string
	Buttons []string
}

// Strategy is implemented by every variant. HandleBack, CanGoBack and
// Cleanup have defaults in base.
type Strategy interface {
	Tag() Tag
	Initialize() error
	HandleAction(value string) error
	ActiveButtons() []string
	UpdateDisplay() Display
	HelpContent() Help
	HandleBack() bool
	CanGoBack() bool
	Cleanup()
}

// Session is the persistence side of a running game. Modes call SaveNow
// after every recorded or undone deal.
type Session interface {
	SaveNow()
}

type noopSession struct{}

func (noopSession) SaveNow() {}

// Context is what a strategy is built from.
type Context struct {
	State   *state.State
	Session Session
}

// New builds the strategy for tag. It does not initialize it.
func New(tag Tag, ctx Context) (Strategy, error) {
	if ctx.State == nil {
		return nil, fmt.Errorf("mode %s: nil state", tag)
	}
	if ctx.Session == nil {
		ctx.Session = noopSession{}
	}
	b := base{tag: tag, st: ctx.State, session: ctx.Session}

	switch tag {
	case Kitchen:
		return &kitchen{base: b}, nil
	case Rubber:
		return newRubber(b), nil
	case Chicago:
		return &chicago{base: b}, nil
	case Bonus:
		return &bonus{chicago: chicago{base: b}}, nil
	}
	return nil, fmt.Errorf("%q: %w", tag, apperrors.ErrUnknownMode)
}

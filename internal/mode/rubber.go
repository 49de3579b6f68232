package mode

import (
	"fmt"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/score"
	"github.com/palemoky/bridge-scorer/internal/logger"
)

// GamePoints is the below-the-line total that wins a game.
const GamePoints = 100

// rubberTally is the position of the current rubber. It is rebuilt from
// history after every change so undo needs no bookkeeping of its own.
type rubberTally struct {
	below    map[deal.Partnership]int
	above    map[deal.Partnership]int
	games    map[deal.Partnership]int
	rubbers  int
	rubberOf map[deal.Partnership]int
}

func newRubberTally() *rubberTally {
	return &rubberTally{
		below:    map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
		above:    map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
		games:    map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
		rubberOf: map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
	}
}

// vulnerability follows games won: a side with a game is vulnerable.
func (t *rubberTally) vulnerability() deal.Vulnerability {
	ns, ew := t.games[deal.NS] > 0, t.games[deal.EW] > 0
	switch {
	case ns && ew:
		return deal.VulnBoth
	case ns:
		return deal.VulnNS
	case ew:
		return deal.VulnEW
	}
	return deal.VulnNone
}

// apply scores r and reports the rubber bonus it earned, zero when the
// rubber goes on.
func (t *rubberTally) apply(r score.Result, vulnerable bool) (rubberBonus int) {
	side := r.Contract.Side()
	below, above := score.RubberScore(r, vulnerable)
	if !r.Made() {
		t.above[side.Opponent()] += -above
		return 0
	}
	t.below[side] += below
	t.above[side] += above
	if t.below[side] < GamePoints {
		return 0
	}

	// Game: part scores of both sides are wiped.
	t.games[side]++
	t.below[deal.NS], t.below[deal.EW] = 0, 0
	if t.games[side] < 2 {
		return 0
	}
	if t.games[side.Opponent()] == 0 {
		rubberBonus = score.RubberBonusTwoNil
	} else {
		rubberBonus = score.RubberBonusTwoOne
	}
	t.rubbers++
	t.rubberOf[side]++
	t.games[deal.NS], t.games[deal.EW] = 0, 0
	t.above[deal.NS], t.above[deal.EW] = 0, 0
	return rubberBonus
}

// replay builds the tally from the rubber entries of a log.
func replay(entries []history.Entry) *rubberTally {
	t := newRubberTally()
	for _, e := range entries {
		if e.Mode != string(Rubber) || e.PassedOut() {
			continue
		}
		side := e.Contract.Side()
		t.apply(score.Result{Contract: *e.Contract, Tricks: e.Tricks}, e.Vulnerability.IsVulnerable(side))
	}
	return t
}

// rubber keeps a below/above-the-line score sheet.
type rubber struct {
	base
	tally *rubberTally
}

func newRubber(b base) *rubber {
	r := &rubber{base: b, tally: newRubberTally()}
	r.afterChange = r.refresh
	return r
}

// refresh rebuilds the tally and sets vulnerability from games won.
func (r *rubber) refresh() {
	r.tally = replay(r.st.History())
	if err := r.st.SetVulnerability(r.tally.vulnerability()); err != nil {
		logger.LogError("rubber: set vulnerability: %v", err)
	}
}

func (r *rubber) ActiveButtons() []string {
	return append(r.commonButtons(), r.entry.buttons()...)
}

func (r *rubber) HandleAction(value string) error {
	if handled, err := r.handleCommon(value); handled {
		return err
	}
	done, err := r.entry.handle(value)
	if err != nil || !done {
		return err
	}

	res := r.entry.result()
	side := res.Contract.Side()
	vuln := r.tally.vulnerability()
	below, above := score.RubberScore(res, vuln.IsVulnerable(side))

	// Score the deal on a scratch tally to learn whether it ends the rubber.
	scratch := replay(r.st.History())
	bonus := scratch.apply(res, vuln.IsVulnerable(side))

	c := res.Contract
	e := history.Entry{
		Declarer:      side,
		Score:         below + above + bonus,
		Contract:      &c,
		Tricks:        res.Tricks,
		Vulnerability: vuln,
	}
	if bonus > 0 {
		e.Note = fmt.Sprintf("rubber won, bonus %d", bonus)
	}
	_, err = r.recordDeal(e)
	return err
}

func (r *rubber) UpdateDisplay() Display {
	d := r.display()
	t := r.tally
	d.Lines = []string{
		fmt.Sprintf("Rubber %d", t.rubbers+1),
		fmt.Sprintf("Games      NS %d  EW %d", t.games[deal.NS], t.games[deal.EW]),
		fmt.Sprintf("Above line NS %d  EW %d", t.above[deal.NS], t.above[deal.EW]),
		fmt.Sprintf("Below line NS %d  EW %d", t.below[deal.NS], t.below[deal.EW]),
	}
	if t.rubbers > 0 {
		d.Lines = append(d.Lines, fmt.Sprintf("Rubbers won NS %d  EW %d", t.rubberOf[deal.NS], t.rubberOf[deal.EW]))
	}
	return d
}

func (r *rubber) HelpContent() Help {
	return Help{
		Title: r.tag.Title(),
		Content: fmt.Sprintf("Contract points go below the line, everything else above. "+
			"%d below the line wins a game and makes that side vulnerable. "+
			"Two games win the rubber: %d for 2-0, %d for 2-1.",
			GamePoints, score.RubberBonusTwoNil, score.RubberBonusTwoOne),
		Buttons: []string{ButtonPass, ButtonUndo, ButtonBack},
	}
}

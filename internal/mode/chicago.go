package mode

import (
	"fmt"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
)

// DealsPerRound is the length of a chicago round.
const DealsPerRound = 4

// chicago is duplicate scoring with vulnerability fixed by the deal number.
type chicago struct {
	base
}

func (c *chicago) ActiveButtons() []string {
	return append(c.commonButtons(), c.entry.buttons()...)
}

func (c *chicago) HandleAction(value string) error {
	if handled, err := c.handleCommon(value); handled {
		return err
	}
	done, err := c.entry.handle(value)
	if err != nil || !done {
		return err
	}
	_, err = c.recordDeal(duplicateEntry(c.entry.result(), c.st.Vulnerability()))
	return err
}

func (c *chicago) UpdateDisplay() Display {
	d := c.display()
	d.Lines = roundLines(d.DealNumber, len(c.st.History()))
	return d
}

func (c *chicago) HelpContent() Help {
	return Help{
		Title: c.tag.Title(),
		Content: "Rounds of four deals. Vulnerability follows the deal: " +
			"none, NS, EW, both. The dealer rotates clockwise from North.",
		Buttons: []string{ButtonPass, ButtonUndo, ButtonBack},
	}
}

// RoundOf returns the chicago round and the position within it of deal n.
func RoundOf(n int) (round, position int) {
	if n < 1 {
		return 0, 0
	}
	return (n-1)/DealsPerRound + 1, (n-1)%DealsPerRound + 1
}

func roundLines(dealNumber, played int) []string {
	round, pos := RoundOf(dealNumber)
	lines := []string{
		fmt.Sprintf("Round %d, deal %d of %d", round, pos, DealsPerRound),
		fmt.Sprintf("Vulnerable: %s", deal.VulnerabilityFor(dealNumber)),
	}
	if played > 0 && pos == 1 {
		lines = append(lines, fmt.Sprintf("Round %d complete", round-1))
	}
	return lines
}

package mode

import (
	"fmt"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/score"
)

// vulnPrefix marks the manual vulnerability buttons, e.g. "V:NS".
const vulnPrefix = "V:"

// kitchen is duplicate scoring with vulnerability set by hand.
type kitchen struct {
	base
}

func (k *kitchen) ActiveButtons() []string {
	out := k.commonButtons()
	if k.entry.idle() {
		for _, v := range deal.Vulnerabilities() {
			out = append(out, vulnPrefix+string(v))
		}
	}
	return append(out, k.entry.buttons()...)
}

func (k *kitchen) HandleAction(value string) error {
	if handled, err := k.handleCommon(value); handled {
		return err
	}
	if v, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(value)), vulnPrefix); ok && k.entry.idle() {
		vuln, err := deal.ParseVulnerability(v)
		if err != nil {
			return err
		}
		return k.st.SetVulnerability(vuln)
	}
	done, err := k.entry.handle(value)
	if err != nil || !done {
		return err
	}
	_, err = k.recordDeal(duplicateEntry(k.entry.result(), k.st.Vulnerability()))
	return err
}

func (k *kitchen) UpdateDisplay() Display {
	d := k.display()
	d.Lines = []string{fmt.Sprintf("Vulnerable: %s", d.Vulnerability)}
	return d
}

func (k *kitchen) HelpContent() Help {
	return Help{
		Title: k.tag.Title(),
		Content: "Duplicate scoring, one deal at a time. Set vulnerability yourself " +
			"with the V: buttons before entering the contract; it stays until you change it.",
		Buttons: []string{ButtonPass, ButtonUndo, ButtonBack, "V:None", "V:NS", "V:EW", "V:Both"},
	}
}

// duplicateEntry scores r the duplicate way under vuln.
func duplicateEntry(r score.Result, vuln deal.Vulnerability) history.Entry {
	c := r.Contract
	side := c.Side()
	return history.Entry{
		Declarer:      side,
		Score:         score.DuplicateScore(r, vuln.IsVulnerable(side)),
		Contract:      &c,
		Tricks:        r.Tricks,
		Vulnerability: vuln,
	}
}

package mode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/score"
)

// hcpPrefix marks the high-card-point buttons, e.g. "HCP:17".
const hcpPrefix = "HCP:"

// bonus scores like chicago, then adjusts for the high cards the declaring
// side held.
type bonus struct {
	chicago

	// awaiting is set once the result is entered and the HCP count is due.
	awaiting *score.Result
}

func (b *bonus) ActiveButtons() []string {
	if b.awaiting == nil {
		return b.chicago.ActiveButtons()
	}
	out := []string{ButtonBack}
	for hcp := 0; hcp <= 40; hcp++ {
		out = append(out, hcpPrefix+strconv.Itoa(hcp))
	}
	return out
}

func (b *bonus) HandleAction(value string) error {
	v := strings.ToUpper(strings.TrimSpace(value))
	if b.awaiting != nil {
		if v == ButtonBack {
			b.HandleBack()
			return nil
		}
		raw, ok := strings.CutPrefix(v, hcpPrefix)
		if !ok {
			return fmt.Errorf("%q: %w", value, apperrors.ErrInvalidAction)
		}
		hcp, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%q: %w", value, apperrors.ErrInvalidAction)
		}
		return b.finish(hcp)
	}

	if handled, err := b.handleCommon(value); handled {
		return err
	}
	done, err := b.entry.handle(value)
	if err != nil || !done {
		return err
	}
	r := b.entry.result()
	b.awaiting = &r
	return nil
}

// finish records the awaiting result with its HCP adjustment.
func (b *bonus) finish(hcp int) error {
	r := *b.awaiting
	adj, err := score.BonusAdjustment(hcp, r.Made())
	if err != nil {
		return err
	}
	e := duplicateEntry(r, b.st.Vulnerability())
	e.Score += adj
	if adj != 0 {
		e.Note = fmt.Sprintf("%d HCP, adjustment %+d", hcp, adj)
	} else {
		e.Note = fmt.Sprintf("%d HCP", hcp)
	}
	b.awaiting = nil
	_, err = b.recordDeal(e)
	return err
}

func (b *bonus) Initialize() error {
	b.awaiting = nil
	return b.chicago.Initialize()
}

func (b *bonus) HandleBack() bool {
	b.awaiting = nil
	return b.entry.back()
}

func (b *bonus) CanGoBack() bool {
	return b.awaiting != nil || b.entry.canGoBack()
}

func (b *bonus) Cleanup() {
	b.awaiting = nil
	b.entry.reset()
}

func (b *bonus) UpdateDisplay() Display {
	d := b.chicago.UpdateDisplay()
	if b.awaiting != nil {
		d.Pending = b.awaiting.String()
		d.Prompt = fmt.Sprintf("High card points held by %s", sideName(b.awaiting.Contract.Side()))
	}
	return d
}

func (b *bonus) HelpContent() Help {
	return Help{
		Title: b.tag.Title(),
		Content: fmt.Sprintf("Chicago scoring plus a high-card adjustment. After the result, "+
			"enter the declaring side's HCP. Made on fewer than %d HCP: declarer gains 10 per point short. "+
			"Failed on more than %d HCP: defenders gain 10 per point over.", score.BonusPar, score.BonusPar),
		Buttons: []string{ButtonPass, ButtonUndo, ButtonBack, "HCP:0 … HCP:40"},
	}
}

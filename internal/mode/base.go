package mode

import (
	"fmt"
	"strings"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/state"
	"github.com/palemoky/bridge-scorer/internal/logger"
)

// base carries what every variant shares: contract entry, deal recording,
// undo and the optional Strategy methods.
type base struct {
	tag     Tag
	st      *state.State
	session Session
	entry   contractEntry

	lastResult string

	// afterChange runs after a deal is recorded or undone.
	afterChange func()
}

func (b *base) Tag() Tag { return b.tag }

// Initialize makes this variant the owner of the state.
func (b *base) Initialize() error {
	b.entry.reset()
	b.lastResult = ""
	b.st.SetMode(string(b.tag))
	if b.afterChange != nil {
		b.afterChange()
	}
	return nil
}

func (b *base) HandleBack() bool { return b.entry.back() }

func (b *base) CanGoBack() bool { return b.entry.canGoBack() }

func (b *base) Cleanup() { b.entry.reset() }

// commonButtons are the buttons available between deals.
func (b *base) commonButtons() []string {
	if !b.entry.idle() {
		return []string{ButtonBack}
	}
	out := []string{ButtonPass}
	if len(b.st.History()) > 0 {
		out = append(out, ButtonUndo)
	}
	return out
}

// handleCommon processes PASS, UNDO and BACK.
func (b *base) handleCommon(value string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case ButtonBack:
		if !b.HandleBack() {
			return true, fmt.Errorf("nothing to go back to: %w", apperrors.ErrInvalidAction)
		}
		return true, nil
	case ButtonPass:
		if !b.entry.idle() {
			return true, fmt.Errorf("pass during contract entry: %w", apperrors.ErrInvalidAction)
		}
		_, err := b.recordDeal(history.Entry{Note: "passed out"})
		return true, err
	case ButtonUndo:
		if !b.entry.idle() {
			return true, fmt.Errorf("undo during contract entry: %w", apperrors.ErrInvalidAction)
		}
		return true, b.undo()
	}
	return false, nil
}

// recordDeal appends the deal, credits the winning side, moves to the next
// deal and saves.
func (b *base) recordDeal(e history.Entry) (history.Entry, error) {
	e.Mode = string(b.tag)
	stored := b.st.RecordDeal(e)
	if winner, ok := stored.Winner(); ok {
		if err := b.st.AddScore(winner, abs(stored.Score)); err != nil {
			return stored, err
		}
	}
	b.st.NextDeal()
	b.entry.reset()
	b.lastResult = describe(stored)
	if b.afterChange != nil {
		b.afterChange()
	}
	logger.LogInfo("%s: recorded deal %d: %s", b.tag, stored.DealNumber, b.lastResult)
	b.session.SaveNow()
	return stored, nil
}

// undo removes the last deal and takes its points back.
func (b *base) undo() error {
	last, ok := b.st.UndoLastDeal()
	if !ok {
		b.lastResult = "Nothing to undo"
		return nil
	}
	if winner, ok := last.Winner(); ok {
		if err := b.st.AddScore(winner, -abs(last.Score)); err != nil {
			return err
		}
	}
	b.entry.reset()
	b.lastResult = "Undone: " + describe(last)
	if b.afterChange != nil {
		b.afterChange()
	}
	b.session.SaveNow()
	return nil
}

// display fills the fields common to every variant.
func (b *base) display() Display {
	return Display{
		Mode:          b.tag,
		Title:         b.tag.Title(),
		DealNumber:    b.st.DealNumber(),
		Dealer:        b.st.Dealer(),
		Vulnerability: b.st.Vulnerability(),
		Scores:        b.st.Scores(),
		Pending:       b.entry.pending(),
		Prompt:        b.entry.prompt(),
		LastResult:    b.lastResult,
	}
}

// describe renders a history entry in one line.
func describe(e history.Entry) string {
	if e.PassedOut() {
		return fmt.Sprintf("Deal %d: passed out", e.DealNumber)
	}
	line := fmt.Sprintf("Deal %d: %s", e.DealNumber, e.Contract.String())
	switch {
	case e.Tricks == 0:
		line += " ="
	default:
		line += fmt.Sprintf(" %+d", e.Tricks)
	}
	if winner, ok := e.Winner(); ok {
		line += fmt.Sprintf(", %s +%d", winner, abs(e.Score))
	}
	if e.Note != "" {
		line += " (" + e.Note + ")"
	}
	return line
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// sideName is used in prompts.
func sideName(p deal.Partnership) string {
	if p == deal.NS {
		return "North-South"
	}
	return "East-West"
}

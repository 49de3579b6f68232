package history

import (
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/score"
)

// Summary aggregates a log. It is always recomputed, never stored.
type Summary struct {
	TotalDeals int
	Wins       map[deal.Partnership]int
	Points     map[deal.Partnership]int
	Doubled    int
	Redoubled  int
	Slams      int
	GrandSlams int
	Made       int
	Failed     int
	PassedOut  int
}

// Summary computes the statistics of the current log.
func (l *Log) Summary() Summary {
	s := Summary{
		TotalDeals: len(l.entries),
		Wins:       map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
		Points:     map[deal.Partnership]int{deal.NS: 0, deal.EW: 0},
	}

	for _, e := range l.entries {
		if e.PassedOut() {
			s.PassedOut++
			continue
		}

		switch e.Contract.Doubled {
		case score.Double:
			s.Doubled++
		case score.Redouble:
			s.Redoubled++
		}
		if e.Contract.IsSlam() {
			s.Slams++
		}
		if e.Contract.IsGrandSlam() {
			s.GrandSlams++
		}

		switch {
		case e.Score > 0:
			s.Made++
		case e.Score < 0:
			s.Failed++
		}

		if winner, ok := e.Winner(); ok {
			s.Wins[winner]++
			s.Points[winner] += abs(e.Score)
		}
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

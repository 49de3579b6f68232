package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/score"
	"github.com/palemoky/bridge-scorer/internal/logger"
)

var start = time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

// fixedClock advances one second per call.
func fixedClock() func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestState(opts ...Option) *State {
	return New(append([]Option{WithClock(fixedClock())}, opts...)...)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := newTestState()
	assert.Equal(t, 1, s.DealNumber())
	assert.Equal(t, deal.North, s.Dealer())
	assert.Equal(t, deal.VulnNone, s.Vulnerability())
	assert.Equal(t, map[deal.Partnership]int{deal.NS: 0, deal.EW: 0}, s.Scores())
	assert.Empty(t, s.History())
	assert.Equal(t, "", s.Mode())
	assert.False(t, s.Dirty())
}

func TestNextDeal_Chicago(t *testing.T) {
	t.Parallel()

	s := newTestState()
	s.SetMode(deal.ModeChicago)
	for range 3 {
		s.NextDeal()
	}

	assert.Equal(t, 4, s.DealNumber())
	assert.Equal(t, deal.West, s.Dealer())
	assert.Equal(t, deal.VulnBoth, s.Vulnerability())
	assert.Equal(t, map[deal.Partnership]int{deal.NS: 0, deal.EW: 0}, s.Scores())
}

func TestNextDeal_ManualModeKeepsVulnerability(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode("rubber"))
	require.NoError(t, s.SetVulnerability(deal.VulnEW))
	s.NextDeal()
	s.NextDeal()

	assert.Equal(t, 3, s.DealNumber())
	assert.Equal(t, deal.VulnEW, s.Vulnerability())
}

func TestSetMode_ChicagoOverridesManualVulnerability(t *testing.T) {
	t.Parallel()

	s := newTestState()
	s.SetMode("kitchen")
	require.NoError(t, s.SetVulnerability(deal.VulnNS))
	assert.Equal(t, deal.VulnNS, s.Vulnerability())

	require.NoError(t, s.SetVulnerability(deal.VulnBoth))
	s.NextDeal()
	require.Equal(t, 2, s.DealNumber())

	s.SetMode(deal.ModeChicago)
	assert.Equal(t, deal.VulnNS, s.Vulnerability())
}

func TestSetMode_ManualKeepsLastValue(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode(deal.ModeBonus))
	s.NextDeal()
	s.NextDeal()
	require.Equal(t, deal.VulnEW, s.Vulnerability())

	s.SetMode("kitchen")
	assert.Equal(t, deal.VulnEW, s.Vulnerability())
}

func TestSetVulnerability_GuardedInAutoMode(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })

	s := newTestState(WithMode(deal.ModeChicago))
	var got []Event
	s.SubscribeAll(func(ev Event) { got = append(got, ev) })

	err := s.SetVulnerability(deal.VulnBoth)
	assert.NoError(t, err)
	assert.Equal(t, deal.VulnNone, s.Vulnerability())
	assert.Empty(t, got)
	assert.False(t, s.Dirty())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "ignoring manual vulnerability")
}

func TestSetVulnerability_Invalid(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode("kitchen"))
	err := s.SetVulnerability(deal.Vulnerability("NE"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidVuln)
	assert.Equal(t, deal.VulnNone, s.Vulnerability())
}

func TestAddScore(t *testing.T) {
	t.Parallel()

	s := newTestState()
	var changes []ScoreChanged
	s.Subscribe(KindScoreChanged, func(ev Event) { changes = append(changes, ev.(ScoreChanged)) })

	require.NoError(t, s.AddScore(deal.NS, 420))
	require.NoError(t, s.AddScore(deal.NS, -50))
	err := s.AddScore(deal.Partnership("XX"), 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPartnership)

	assert.Equal(t, 370, s.Scores()[deal.NS])
	require.Len(t, changes, 2)
	assert.Equal(t, ScoreChanged{Partnership: deal.NS, Delta: -50, Total: 370}, changes[1])

	leader, ok := s.Leader()
	assert.True(t, ok)
	assert.Equal(t, deal.NS, leader)
}

func TestRecordAndUndo(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode(deal.ModeChicago))
	s.NextDeal()

	c := &score.Contract{Level: 4, Strain: score.Hearts, Declarer: deal.East}
	stored := s.RecordDeal(history.Entry{Declarer: deal.EW, Score: 620, Contract: c})
	assert.Equal(t, 2, stored.DealNumber)
	assert.Equal(t, deal.East, stored.Dealer)
	assert.Equal(t, deal.VulnNS, stored.Vulnerability)
	s.NextDeal()
	require.Equal(t, 3, s.DealNumber())

	undone, ok := s.UndoLastDeal()
	require.True(t, ok)
	assert.Equal(t, stored.ID, undone.ID)
	assert.Empty(t, s.History())
	assert.Equal(t, 2, s.DealNumber())
	assert.Equal(t, deal.VulnNS, s.Vulnerability())

	_, ok = s.UndoLastDeal()
	assert.False(t, ok)
}

func TestListeners_OrderAndAfterMutation(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode(deal.ModeChicago))
	var order []string
	s.Subscribe(KindDealChanged, func(ev Event) {
		// The mutation is visible to listeners.
		assert.Equal(t, 2, s.DealNumber())
		order = append(order, "first")
	})
	s.Subscribe(KindDealChanged, func(Event) { order = append(order, "second") })
	sub := s.Subscribe(KindDealChanged, func(Event) { order = append(order, "removed") })
	assert.True(t, s.Unsubscribe(sub))
	assert.False(t, s.Unsubscribe(sub))

	var kinds []Kind
	s.SubscribeAll(func(ev Event) { kinds = append(kinds, ev.Kind()) })

	s.NextDeal()
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, []Kind{KindDealChanged, KindVulnerabilityChanged}, kinds)
}

func TestOnModified_CalledAfterEveryMutation(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode("kitchen"))
	calls := 0
	s.OnModified(func() { calls++ })

	s.SetMode("rubber")
	s.NextDeal()
	require.NoError(t, s.AddScore(deal.EW, 10))
	s.RecordDeal(history.Entry{})
	s.SetSetting("sound", "off")
	s.ClearHistory()
	s.Reset()

	assert.Equal(t, 7, calls)
	assert.True(t, s.Dirty())
	s.MarkSaved(s.Revision())
	assert.False(t, s.Dirty())
}

func TestMarkSaved_KeepsLaterChangesDirty(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode("kitchen"))
	s.NextDeal()
	rev := s.Revision()
	_ = s.Export()

	// A deal lands while the export is being written.
	s.NextDeal()
	s.MarkSaved(rev)
	assert.True(t, s.Dirty())

	s.MarkSaved(s.Revision())
	assert.False(t, s.Dirty())

	require.NoError(t, s.Restore(s.Export()))
	assert.True(t, s.Dirty())
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode(deal.ModeChicago))
	s.SetSetting("sound", "off")
	require.NoError(t, s.AddScore(deal.NS, 100))
	s.RecordDeal(history.Entry{})
	s.NextDeal()

	var reset bool
	s.Subscribe(KindStateReset, func(Event) { reset = true })
	s.Reset()

	assert.True(t, reset)
	assert.Equal(t, 1, s.DealNumber())
	assert.Equal(t, deal.VulnNone, s.Vulnerability())
	assert.Equal(t, 0, s.Scores()[deal.NS])
	assert.Empty(t, s.History())
	assert.Equal(t, deal.ModeChicago, s.Mode())
	v, ok := s.Setting("sound")
	assert.True(t, ok)
	assert.Equal(t, "off", v)
}

func TestSetDealNumber(t *testing.T) {
	t.Parallel()

	s := newTestState(WithMode(deal.ModeBonus))
	require.NoError(t, s.SetDealNumber(7))
	assert.Equal(t, deal.South, s.Dealer())
	assert.Equal(t, deal.VulnEW, s.Vulnerability())

	assert.ErrorIs(t, s.SetDealNumber(0), apperrors.ErrInvalidDealNumber)
	assert.Equal(t, 7, s.DealNumber())
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	s := newTestState()
	s.RecordDeal(history.Entry{})
	cleared := false
	s.Subscribe(KindHistoryCleared, func(Event) { cleared = true })
	s.ClearHistory()

	assert.True(t, cleared)
	assert.Empty(t, s.History())
	assert.Equal(t, 0, s.Summary().TotalDeals)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "modeChanged", KindModeChanged.String())
	assert.Equal(t, "stateImported", KindStateImported.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

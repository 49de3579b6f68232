package transfer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bridge-scorer/internal/apperrors"
	"github.com/palemoky/bridge-scorer/internal/game/deal"
	"github.com/palemoky/bridge-scorer/internal/game/history"
	"github.com/palemoky/bridge-scorer/internal/game/score"
	"github.com/palemoky/bridge-scorer/internal/game/state"
)

func played(t *testing.T) *state.State {
	t.Helper()
	at := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	st := state.New(state.WithClock(func() time.Time { return at }), state.WithMode(deal.ModeBonus))
	c := &score.Contract{Level: 6, Strain: score.Spades, Doubled: score.Double, Declarer: deal.West}
	st.RecordDeal(history.Entry{Declarer: deal.EW, Score: 1210, Contract: c, Tricks: 0})
	require.NoError(t, st.AddScore(deal.EW, 1210))
	st.NextDeal()
	return st
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatProtobuf, FormatFor("game.PB"))
	assert.Equal(t, FormatJSON, FormatFor("game.json"))
	assert.Equal(t, FormatJSON, FormatFor("game"))
}

func TestExportImport(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"game.json", "game.pb"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			src := played(t)
			path := filepath.Join(t.TempDir(), "out", name)
			require.NoError(t, Export(src, path))

			dst := state.New()
			require.NoError(t, Import(dst, path))
			assert.Equal(t, src.Export(), dst.Export())
		})
	}
}

func TestImport_IncompleteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dealNumber":3,"scores":{"NS":1,"EW":2}}`), 0o600))

	dst := played(t)
	before := dst.Export()
	err := Import(dst, path)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateData)
	assert.Equal(t, before, dst.Export())
}

func TestImport_CorruptProtobuf(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.pb")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o600))
	assert.Error(t, Import(state.New(), path))
}

func TestImport_MissingFile(t *testing.T) {
	t.Parallel()
	assert.Error(t, Import(state.New(), filepath.Join(t.TempDir(), "nope.json")))
}

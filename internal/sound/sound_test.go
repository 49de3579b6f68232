//go:build !ci

package sound

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneBuffer(t *testing.T) {
	t.Parallel()

	buf := toneBuffer(440, 100*time.Millisecond)
	assert.Equal(t, sampleRate.N(100*time.Millisecond), buf.Len())
}

func TestEveryCueHasATone(t *testing.T) {
	t.Parallel()

	for _, c := range Cues() {
		assert.Positive(t, toneFor(c), "cue %s", c)
	}
	assert.Zero(t, toneFor(Cue("fanfare")))
}

func TestPlayer_DisabledIsSilent(t *testing.T) {
	t.Parallel()

	p := NewPlayer("")
	assert.False(t, p.Enabled())
	p.Play(CueDeal) // must not touch the speaker
	p.Close()
}

func TestPlayer_InstallWhileLookingUp(t *testing.T) {
	t.Parallel()

	p := NewPlayer("")
	buffers := builtinBuffers()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.install(buffers)
	}()
	for range 100 {
		if b, ok := p.buffer(CueDeal); ok {
			assert.NotNil(t, b)
		}
		_ = p.Enabled()
	}
	wg.Wait()

	assert.True(t, p.Enabled())
	b, ok := p.buffer(CueUndo)
	require.True(t, ok)
	assert.Equal(t, sampleRate.N(toneDuration), b.Len())

	p.Close()
	_, ok = p.buffer(CueUndo)
	assert.False(t, ok)
}

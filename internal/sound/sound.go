//go:build !ci

package sound

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 120 * time.Millisecond
)

// Player plays short cues through the speaker. Init may run on its own
// goroutine while Play is called from the UI.
type Player struct {
	dir string

	mu      sync.RWMutex
	buffers map[Cue]*beep.Buffer
	enabled bool
}

// NewPlayer returns a disabled player; Init turns it on. dir may be empty.
func NewPlayer(dir string) *Player {
	return &Player{dir: dir}
}

func (p *Player) Init() error {
	// Init speaker with smaller buffer for lower latency
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	buffers := builtinBuffers()
	err := loadSoundFiles(p.dir, buffers)
	p.install(buffers)
	return err
}

// install publishes a complete buffer set and enables playback.
func (p *Player) install(buffers map[Cue]*beep.Buffer) {
	p.mu.Lock()
	p.buffers = buffers
	p.enabled = true
	p.mu.Unlock()
}

func builtinBuffers() map[Cue]*beep.Buffer {
	buffers := make(map[Cue]*beep.Buffer, len(Cues()))
	for _, c := range Cues() {
		buffers[c] = toneBuffer(toneFor(c), toneDuration)
	}
	return buffers
}

// loadSoundFiles replaces built-in tones with files from dir
func loadSoundFiles(dir string, buffers map[Cue]*beep.Buffer) error {
	if dir == "" {
		return nil
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		// It's okay if directory doesn't exist, just built-in tones
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		cue := Cue(strings.TrimSuffix(name, filepath.Ext(name)))
		if (ext != ".mp3" && ext != ".wav") || toneFor(cue) == 0 {
			continue
		}

		buf, err := loadSoundFile(filepath.Join(dir, name), ext)
		if err != nil {
			// Continue loading other files even if one fails
			continue
		}
		buffers[cue] = buf
	}
	return nil
}

func loadSoundFile(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(standardFormat())
	buffer.Append(resampled)
	return buffer, nil
}

func standardFormat() beep.Format {
	return beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4}
}

// toneBuffer renders a sine tone that fades out over d.
func toneBuffer(freq float64, d time.Duration) *beep.Buffer {
	total := sampleRate.N(d)
	pos := 0
	tone := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			fade := 1 - float64(pos)/float64(total)
			v := 0.3 * fade * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})

	buffer := beep.NewBuffer(standardFormat())
	buffer.Append(tone)
	return buffer
}

// Play plays c; unknown cues and a disabled player are silent.
func (p *Player) Play(c Cue) {
	buffer, ok := p.buffer(c)
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// buffer returns the sound for c while the player is enabled.
func (p *Player) buffer(c Cue) (*beep.Buffer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.enabled {
		return nil, false
	}
	b, ok := p.buffers[c]
	return b, ok
}

func (p *Player) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

func (p *Player) Close() {
	p.mu.Lock()
	p.enabled = false
	p.mu.Unlock()
}

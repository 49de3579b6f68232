package sound

// Cue names a sound played on a scoring event. A file named after the cue
// (deal.wav, undo.mp3, ...) in the sound directory replaces the built-in tone.
type Cue string

const (
	CueDeal  Cue = "deal"
	CuePass  Cue = "pass"
	CueUndo  Cue = "undo"
	CueError Cue = "error"
)

// Cues lists every cue.
func Cues() []Cue { return []Cue{CueDeal, CuePass, CueUndo, CueError} }

// toneFor is the frequency (Hz) of the built-in tone of a cue.
func toneFor(c Cue) float64 {
	switch c {
	case CueDeal:
		return 880
	case CuePass:
		return 660
	case CueUndo:
		return 440
	case CueError:
		return 220
	}
	return 0
}

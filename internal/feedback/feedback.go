// Package feedback turns round outcomes into timed side effects: sound cues, haptic
// pulses, status text, a celebratory burst and pausing/resuming the ambient track.
//
// The sequencer never touches game state. It receives Outcome values, runs their
// effects on its own goroutine and owns the cancellable ambient-resume timer.
package feedback

// Cue names a sound the engine can play.
type Cue int

const (
	CueClick Cue = iota
	CueWin
	CueLose
	CueAmbient
)

var cueNames = [...]string{
	CueClick:   "click",
	CueWin:     "win",
	CueLose:    "lose",
	CueAmbient: "ambient",
}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}

// ParseCue maps a cue name back to its Cue.
func ParseCue(name string) (Cue, bool) {
	for i, n := range cueNames {
		if n == name {
			return Cue(i), true
		}
	}
	return 0, false
}

// Cues lists every cue, ambient included.
func Cues() []Cue {
	return []Cue{CueClick, CueWin, CueLose, CueAmbient}
}

// Severity is the strength of a haptic pulse.
type Severity int

const (
	HapticLight Severity = iota
	HapticSuccess
	HapticError
)

func (s Severity) String() string {
	switch s {
	case HapticLight:
		return "light"
	case HapticSuccess:
		return "success"
	case HapticError:
		return "error"
	default:
		return "unknown"
	}
}

// Engine is the audio/haptic playback capability. Implementations should return
// quickly; the sequencer logs and drops any error they report.
type Engine interface {
	PlayCue(Cue) error
	PulseHaptic(Severity) error
	PauseAmbient() error
	ResumeAmbient() error
	SetAmbientLooping(bool) error
}

// Display receives the visual side of feedback.
type Display interface {
	SetStatus(text string) error
	Celebrate() error
}

type nopDisplay struct{}

func (nopDisplay) SetStatus(string) error { return nil }
func (nopDisplay) Celebrate() error       { return nil }

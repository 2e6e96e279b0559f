package feedback

import "github.com/rs/zerolog"

// LogEngine is an Engine and Display that only records effects in the log. It is the
// fallback when no playback device or client is attached.
type LogEngine struct {
	log zerolog.Logger
}

// NewLogEngine returns a LogEngine writing at debug level to l.
func NewLogEngine(l zerolog.Logger) *LogEngine {
	return &LogEngine{log: l}
}

func (e *LogEngine) PlayCue(c Cue) error {
	e.log.Debug().Str("cue", c.String()).Msg("play cue")
	return nil
}

func (e *LogEngine) PulseHaptic(s Severity) error {
	e.log.Debug().Str("severity", s.String()).Msg("haptic pulse")
	return nil
}

func (e *LogEngine) PauseAmbient() error {
	e.log.Debug().Msg("ambient paused")
	return nil
}

func (e *LogEngine) ResumeAmbient() error {
	e.log.Debug().Msg("ambient resumed")
	return nil
}

func (e *LogEngine) SetAmbientLooping(loop bool) error {
	e.log.Debug().Bool("loop", loop).Msg("ambient looping")
	return nil
}

func (e *LogEngine) SetStatus(text string) error {
	e.log.Debug().Str("status", text).Msg("status")
	return nil
}

func (e *LogEngine) Celebrate() error {
	e.log.Debug().Msg("celebrate")
	return nil
}

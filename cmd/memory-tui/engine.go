package main

import (
	"github.com/gdamore/tcell/v2"

	"pokermoon/internal/feedback"
)

// uiEvent travels from the feedback goroutine to the event loop inside an
// EventInterrupt.
type uiEvent struct {
	kind  string
	value string
	err   error
}

// screenEngine is the terminal's feedback.Engine and feedback.Display. Everything it
// shows is posted to the event loop; only audio is played directly.
type screenEngine struct {
	screen tcell.Screen
	audio  *player
}

func (e *screenEngine) post(ev uiEvent) error {
	return e.screen.PostEvent(tcell.NewEventInterrupt(ev))
}

func (e *screenEngine) PlayCue(c feedback.Cue) error {
	if e.audio != nil {
		return e.audio.play(c)
	}
	if c == feedback.CueClick {
		return nil
	}
	return e.screen.Beep()
}

func (e *screenEngine) PulseHaptic(s feedback.Severity) error {
	return e.post(uiEvent{kind: "haptic", value: s.String()})
}

func (e *screenEngine) PauseAmbient() error {
	if e.audio != nil {
		e.audio.setPaused(true)
	}
	return e.post(uiEvent{kind: "ambient", value: "paused"})
}

func (e *screenEngine) ResumeAmbient() error {
	if e.audio != nil {
		e.audio.setPaused(false)
	}
	return e.post(uiEvent{kind: "ambient", value: "playing"})
}

func (e *screenEngine) SetAmbientLooping(loop bool) error {
	if e.audio != nil {
		e.audio.setLooping(loop)
	}
	return nil
}

func (e *screenEngine) SetStatus(text string) error {
	return e.post(uiEvent{kind: "status", value: text})
}

func (e *screenEngine) Celebrate() error {
	return e.post(uiEvent{kind: "celebrate"})
}

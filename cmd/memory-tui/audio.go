package main

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"pokermoon/internal/feedback"
	"pokermoon/internal/sound"
)

// player plays cues through the default audio device. The ambient pad is mixed in
// permanently and toggled through its Ctrl.
type player struct {
	pad     *beep.Buffer
	looped  beep.Streamer
	ambient *beep.Ctrl
}

func newPlayer() (*player, error) {
	if err := speaker.Init(sound.SampleRate, sound.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	s, err := sound.Streamer(feedback.CueAmbient)
	if err != nil {
		return nil, err
	}
	pad := beep.NewBuffer(sound.Format)
	pad.Append(s)
	looped, err := beep.Loop2(pad.Streamer(0, pad.Len()))
	if err != nil {
		return nil, fmt.Errorf("loop ambient: %w", err)
	}

	p := &player{
		pad:     pad,
		looped:  looped,
		ambient: &beep.Ctrl{Streamer: looped, Paused: true},
	}
	speaker.Play(p.ambient)
	return p, nil
}

func (p *player) play(c feedback.Cue) error {
	s, err := sound.Streamer(c)
	if err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (p *player) setPaused(paused bool) {
	speaker.Lock()
	p.ambient.Paused = paused
	speaker.Unlock()
}

func (p *player) setLooping(loop bool) {
	speaker.Lock()
	defer speaker.Unlock()
	if loop {
		p.ambient.Streamer = p.looped
		return
	}
	p.ambient.Streamer = p.pad.Streamer(0, p.pad.Len())
}

func (p *player) close() {
	speaker.Clear()
}

// Package sound synthesizes the game's cues and ambient loop and encodes them as WAV
// so any client can play them.
package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"pokermoon/internal/feedback"
)

const SampleRate = beep.SampleRate(44100)

// Format is the PCM layout of every rendered cue.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// note frequencies
const (
	noteC4 = 261.63
	noteE4 = 329.63
	noteG4 = 392.00
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
)

// Streamer returns a finite streamer for the cue.
func Streamer(c feedback.Cue) (beep.Streamer, error) {
	switch c {
	case feedback.CueClick:
		return beep.Take(SampleRate.N(120*time.Millisecond), newSweep(SampleRate, 600, 1800, 120*time.Millisecond)), nil
	case feedback.CueWin:
		return beep.Seq(
			pluck(noteC5, 110*time.Millisecond),
			pluck(noteE5, 110*time.Millisecond),
			pluck(noteG5, 110*time.Millisecond),
			pluck(noteC6, 320*time.Millisecond),
		), nil
	case feedback.CueLose:
		gap := beep.Silence(SampleRate.N(40 * time.Millisecond))
		return beep.Seq(
			pluck(noteG4, 160*time.Millisecond), gap,
			pluck(noteE4, 160*time.Millisecond), beep.Silence(SampleRate.N(40*time.Millisecond)),
			pluck(noteC4, 420*time.Millisecond),
		), nil
	case feedback.CueAmbient:
		return ambientPad(4 * time.Second)
	default:
		return nil, fmt.Errorf("no sound for cue %v", c)
	}
}

// ambientPad is a quiet major chord that loops cleanly because every partial completes
// whole cycles within d.
func ambientPad(d time.Duration) (beep.Streamer, error) {
	var voices []beep.Streamer
	for _, f := range []float64{noteC4, noteE4, noteG4} {
		// round to a frequency with an integer number of cycles in d
		cycles := math.Round(f * d.Seconds())
		tone, err := generators.SineTone(SampleRate, cycles/d.Seconds())
		if err != nil {
			return nil, fmt.Errorf("ambient voice %.2fHz: %w", f, err)
		}
		voices = append(voices, tone)
	}
	pad := &effects.Volume{Streamer: beep.Mix(voices...), Base: 2, Volume: -3.5}
	return beep.Take(SampleRate.N(d), pad), nil
}

// pluck is a sine note with a short attack and exponential decay.
func pluck(freq float64, d time.Duration) beep.Streamer {
	return beep.Take(SampleRate.N(d), &toneGenerator{sr: SampleRate, freq: freq, decay: 6 / d.Seconds()})
}

type toneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	decay float64
	pos   int
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		attack := math.Min(t/0.005, 1)
		v := 0.3 * attack * math.Exp(-g.decay*t) * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}

// sweepGenerator glides from one frequency to another, the "whoosh" of a click.
type sweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	samples  int
	pos      int
	phase    float64
}

func newSweep(sr beep.SampleRate, from, to float64, d time.Duration) *sweepGenerator {
	return &sweepGenerator{sr: sr, from: from, to: to, samples: sr.N(d)}
}

func (g *sweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		p := math.Min(float64(g.pos)/float64(g.samples), 1)
		freq := g.from + (g.to-g.from)*p
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		envelope := math.Sin(math.Pi * p)
		v := 0.2 * envelope * math.Sin(g.phase)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *sweepGenerator) Err() error {
	return nil
}

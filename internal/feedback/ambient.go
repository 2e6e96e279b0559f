package feedback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// ambient schedules pause/resume of the ambient track.
//
// Every pause or resume bumps gen and stops the pending timer, and a firing timer only
// resumes when gen still matches the value it was scheduled with. Engine calls happen
// under mu, so a pause can never interleave with a resume that already passed the check.
type ambient struct {
	engine Engine
	log    zerolog.Logger
	after  afterFunc

	mu     sync.Mutex
	gen    uint64
	timer  stopper
	closed bool
}

func newAmbient(engine Engine, log zerolog.Logger, after afterFunc) *ambient {
	return &ambient{engine: engine, log: log, after: after}
}

func (a *ambient) pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.cancelLocked()
	a.report("pause ambient", a.engine.PauseAmbient())
}

// resumeAfter resumes the ambient track after d, or right away when d <= 0.
func (a *ambient) resumeAfter(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.cancelLocked()
	if d <= 0 {
		a.report("resume ambient", a.engine.ResumeAmbient())
		return
	}

	gen := a.gen
	a.timer = a.after(d, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed || a.gen != gen {
			return
		}
		a.timer = nil
		a.report("resume ambient", a.engine.ResumeAmbient())
	})
}

// pending reports whether a delayed resume is outstanding.
func (a *ambient) pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

func (a *ambient) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked()
	a.closed = true
}

func (a *ambient) cancelLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *ambient) report(effect string, err error) {
	if err != nil {
		a.log.Warn().Err(err).Str("effect", effect).Msg("feedback effect failed")
	}
}

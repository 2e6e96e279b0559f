package feedback

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pokermoon/internal/round"
)

const (
	// DefaultResumeDelay is how long the ambient track stays paused after a round ends.
	DefaultResumeDelay = 2000 * time.Millisecond

	defaultQueueSize = 32
)

type job struct {
	outcome round.Outcome
	restart bool
}

// Sequencer runs the effects of each dispatched outcome in order on a single goroutine.
// Dispatch and Restart never block; when the queue is full the job is dropped and logged.
type Sequencer struct {
	engine      Engine
	display     Display
	log         zerolog.Logger
	resumeDelay time.Duration
	queueSize   int
	after       afterFunc

	amb   *ambient
	queue chan job
	stop  chan struct{}
	done  chan struct{}

	started   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithDisplay sets where status text and celebrations go.
func WithDisplay(d Display) Option {
	return func(s *Sequencer) {
		if d != nil {
			s.display = d
		}
	}
}

// WithLogger sets the sequencer's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sequencer) {
		s.log = l
	}
}

// WithResumeDelay overrides the ambient resume delay used after a win or loss.
func WithResumeDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		s.resumeDelay = d
	}
}

// WithQueueSize sets how many pending jobs may wait before new ones are dropped.
func WithQueueSize(n int) Option {
	return func(s *Sequencer) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

func withAfterFunc(f afterFunc) Option {
	return func(s *Sequencer) {
		s.after = f
	}
}

// New returns a sequencer driving engine. Call Start before dispatching.
func New(engine Engine, opts ...Option) *Sequencer {
	s := &Sequencer{
		engine:      engine,
		display:     nopDisplay{},
		log:         zerolog.Nop(),
		resumeDelay: DefaultResumeDelay,
		queueSize:   defaultQueueSize,
		after:       realAfterFunc,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = make(chan job, s.queueSize)
	s.amb = newAmbient(engine, s.log, s.after)
	return s
}

// Start loops the ambient track, starts it playing and launches the effect worker.
// Calling Start more than once has no further effect.
func (s *Sequencer) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		s.report("ambient looping", s.engine.SetAmbientLooping(true))
		s.amb.resumeAfter(0)
		go s.run()
	})
}

// Dispatch queues the effects for an outcome. It reports whether the job was accepted.
func (s *Sequencer) Dispatch(o round.Outcome) bool {
	return s.enqueue(job{outcome: o})
}

// Restart queues a manual round restart, which resumes the ambient track immediately
// and cancels any pending delayed resume.
func (s *Sequencer) Restart() bool {
	return s.enqueue(job{restart: true})
}

// Close stops the worker and cancels any pending ambient resume. Jobs still queued are
// discarded. Close waits for the worker to exit when it was started.
func (s *Sequencer) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.amb.close()
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Sequencer) enqueue(j job) bool {
	select {
	case <-s.stop:
		return false
	default:
	}
	select {
	case s.queue <- j:
		return true
	default:
		s.log.Warn().
			Str("outcome", j.outcome.Kind.String()).
			Bool("restart", j.restart).
			Msg("feedback queue full, dropping effects")
		return false
	}
}

func (s *Sequencer) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case j := <-s.queue:
			s.apply(j)
		}
	}
}

func (s *Sequencer) apply(j job) {
	if j.restart {
		s.amb.resumeAfter(0)
		return
	}

	o := j.outcome
	switch o.Kind {
	case round.Continue:
		s.report("click cue", s.engine.PlayCue(CueClick))
		s.report("light haptic", s.engine.PulseHaptic(HapticLight))
		s.report("status", s.display.SetStatus(StatusText(o)))

	case round.Lost:
		s.report("lose cue", s.engine.PlayCue(CueLose))
		s.report("error haptic", s.engine.PulseHaptic(HapticError))
		s.report("status", s.display.SetStatus(StatusText(o)))
		s.amb.pause()
		s.amb.resumeAfter(s.resumeDelay)

	case round.Won:
		s.report("win cue", s.engine.PlayCue(CueWin))
		s.report("success haptic", s.engine.PulseHaptic(HapticSuccess))
		s.report("celebrate", s.display.Celebrate())
		s.report("status", s.display.SetStatus(StatusText(o)))
		s.amb.pause()
		s.amb.resumeAfter(s.resumeDelay)
	}
}

func (s *Sequencer) report(effect string, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("effect", effect).Msg("feedback effect failed")
	}
}

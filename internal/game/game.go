// Package game owns one player's round. It is the single writer of the RoundState:
// taps are applied one at a time under its mutex, the provider fetch runs unlocked while
// the game reports itself as loading, and every outcome is handed to the feedback
// dispatcher in tap order.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pokermoon/internal/feedback"
	"pokermoon/internal/round"
	"pokermoon/internal/types"
)

var (
	// ErrLoading rejects input while a round is being fetched.
	ErrLoading = errors.New("round is loading")
	// ErrNotWon rejects a level advance before the current level is won.
	ErrNotWon = errors.New("level has not been won")
)

// Dispatcher receives outcomes and manual restarts for feedback. *feedback.Sequencer
// satisfies it.
type Dispatcher interface {
	Dispatch(round.Outcome) bool
	Restart() bool
}

type Game struct {
	ctrl *round.Controller
	seq  Dispatcher
	log  zerolog.Logger
	now  func() time.Time

	mu         sync.Mutex
	state      *round.RoundState
	message    string
	loading    bool
	lastErr    error
	lastActive time.Time
}

// Option configures a Game.
type Option func(*Game)

func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

// WithClock overrides time.Now for activity tracking.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// New returns an idle game at level 1. seq may be nil.
func New(ctrl *round.Controller, seq Dispatcher, opts ...Option) *Game {
	g := &Game{
		ctrl:    ctrl,
		seq:     seq,
		log:     zerolog.Nop(),
		now:     time.Now,
		state:   round.Idle(1),
		message: feedback.InitialStatus,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.lastActive = g.now()
	return g
}

// Start loads level 1 if no round has started yet. Calling it again is a no-op.
func (g *Game) Start(ctx context.Context) error {
	prev, err := g.begin(func(s *round.RoundState) error {
		if s.Status() != round.StatusIdle {
			return errStarted
		}
		return nil
	})
	if errors.Is(err, errStarted) {
		return nil
	}
	if err != nil {
		return err
	}
	next, err := g.ctrl.StartRound(ctx, prev.Level())
	return g.finish(next, err, feedback.InitialStatus)
}

var errStarted = errors.New("already started")

// Tap applies one tap and dispatches its outcome.
func (g *Game) Tap(id int) (round.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loading {
		return round.Outcome{}, ErrLoading
	}
	next, out, err := g.ctrl.Tap(g.state, id)
	if err != nil {
		return round.Outcome{}, err
	}
	g.state = next
	g.message = feedback.StatusText(out)
	g.lastActive = g.now()

	g.log.Debug().Int("item", id).Stringer("outcome", out.Kind).Int("score", out.Score).Int("level", out.Level).Msg("tap")
	if g.seq != nil && !g.seq.Dispatch(out) {
		g.log.Warn().Stringer("outcome", out.Kind).Msg("feedback dropped")
	}
	return out, nil
}

// Retry restarts the current level. It also recovers a round that failed to start.
func (g *Game) Retry(ctx context.Context) error {
	prev, err := g.begin(nil)
	if err != nil {
		return err
	}
	next, err := g.ctrl.Retry(ctx, prev)
	return g.finish(next, err, "")
}

// Advance starts the next level after a win.
func (g *Game) Advance(ctx context.Context) error {
	prev, err := g.begin(func(s *round.RoundState) error {
		if s.Status() != round.StatusWon {
			return ErrNotWon
		}
		return nil
	})
	if err != nil {
		return err
	}
	next, err := g.ctrl.AdvanceLevel(ctx, prev)
	return g.finish(next, err, "")
}

// NewGame goes back to level 1 and restarts the ambient track at once.
func (g *Game) NewGame(ctx context.Context) error {
	if _, err := g.begin(nil); err != nil {
		return err
	}
	next, err := g.ctrl.StartRound(ctx, 1)
	if err := g.finish(next, err, feedback.InitialStatus); err != nil {
		return err
	}
	if g.seq != nil {
		g.seq.Restart()
	}
	return nil
}

// View returns a snapshot for the presentation layer.
func (g *Game) View() types.RoundView {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := types.NewRoundView(g.state, g.message)
	v.Loading = g.loading
	if g.lastErr != nil {
		v.Error = g.lastErr.Error()
	}
	return v
}

// LastActive is the time of the last tap or round load.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// begin enters the loading phase and returns the state to restart from.
func (g *Game) begin(check func(*round.RoundState) error) (*round.RoundState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loading {
		return nil, ErrLoading
	}
	if check != nil {
		if err := check(g.state); err != nil {
			return nil, err
		}
	}
	g.loading = true
	g.lastErr = nil
	g.lastActive = g.now()
	return g.state, nil
}

// finish leaves the loading phase. On error the prior state stays in place.
func (g *Game) finish(next *round.RoundState, err error, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.loading = false
	g.lastActive = g.now()
	if err != nil {
		g.lastErr = err
		g.log.Warn().Err(err).Int("level", g.state.Level()).Msg("round failed to start")
		return err
	}
	g.state = next
	if message != "" {
		g.message = message
	}
	g.log.Info().Int("level", next.Level()).Int("items", next.Len()).Msg("round started")
	return nil
}

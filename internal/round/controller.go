package round

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ItemProvider supplies the pool of playable items for a round.
type ItemProvider interface {
	FetchItems(ctx context.Context, count int) ([]Item, error)
}

// Controller computes round transitions. It holds no game state of its own and may be
// shared by any number of games; only the random source is guarded.
type Controller struct {
	provider ItemProvider
	log      zerolog.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for reshuffling.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController returns a controller that draws items from provider.
func NewController(provider ItemProvider, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// StartRound fetches ItemCount(level) items and returns a fresh Playing state.
//
// A provider that returns fewer items than requested degrades the round to that many
// items. Duplicate ids are dropped and surplus items are cut. A provider failure, or no
// usable items at all, is reported as a *ProviderError.
func (c *Controller) StartRound(ctx context.Context, level int) (*RoundState, error) {
	idle := Idle(level)
	want := ItemCount(idle.level)

	items, err := c.provider.FetchItems(ctx, want)
	if err != nil {
		return nil, &ProviderError{Level: idle.level, Requested: want, Err: err}
	}

	items = lo.UniqBy(items, func(it Item) int { return it.ID })
	if len(items) > want {
		items = items[:want]
	}
	if len(items) == 0 {
		return nil, &ProviderError{Level: idle.level, Requested: want, Err: ErrNoItems}
	}
	if len(items) < want {
		c.log.Warn().
			Int("level", idle.level).
			Int("requested", want).
			Int("received", len(items)).
			Msg("provider returned fewer items than requested, round degraded")
	}

	c.log.Debug().Int("level", idle.level).Int("items", len(items)).Msg("round started")
	return idle.begin(items), nil
}

// Tap applies one tap to a Playing state and returns the next state with its Outcome.
//
// Tapping outside Playing returns ErrNotPlaying and an id outside the round returns
// ErrUnknownItem; in both cases no state is produced. The repeat check runs before the
// completion check, so a repeat always loses.
func (c *Controller) Tap(s *RoundState, id int) (*RoundState, Outcome, error) {
	if s == nil || s.status != StatusPlaying {
		return nil, Outcome{}, ErrNotPlaying
	}
	if !s.hasItem(id) {
		return nil, Outcome{}, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}

	if s.clicked.Has(id) {
		next := &RoundState{
			level:   s.level,
			score:   s.score,
			clicked: cloneSet(s.clicked),
			items:   s.items,
			status:  StatusLost,
		}
		return next, Outcome{Kind: Lost, Score: s.score, Level: s.level}, nil
	}

	clicked := cloneSet(s.clicked)
	clicked.Put(id)
	score := clicked.Size()

	if score >= len(s.items) {
		next := &RoundState{
			level:   s.level,
			score:   score,
			clicked: clicked,
			items:   s.items,
			status:  StatusWon,
		}
		return next, Outcome{Kind: Won, Score: score, Level: s.level, NewLevel: s.level + 1}, nil
	}

	next := &RoundState{
		level:   s.level,
		score:   score,
		clicked: clicked,
		items:   c.shuffle(s.items),
		status:  StatusPlaying,
	}
	return next, Outcome{Kind: Continue, Score: score, Level: s.level}, nil
}

// Retry starts the state's level again with fresh items. A nil state retries level 1.
func (c *Controller) Retry(ctx context.Context, s *RoundState) (*RoundState, error) {
	level := 1
	if s != nil {
		level = s.level
	}
	return c.StartRound(ctx, level)
}

// AdvanceLevel starts the next level. A nil state starts level 1.
func (c *Controller) AdvanceLevel(ctx context.Context, s *RoundState) (*RoundState, error) {
	level := 1
	if s != nil {
		level = s.level + 1
	}
	return c.StartRound(ctx, level)
}

func (c *Controller) shuffle(items []Item) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Shuffle(items, c.rng)
}


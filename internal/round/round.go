// Package round implements the round state machine of the memory game: level sizing,
// the tap transition, retries, level advances and the between-tap reshuffle.
//
// A RoundState is never mutated after it is returned. Every transition produces a new
// value, so a caller holding an older state (or an older item slice) never observes
// a later change.
package round

import (
	"slices"

	"github.com/samber/lo"
	"github.com/zyedidia/generic/mapset"
)

// Level sizing: level L plays with BaseCount + StepSize*(L-1) items.
const (
	BaseCount = 6
	StepSize  = 3
)

// ItemCount returns how many items a round at the given level asks the provider for.
// Levels below 1 are treated as level 1.
func ItemCount(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseCount + StepSize*(level-1)
}

// Item is one playable tile. IDs are unique within a round.
type Item struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
	Image       string `json:"image"`
}

// Status is the lifecycle position of a round.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// RoundState is an immutable snapshot of one round.
type RoundState struct {
	level   int
	score   int
	clicked mapset.Set[int]
	items   []Item
	status  Status
}

// Idle returns the initial, not yet started state for a level.
func Idle(level int) *RoundState {
	if level < 1 {
		level = 1
	}
	return &RoundState{
		level:   level,
		clicked: mapset.New[int](),
		status:  StatusIdle,
	}
}

// begin moves an idle state into play with a fresh item set.
func (s *RoundState) begin(items []Item) *RoundState {
	return &RoundState{
		level:   s.level,
		score:   0,
		clicked: mapset.New[int](),
		items:   items,
		status:  StatusPlaying,
	}
}

func (s *RoundState) Level() int     { return s.level }
func (s *RoundState) Score() int     { return s.score }
func (s *RoundState) Status() Status { return s.status }
func (s *RoundState) Len() int       { return len(s.items) }

// Items returns the round's items in their current display order. The slice is a copy.
func (s *RoundState) Items() []Item {
	return slices.Clone(s.items)
}

// Clicked reports whether the item has already been tapped this round.
func (s *RoundState) Clicked(id int) bool {
	return s.clicked.Has(id)
}

// ClickedCount returns the size of the clicked set.
func (s *RoundState) ClickedCount() int {
	return s.clicked.Size()
}

// ClickedIDs returns the clicked ids in ascending order.
func (s *RoundState) ClickedIDs() []int {
	ids := make([]int, 0, s.clicked.Size())
	s.clicked.Each(func(id int) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}

func (s *RoundState) hasItem(id int) bool {
	return lo.ContainsBy(s.items, func(it Item) bool { return it.ID == id })
}

func cloneSet(src mapset.Set[int]) mapset.Set[int] {
	dst := mapset.New[int]()
	src.Each(func(id int) {
		dst.Put(id)
	})
	return dst
}

// OutcomeKind classifies the result of a single tap.
type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Lost
	Won
)

func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Outcome is what one tap did. Score is the new score for Continue and the final
// score for Lost and Won. NewLevel is only set for Won.
type Outcome struct {
	Kind     OutcomeKind
	Score    int
	Level    int
	NewLevel int
}

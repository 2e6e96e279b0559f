package round

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPlaying is returned when Tap is called on a round that is not in play.
	// The state is left untouched; this is a UI synchronization bug, not a game event.
	ErrNotPlaying = errors.New("round is not playing")

	// ErrUnknownItem is returned when a tap names an id outside the round's items.
	ErrUnknownItem = errors.New("item is not part of this round")

	// ErrNoItems is wrapped in a ProviderError when the provider returned nothing usable.
	ErrNoItems = errors.New("provider returned no items")
)

// ProviderError reports that a round could not start because the item provider failed.
// It is retryable; the caller keeps whatever state it had before.
type ProviderError struct {
	Level     int
	Requested int
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("start level %d: fetch %d items: %v", e.Level, e.Requested, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

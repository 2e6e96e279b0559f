package feedback

import (
	"fmt"

	"pokermoon/internal/round"
)

// InitialStatus is shown before the first tap of a fresh game.
const InitialStatus = "Click any image to start playing!"

// StatusText is the status line for an outcome.
func StatusText(o round.Outcome) string {
	switch o.Kind {
	case round.Lost:
		return fmt.Sprintf("GAME OVER! Your score is %d. Try level %d again.", o.Score, o.Level)
	case round.Won:
		return fmt.Sprintf("YOU WON! Your score is %d. Leveling up to %d!", o.Score, o.Level+1)
	default:
		return fmt.Sprintf("Keep going! Score: %d", o.Score)
	}
}

package types

import (
	"strings"

	"github.com/samber/lo"

	"pokermoon/internal/round"
)

// ItemView is one tile as the presentation layer draws it.
type ItemView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// RoundView is a read-only projection of a player's round.
type RoundView struct {
	Level     int        `json:"level"`
	Score     int        `json:"score"`
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Alert     bool       `json:"alert"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
	ItemCount int        `json:"itemCount"`
	Items     []ItemView `json:"items"`
}

// NewRoundView projects s in its current (shuffled) order. A nil state renders as idle level 1.
func NewRoundView(s *round.RoundState, message string) RoundView {
	if s == nil {
		s = round.Idle(1)
	}
	items := lo.Map(s.Items(), func(it round.Item, _ int) ItemView {
		return ItemView{ID: it.ID, Name: it.DisplayName, Image: it.Image}
	})
	return RoundView{
		Level:     s.Level(),
		Score:     s.Score(),
		Status:    s.Status().String(),
		Message:   message,
		Alert:     strings.Contains(message, "GAME OVER"),
		ItemCount: s.Len(),
		Items:     items,
	}
}

// Playing reports whether taps are accepted.
func (v RoundView) Playing() bool {
	return !v.Loading && v.Status == round.StatusPlaying.String()
}

func (v RoundView) Won() bool  { return v.Status == round.StatusWon.String() }
func (v RoundView) Lost() bool { return v.Status == round.StatusLost.String() }

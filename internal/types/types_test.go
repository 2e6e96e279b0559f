package types

import (
	"testing"

	"pokermoon/internal/round"
)

func TestNewRoundViewNil(t *testing.T) {
	v := NewRoundView(nil, "hello")
	if v.Level != 1 || v.Status != "idle" || v.ItemCount != 0 || len(v.Items) != 0 {
		t.Errorf("view = %+v, want idle level 1", v)
	}
	if v.Playing() || v.Won() || v.Lost() {
		t.Error("idle view should not be playing, won or lost")
	}
}

func TestAlertOnGameOver(t *testing.T) {
	tests := []struct {
		msg   string
		alert bool
	}{
		{"GAME OVER! Your score is 3. Try level 1 again.", true},
		{"YOU WON! Your score is 6. Leveling up to 2!", false},
		{"Keep going! Score: 2", false},
	}
	for _, tt := range tests {
		if got := NewRoundView(round.Idle(1), tt.msg).Alert; got != tt.alert {
			t.Errorf("Alert(%q) = %v, want %v", tt.msg, got, tt.alert)
		}
	}
}

func TestPlayingIsFalseWhileLoading(t *testing.T) {
	v := RoundView{Status: "playing"}
	if !v.Playing() {
		t.Fatal("expected playing")
	}
	v.Loading = true
	if v.Playing() {
		t.Error("a loading view should not accept taps")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"pokermoon/internal/game"
	"pokermoon/internal/round"
	"pokermoon/internal/types"
)

const (
	columns      = 3
	cellWidth    = 24
	gridTop      = 5
	flashFor     = 180 * time.Millisecond
	celebrateFor = 1500 * time.Millisecond
	helpLine     = "arrows/1-9 select  enter tap  r retry  n next level  N new game  q quit"
)

var (
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleAlert  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWin    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor = tcell.StyleDefault.Reverse(true)
)

var hapticColors = map[string]tcell.Color{
	"light":   tcell.ColorBlue,
	"success": tcell.ColorGreen,
	"error":   tcell.ColorRed,
}

// ui owns the screen. All fields are touched only from the event loop.
type ui struct {
	ctx    context.Context
	screen tcell.Screen
	game   *game.Game
	log    zerolog.Logger

	cursor    int
	ambient   string
	err       string
	flash     tcell.Color
	flashEnd  time.Time
	celebrate time.Time
}

func newUI(ctx context.Context, screen tcell.Screen, g *game.Game, log zerolog.Logger) *ui {
	return &ui{ctx: ctx, screen: screen, game: g, log: log, ambient: "paused"}
}

// run draws and handles events until the player quits or the screen is finalized.
func (u *ui) run() {
	u.spawn("start", u.game.Start)
	u.draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if u.handleKey(ev) {
				return
			}
		case *tcell.EventInterrupt:
			if e, ok := ev.Data().(uiEvent); ok {
				u.apply(e)
			}
		}
		u.draw()
	}
}

// handleKey reacts to one key press and reports whether the player quit.
func (u *ui) handleKey(ev *tcell.EventKey) bool {
	view := u.game.View()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		u.move(view, -1)
	case tcell.KeyRight:
		u.move(view, 1)
	case tcell.KeyUp:
		u.move(view, -columns)
	case tcell.KeyDown:
		u.move(view, columns)
	case tcell.KeyEnter:
		u.tap(view, u.cursor)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return true
		case r == ' ':
			u.tap(view, u.cursor)
		case r >= '1' && r <= '9':
			u.cursor = int(r - '1')
			u.tap(view, u.cursor)
		case r == 'r':
			u.spawn("retry", u.game.Retry)
		case r == 'n':
			u.spawn("advance", u.game.Advance)
		case r == 'N':
			u.spawn("new game", u.game.NewGame)
		}
	}
	return false
}

func (u *ui) move(view types.RoundView, delta int) {
	if len(view.Items) == 0 {
		return
	}
	u.cursor = min(max(u.cursor+delta, 0), len(view.Items)-1)
}

func (u *ui) tap(view types.RoundView, idx int) {
	if idx < 0 || idx >= len(view.Items) {
		return
	}
	u.err = ""
	if _, err := u.game.Tap(view.Items[idx].ID); err != nil {
		u.err = describe(err)
	}
}

// spawn runs a round load off the event loop and posts its result back.
func (u *ui) spawn(name string, fn func(context.Context) error) {
	u.err = ""
	go func() {
		err := fn(u.ctx)
		if err != nil {
			u.log.Warn().Err(err).Str("action", name).Msg("action failed")
		}
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(uiEvent{kind: "done", value: name, err: err}))
	}()
}

func (u *ui) apply(e uiEvent) {
	now := time.Now()
	switch e.kind {
	case "haptic":
		u.flash = hapticColors[e.value]
		u.flashEnd = now.Add(flashFor)
		u.redrawAt(flashFor)
	case "celebrate":
		u.celebrate = now.Add(celebrateFor)
		u.redrawAt(celebrateFor)
	case "ambient":
		u.ambient = e.value
	case "done":
		if e.err != nil {
			u.err = describe(e.err)
		} else {
			u.cursor = 0
		}
	}
}

func (u *ui) redrawAt(d time.Duration) {
	time.AfterFunc(d+10*time.Millisecond, func() {
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(uiEvent{kind: "tick"}))
	})
}

func describe(err error) string {
	var perr *round.ProviderError
	switch {
	case errors.Is(err, round.ErrNotPlaying):
		return "The round is over. Press r to retry or n for the next level."
	case errors.Is(err, game.ErrNotWon):
		return "Win the round before moving on."
	case errors.Is(err, game.ErrLoading):
		return "Still loading..."
	case errors.As(err, &perr):
		return "Could not load items. Press r to try again."
	default:
		return err.Error()
	}
}

func (u *ui) draw() {
	now := time.Now()
	view := u.game.View()
	s := u.screen
	s.Clear()
	w, h := s.Size()

	header := fmt.Sprintf("Level %d   Score %d / %d   Ambient %s", view.Level, view.Score, view.ItemCount, u.ambient)
	drawText(s, 2, 1, styleTitle, header)

	status := styleTitle
	if view.Alert {
		status = styleAlert
	}
	drawText(s, 2, 2, status, view.Message)
	if now.Before(u.celebrate) {
		drawText(s, 2, 3, styleWin, "*  *  *  Level cleared!  *  *  *")
	}
	switch {
	case view.Loading:
		drawText(s, 2, 3, styleDim, "Loading...")
	case u.err != "":
		drawText(s, 2, 3, styleAlert, u.err)
	case view.Error != "":
		drawText(s, 2, 3, styleAlert, describe(errors.New(view.Error)))
	}

	for i, it := range view.Items {
		x := 2 + (i%columns)*cellWidth
		y := gridTop + (i/columns)*2
		style := tcell.StyleDefault
		if !view.Playing() {
			style = styleDim
		}
		if i == u.cursor {
			style = styleCursor
		}
		label := it.Name
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, it.Name)
		}
		drawText(s, x, y, style, fmt.Sprintf("[ %-*s ]", cellWidth-5, label))
	}

	drawText(s, 2, h-2, styleDim, helpLine)
	if now.Before(u.flashEnd) {
		drawBorder(s, w, h, tcell.StyleDefault.Foreground(u.flash))
	}
	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawBorder(s tcell.Screen, w, h int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, 0, tcell.RuneHLine, nil, style)
		s.SetContent(x, h-1, tcell.RuneHLine, nil, style)
	}
	for y := 0; y < h; y++ {
		s.SetContent(0, y, tcell.RuneVLine, nil, style)
		s.SetContent(w-1, y, tcell.RuneVLine, nil, style)
	}
}

package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pokermoon/internal/feedback"
	"pokermoon/internal/game"
	"pokermoon/internal/round"
	"pokermoon/internal/sound"
)

// App holds the server's shared state.
type App struct {
	Config       Config
	IsProduction bool
	StartTime    time.Time
	CookieMaxAge time.Duration

	Controller *round.Controller
	Sounds     *sound.Library

	Sessions     map[string]*Session
	SessionMutex sync.RWMutex

	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
	RateLimitRPS   int
	RateLimitBurst int
}

// Session is one browser's game plus its feedback pipeline.
type Session struct {
	ID   string
	Game *game.Game

	seq *feedback.Sequencer
	hub *hub
}

// close stops the session's feedback and drops its websocket subscribers.
func (s *Session) close() {
	s.seq.Close()
	s.hub.close()
}

// newApp wires the shared controller and sound library for cfg.
func newApp(cfg Config, ctrl *round.Controller, sounds *sound.Library) *App {
	return &App{
		Config:         cfg,
		IsProduction:   cfg.IsProduction(),
		StartTime:      time.Now(),
		CookieMaxAge:   cfg.CookieMaxAge,
		Controller:     ctrl,
		Sounds:         sounds,
		Sessions:       make(map[string]*Session),
		LimiterMap:     make(map[string]*rate.Limiter),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
}

// Command memory-tui plays the memory game in a terminal, with the same round rules
// and feedback sequencing as the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"pokermoon/internal/catalog"
	"pokermoon/internal/feedback"
	"pokermoon/internal/game"
	"pokermoon/internal/round"
)

func main() {
	var (
		source      = flag.String("catalog", "static", "Item source: static or remote")
		catalogURL  = flag.String("url", catalog.DefaultBaseURL, "Listing endpoint for the remote catalog")
		resumeDelay = flag.Duration("resume-delay", 2*time.Second, "Ambient resume delay after a round ends")
		mute        = flag.Bool("mute", false, "Disable audio and fall back to the terminal bell")
		logPath     = flag.String("log", "", "Write logs to this file")
	)
	flag.Parse()

	if err := run(*source, *catalogURL, *resumeDelay, *mute, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(source, catalogURL string, resumeDelay time.Duration, mute bool, logPath string) error {
	log := zerolog.Nop()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Logger()
	}

	var provider round.ItemProvider
	switch source {
	case "static":
		provider = catalog.NewStatic(nil, "")
	case "remote":
		provider = catalog.NewRemote(catalog.RemoteConfig{
			BaseURL: catalogURL,
			Logger:  log.With().Str("component", "catalog").Logger(),
		})
	default:
		return fmt.Errorf("unknown catalog %q (want static or remote)", source)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	engine := &screenEngine{screen: screen}
	if !mute {
		if p, err := newPlayer(); err != nil {
			// the bell still works without an audio device
			log.Warn().Err(err).Msg("audio unavailable")
		} else {
			engine.audio = p
			defer p.close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, seq := newSession(provider, engine, resumeDelay, log)
	defer seq.Close()

	newUI(ctx, screen, g, log).run()
	return nil
}

// newSession wires one game to a started feedback sequencer driving engine.
func newSession(p round.ItemProvider, engine *screenEngine, resumeDelay time.Duration, log zerolog.Logger) (*game.Game, *feedback.Sequencer) {
	ctrl := round.NewController(p, round.WithLogger(log.With().Str("component", "round").Logger()))
	seq := feedback.New(engine,
		feedback.WithDisplay(engine),
		feedback.WithLogger(log.With().Str("component", "feedback").Logger()),
		feedback.WithResumeDelay(resumeDelay),
	)
	seq.Start()
	return game.New(ctrl, seq, game.WithLogger(log)), seq
}

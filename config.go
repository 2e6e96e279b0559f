package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"pokermoon/internal/catalog"
	"pokermoon/internal/round"
)

// Config is read from the environment (and an optional .env file).
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Env            string        `env:"ENV"`
	GinMode        string        `env:"GIN_MODE"`
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"2h"`
	CookieMaxAge   time.Duration `env:"COOKIE_MAX_AGE" envDefault:"2h"`
	StaticCacheAge time.Duration `env:"STATIC_CACHE_AGE" envDefault:"5m"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`

	CatalogSource   string        `env:"CATALOG_SOURCE" envDefault:"remote"`
	CatalogURL      string        `env:"CATALOG_URL" envDefault:"https://pokeapi.co/api/v2/pokemon/"`
	CatalogOffset   int           `env:"CATALOG_OFFSET" envDefault:"20"`
	CatalogTimeout  time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogMaxTries uint          `env:"CATALOG_MAX_TRIES" envDefault:"3"`
	ArtworkURL      string        `env:"ARTWORK_URL" envDefault:"https://img.pokemondb.net/artwork/{name}.jpg"`

	AmbientResumeDelay time.Duration `env:"AMBIENT_RESUME_DELAY" envDefault:"2s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"json"`
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.GinMode == "release" || c.Env == "production"
}

// loadConfig loads .env if present, then parses the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.CatalogSource {
	case catalogRemote, catalogStatic:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", catalogRemote, catalogStatic, c.CatalogSource)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.AmbientResumeDelay < 0 {
		return fmt.Errorf("AMBIENT_RESUME_DELAY must not be negative, got %v", c.AmbientResumeDelay)
	}
	return nil
}

// newProvider builds the item provider selected by CATALOG_SOURCE.
func (c Config) newProvider() round.ItemProvider {
	if c.CatalogSource == catalogStatic {
		return catalog.NewStatic(nil, c.ArtworkURL)
	}
	return catalog.NewRemote(catalog.RemoteConfig{
		BaseURL:    c.CatalogURL,
		Offset:     c.CatalogOffset,
		ArtworkURL: c.ArtworkURL,
		Timeout:    c.CatalogTimeout,
		MaxTries:   c.CatalogMaxTries,
		Logger:     logger.With().Str("component", "catalog").Logger(),
	})
}

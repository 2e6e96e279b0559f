package main

import (
	"strings"
	"testing"
	"time"

	"pokermoon/internal/catalog"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTimeout != 2*time.Hour || cfg.CookieMaxAge != 2*time.Hour {
		t.Errorf("session timeout %v, cookie max age %v", cfg.SessionTimeout, cfg.CookieMaxAge)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %d/%d, want 5/10", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.CatalogSource != catalogRemote || cfg.CatalogOffset != 20 || cfg.CatalogMaxTries != 3 {
		t.Errorf("catalog config = %+v", cfg)
	}
	if cfg.AmbientResumeDelay != 2*time.Second {
		t.Errorf("AmbientResumeDelay = %v, want 2s", cfg.AmbientResumeDelay)
	}
	if !strings.Contains(cfg.ArtworkURL, "{name}") {
		t.Errorf("ArtworkURL = %q should carry a {name} placeholder", cfg.ArtworkURL)
	}
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("CATALOG_SOURCE", "static")
	t.Setenv("AMBIENT_RESUME_DELAY", "500ms")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.SessionTimeout != 30*time.Minute || cfg.RateLimitBurst != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.CatalogSource != catalogStatic || cfg.AmbientResumeDelay != 500*time.Millisecond {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Error("GIN_MODE=release should mean production")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{"SESSION_TIMEOUT", "soon", "parse env"},
		{"RATE_LIMIT_RPS", "many", "parse env"},
		{"CATALOG_SOURCE", "ftp", "CATALOG_SOURCE"},
		{"RATE_LIMIT_BURST", "0", "RATE_LIMIT_BURST"},
		{"AMBIENT_RESUME_DELAY", "-1s", "AMBIENT_RESUME_DELAY"},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			_, err := loadConfig()
			if err == nil {
				t.Fatalf("expected an error for %s=%s", c.key, c.value)
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q should mention %q", err, c.want)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	cfg := testConfig()
	if _, ok := cfg.newProvider().(*catalog.Static); !ok {
		t.Errorf("static source built %T", cfg.newProvider())
	}
	cfg.CatalogSource = catalogRemote
	cfg.CatalogURL = "http://127.0.0.1:0/"
	if _, ok := cfg.newProvider().(*catalog.Remote); !ok {
		t.Errorf("remote source built %T", cfg.newProvider())
	}
}

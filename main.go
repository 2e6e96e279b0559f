package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"pokermoon/internal/round"
	"pokermoon/internal/sound"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger = setupLogging("info", "console", os.Stderr)
		logFatal("Invalid configuration: %v", err)
	}
	logger = setupLogging(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	isProduction := cfg.IsProduction()
	logInfo("Starting Pokermoon in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctrl := round.NewController(cfg.newProvider(), round.WithLogger(logger.With().Str("component", "round").Logger()))
	logInfo("Catalog source: %s", cfg.CatalogSource)

	sounds := sound.NewLibrary()
	if err := sounds.Preload(); err != nil {
		logFatal("Failed to synthesize sounds: %v", err)
	}

	app := newApp(cfg, ctrl, sounds)
	router := app.setupRouter()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go app.runSessionSweeper(ctx, sweepInterval)

	app.startServer(router)
	stop()
	app.closeSessions()
}

// setupRouter builds the gin engine with middleware, templates and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware())

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".wav"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts", "/sounds", RouteWS})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(func(c *gin.Context) {
		app.applyCacheHeaders(c)
	})

	router.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	})
	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteState, app.stateHandler)
	router.POST(RouteTap, app.rateLimitMiddleware(), app.tapHandler)
	router.POST(RouteRetry, app.rateLimitMiddleware(), app.retryHandler)
	router.POST(RouteAdvance, app.rateLimitMiddleware(), app.advanceHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.GET(RouteWS, app.wsHandler)
	router.GET(RouteSound, app.soundHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

func (app *App) startServer(router *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Config.Port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

// applyCacheHeaders lets static assets be cached in production and disables caching elsewhere.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.Config.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

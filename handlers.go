package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"pokermoon/internal/feedback"
	"pokermoon/internal/game"
	"pokermoon/internal/round"
)

var (
	errBadItemID = errors.New(ErrorBadItemID)
	errNoSession = errors.New(ErrorNoSession)
)

// homeHandler renders the main game page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	sess := app.getSession(c)
	app.ensureStarted(c, sess)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": pageTitle,
		"view":  sess.Game.View(),
	})
}

// stateHandler returns the current round as JSON or as the game-content fragment.
func (app *App) stateHandler(c *gin.Context) {
	sess := app.getSession(c)
	app.ensureStarted(c, sess)
	app.render(c, sess, "")
}

// tapHandler applies one tap to the session's round.
func (app *App) tapHandler(c *gin.Context) {
	sess := app.getSession(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		app.renderError(c, sess, errBadItemID)
		return
	}

	out, err := sess.Game.Tap(id)
	if err != nil {
		app.renderError(c, sess, err)
		return
	}
	app.render(c, sess, out.Kind.String())
}

// retryHandler restarts the current level with fresh items.
func (app *App) retryHandler(c *gin.Context) {
	sess := app.getSession(c)
	if err := sess.Game.Retry(c.Request.Context()); err != nil {
		app.renderError(c, sess, err)
		return
	}
	app.render(c, sess, "round-started")
}

// advanceHandler starts the next level after a win.
func (app *App) advanceHandler(c *gin.Context) {
	sess := app.getSession(c)
	if err := sess.Game.Advance(c.Request.Context()); err != nil {
		app.renderError(c, sess, err)
		return
	}
	app.render(c, sess, "round-started")
}

// newGameHandler returns the session to level 1, optionally rotating the session ID.
func (app *App) newGameHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	if c.Query("reset") == "1" {
		app.dropSession(sessionID)
		sessionID = app.issueSessionCookie(c)
		logInfo("Created new session ID: %s", sessionID)
	}
	sess := app.sessionByID(sessionID)

	if err := sess.Game.NewGame(c.Request.Context()); err != nil {
		app.renderError(c, sess, err)
		return
	}
	app.render(c, sess, "new-game")
}

// wsHandler streams the session's feedback events until the client goes away. The
// session must already exist.
func (app *App) wsHandler(c *gin.Context) {
	sess, err := app.lookupSession(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logWarn("[request_id=%v] Websocket upgrade failed: %v", requestID(c), err)
		return
	}
	client, err := sess.hub.subscribe(conn)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer sess.hub.unsubscribe(client)

	go client.writePump()
	client.readPump()
}

// soundHandler serves a synthesized cue as WAV.
func (app *App) soundHandler(c *gin.Context) {
	cue, ok := feedback.ParseCue(strings.TrimSuffix(c.Param("cue"), ".wav"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorUnknownCue})
		return
	}
	b, err := app.Sounds.WAV(cue)
	if err != nil {
		logWarn("[request_id=%v] Rendering %s failed: %v", requestID(c), cue, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	cachecontrol.New(cachecontrol.Config{
		Public: true,
		MaxAge: cachecontrol.Duration(app.Config.StaticCacheAge),
	})(c)
	c.Data(http.StatusOK, "audio/wav", b)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	app.SessionMutex.RLock()
	sessions := len(app.Sessions)
	app.SessionMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"catalog":   app.Config.CatalogSource,
		"sessions":  sessions,
		"uptime":    formatUptime(uptime),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ensureStarted loads the first round of a fresh session. A failure stays visible in the view.
func (app *App) ensureStarted(c *gin.Context, sess *Session) {
	err := sess.Game.Start(c.Request.Context())
	if err != nil && !errors.Is(err, game.ErrLoading) {
		logWarn("[request_id=%v] First round failed for session %s: %v", requestID(c), sess.ID, err)
	}
}

// render answers with the session's view: a fragment for HTMX, a redirect for plain
// form posts and JSON otherwise.
func (app *App) render(c *gin.Context, sess *Session, trigger string) {
	view := sess.Game.View()
	switch {
	case isHTMX(c):
		if trigger != "" {
			c.Header("HX-Trigger", trigger)
		}
		c.HTML(http.StatusOK, "game-content", gin.H{"view": view})
	case wantsHTML(c) && c.Request.Method == http.MethodPost:
		c.Redirect(http.StatusSeeOther, RouteHome)
	case wantsHTML(c):
		c.HTML(http.StatusOK, "game-content", gin.H{"view": view})
	default:
		c.JSON(http.StatusOK, view)
	}
}

// renderError reports err. HTMX gets the unchanged fragment plus a server_error trigger.
func (app *App) renderError(c *gin.Context, sess *Session, err error) {
	status := statusForError(err)
	msg := errorMessage(err)
	view := sess.Game.View()

	switch {
	case isHTMX(c):
		if b, jerr := json.Marshal(map[string]string{"server_error": msg}); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
		c.HTML(http.StatusOK, "game-content", gin.H{"view": view, "error": msg})
	case wantsHTML(c) && c.Request.Method == http.MethodPost:
		c.Redirect(http.StatusSeeOther, RouteHome)
	default:
		c.JSON(status, gin.H{"error": msg, "state": view})
	}
}

// statusForError maps game errors to HTTP status codes.
func statusForError(err error) int {
	var perr *round.ProviderError
	switch {
	case errors.Is(err, errBadItemID):
		return http.StatusBadRequest
	case errors.Is(err, round.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, round.ErrNotPlaying), errors.Is(err, game.ErrLoading), errors.Is(err, game.ErrNotWon):
		return http.StatusConflict
	case errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var perr *round.ProviderError
	if errors.As(err, &perr) {
		return ErrorCatalogFetch
	}
	return err.Error()
}

func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Request.Context().Value(requestIDKey).(string)
	return reqID
}

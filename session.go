package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pokermoon/internal/feedback"
	"pokermoon/internal/game"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = app.issueSessionCookie(c)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// issueSessionCookie sets a fresh session cookie and returns its ID.
func (app *App) issueSessionCookie(c *gin.Context) string {
	sessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
	return sessionID
}

// getSession returns the session for the request's cookie, creating it if needed.
func (app *App) getSession(c *gin.Context) *Session {
	return app.sessionByID(app.getOrCreateSession(c))
}

// lookupSession returns the request's existing session without creating one.
func (app *App) lookupSession(c *gin.Context) (*Session, error) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil {
		return nil, errNoSession
	}
	app.SessionMutex.RLock()
	sess, ok := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if !ok {
		return nil, errNoSession
	}
	return sess, nil
}

// sessionByID returns the session with the given ID, creating it if needed.
func (app *App) sessionByID(sessionID string) *Session {
	app.SessionMutex.RLock()
	sess, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		return sess
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if sess, exists := app.Sessions[sessionID]; exists {
		return sess
	}
	sess = app.newSession(sessionID)
	app.Sessions[sessionID] = sess
	logInfo("Started game for session: %s", sessionID)
	return sess
}

func (app *App) newSession(id string) *Session {
	log := logger.With().Str("session", id).Logger()
	h := newHub(log)
	seq := feedback.New(h,
		feedback.WithDisplay(h),
		feedback.WithLogger(log),
		feedback.WithResumeDelay(app.Config.AmbientResumeDelay),
	)
	seq.Start()
	return &Session{
		ID:   id,
		Game: game.New(app.Controller, seq, game.WithLogger(log)),
		seq:  seq,
		hub:  h,
	}
}

// dropSession removes a session and stops its feedback.
func (app *App) dropSession(id string) {
	app.SessionMutex.Lock()
	sess, ok := app.Sessions[id]
	delete(app.Sessions, id)
	app.SessionMutex.Unlock()
	if ok {
		sess.close()
		logInfo("Cleared session data for: %s", id)
	}
}

// sweepSessions drops sessions idle for longer than the session timeout.
func (app *App) sweepSessions(now time.Time) int {
	app.SessionMutex.Lock()
	var stale []*Session
	for id, sess := range app.Sessions {
		if now.Sub(sess.Game.LastActive()) > app.Config.SessionTimeout {
			stale = append(stale, sess)
			delete(app.Sessions, id)
		}
	}
	app.SessionMutex.Unlock()

	for _, sess := range stale {
		sess.close()
	}
	if len(stale) > 0 {
		logInfo("Swept %d idle session%s", len(stale), plural(len(stale)))
	}
	return len(stale)
}

// runSessionSweeper sweeps idle sessions until ctx is done.
func (app *App) runSessionSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.sweepSessions(now)
		}
	}
}

// closeSessions stops every session on shutdown.
func (app *App) closeSessions() {
	app.SessionMutex.Lock()
	sessions := app.Sessions
	app.Sessions = make(map[string]*Session)
	app.SessionMutex.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

package main

import "time"

// Session configuration constants
const (
	SessionCookieName = "session_id"
	sweepInterval     = time.Minute
)

// Catalog sources
const (
	catalogRemote = "remote"
	catalogStatic = "static"
)

// Route constants
const (
	RouteHome    = "/"
	RouteState   = "/state"
	RouteTap     = "/tap/:id"
	RouteRetry   = "/retry"
	RouteAdvance = "/advance"
	RouteNewGame = "/new-game"
	RouteWS      = "/ws"
	RouteSound   = "/sounds/:cue"
	RouteHealthz = "/healthz"
)

const pageTitle = "Pokermoon - Don't Click Twice"

// Error message constants
const (
	ErrorBadItemID    = "Item id must be a number."
	ErrorUnknownCue   = "Unknown sound."
	ErrorRateLimited  = "Too many requests. Please slow down."
	ErrorCatalogFetch = "Could not load new images. Try again."
	ErrorNoSession    = "No game session. Load the page first."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string

package main

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pokermoon/internal/feedback"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 120 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSendBuffer = 16
)

var errHubClosed = errors.New("feedback hub closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// feedbackEvent is one message on the /ws stream.
type feedbackEvent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// hub fans a session's feedback out to its websocket clients. It is the session's
// feedback.Engine and feedback.Display: the browser plays what it is told.
type hub struct {
	log      zerolog.Logger
	detached *feedback.LogEngine

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	ambient string
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newHub(log zerolog.Logger) *hub {
	return &hub{
		log:      log,
		detached: feedback.NewLogEngine(log),
		clients:  make(map[*wsClient]struct{}),
		ambient: "pause",
	}
}

// subscribe registers conn and primes it with the current ambient state.
func (h *hub) subscribe(conn *websocket.Conn) (*wsClient, error) {
	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, errHubClosed
	}
	h.clients[c] = struct{}{}
	if b, err := json.Marshal(feedbackEvent{Type: "ambient", Value: h.ambient}); err == nil {
		c.send <- b
	}
	return c, nil
}

func (h *hub) unsubscribe(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.stop()
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.stop()
		delete(h.clients, c)
	}
}

// broadcast queues ev for every client. A client whose buffer is full misses the event.
// With no client attached, offline records the effect instead.
func (h *hub) broadcast(ev feedbackEvent, offline func() error) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errHubClosed
	}
	if ev.Type == "ambient" && (ev.Value == "pause" || ev.Value == "resume") {
		h.ambient = ev.Value
	}
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return offline()
	}
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warn().Str("event", ev.Type).Msg("websocket client too slow, event dropped")
		}
	}
	return nil
}

func (h *hub) PlayCue(c feedback.Cue) error {
	return h.broadcast(feedbackEvent{Type: "cue", Value: c.String()},
		func() error { return h.detached.PlayCue(c) })
}

func (h *hub) PulseHaptic(s feedback.Severity) error {
	return h.broadcast(feedbackEvent{Type: "haptic", Value: s.String()},
		func() error { return h.detached.PulseHaptic(s) })
}

func (h *hub) PauseAmbient() error {
	return h.broadcast(feedbackEvent{Type: "ambient", Value: "pause"}, h.detached.PauseAmbient)
}

func (h *hub) ResumeAmbient() error {
	return h.broadcast(feedbackEvent{Type: "ambient", Value: "resume"}, h.detached.ResumeAmbient)
}

func (h *hub) SetAmbientLooping(loop bool) error {
	v := "once"
	if loop {
		v = "loop"
	}
	return h.broadcast(feedbackEvent{Type: "ambient", Value: v},
		func() error { return h.detached.SetAmbientLooping(loop) })
}

func (h *hub) SetStatus(text string) error {
	return h.broadcast(feedbackEvent{Type: "status", Value: text},
		func() error { return h.detached.SetStatus(text) })
}

func (h *hub) Celebrate() error {
	return h.broadcast(feedbackEvent{Type: "celebrate"}, h.detached.Celebrate)
}

func (c *wsClient) stop() {
	c.once.Do(func() { close(c.send) })
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and returns when the connection drops.
func (c *wsClient) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

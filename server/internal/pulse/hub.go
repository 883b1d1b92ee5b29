package pulse

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/omegasovereign/omega/pkg/types"
	"github.com/omegasovereign/omega/server/internal/telemetry"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxInbound caps a single client frame.
	maxInbound = 4096
)

// Message types sent by the hub.
const (
	TypeWelcome     = "welcome"
	TypePulse       = "pulse"
	TypePulseUpdate = "pulse_update"
	TypeAck         = "ack"
	TypeError       = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin policy is enforced by the CORS middleware in front of the hub.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope exchanged with clients.
type Message struct {
	Type      string            `json:"type"`
	NodeID    string            `json:"node_id,omitempty"`
	From      string            `json:"from,omitempty"`
	Resonance float64           `json:"resonance,omitempty"`
	Sample    *telemetry.Sample `json:"sample,omitempty"`
	Signal    *Signal           `json:"signal,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"` // unix milliseconds
}

// Signal is the payload a client pushes to the hub. Both fields are required.
type Signal struct {
	Resonance float64 `json:"resonance"`
	Status    string  `json:"status"`
}

// Sampler produces the telemetry carried by each pulse.
type Sampler interface {
	Sample(ctx context.Context) (telemetry.Sample, error)
}

// Hub manages WebSocket client connections and broadcasts a fresh telemetry
// sample to all connected clients every interval. Clients may push signals,
// which are relayed to every client.
type Hub struct {
	sampler  Sampler
	interval time.Duration
	onCount  func(int)

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client. closed is guarded by
// Hub.mu; send is closed exactly once, when closed flips to true.
type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed bool
}

// New creates a Hub that samples from s and broadcasts every interval.
// onCount, if non-nil, is called with the client count after every change.
func New(s Sampler, interval time.Duration, onCount func(int)) *Hub {
	return &Hub{
		sampler:  s,
		interval: interval,
		onCount:  onCount,
		clients:  make(map[*client]struct{}),
	}
}

// Run starts the broadcast ticker loop. Run blocks until ctx is cancelled,
// then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.pulse(ctx)
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// The client receives a welcome message carrying its node ID, then every
// broadcast. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		id:   "node-" + uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	slog.Info("pulse: client connected", "node", c.id, "remote", r.RemoteAddr)

	h.enqueue(c, encode(Message{
		Type:      TypeWelcome,
		NodeID:    c.id,
		Resonance: types.ResonanceLock,
		Timestamp: nowMillis(),
	}))

	go c.writePump()
	h.readPump(c) // blocks until connection closes

	slog.Info("pulse: client disconnected", "node", c.id)
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.reportCount(n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.closeLocked(c)
	n := len(h.clients)
	h.mu.Unlock()
	h.reportCount(n)
}

// closeLocked closes c's send channel once. h.mu must be held for writing.
func (h *Hub) closeLocked(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) reportCount(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

// pulse samples the host once and broadcasts the result. A failed sample is
// logged and skipped; clients simply miss one beat.
func (h *Hub) pulse(ctx context.Context) {
	if h.Count() == 0 {
		return
	}
	s, err := h.sampler.Sample(ctx)
	if err != nil {
		slog.Warn("pulse: telemetry sample failed", "err", err)
		return
	}
	h.broadcast(encode(Message{
		Type:      TypePulse,
		Resonance: types.ResonanceLock,
		Sample:    &s,
		Timestamp: nowMillis(),
	}))
}

func (h *Hub) broadcast(data []byte) {
	if data == nil {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !h.enqueue(c, data) {
			// Client's outgoing buffer is full; disconnect it.
			h.unregister(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		h.closeLocked(c)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	h.reportCount(0)
}

// handleSignal validates one inbound frame, relays it to every client and
// acknowledges it to the sender.
func (h *Hub) handleSignal(c *client, raw []byte) {
	var sig Signal
	if err := json.Unmarshal(raw, &sig); err != nil || sig.Resonance == 0 || sig.Status == "" {
		h.enqueue(c, encode(Message{
			Type:      TypeError,
			Error:     "invalid pulse format, expected {resonance, status}",
			Timestamp: nowMillis(),
		}))
		return
	}

	slog.Debug("pulse: signal received", "node", c.id, "resonance", sig.Resonance, "status", sig.Status)

	h.broadcast(encode(Message{
		Type:      TypePulseUpdate,
		From:      c.id,
		Signal:    &sig,
		Timestamp: nowMillis(),
	}))
	h.enqueue(c, encode(Message{Type: TypeAck, Timestamp: nowMillis()}))
}

// readPump reads frames from the connection, handles client signals and
// detects disconnects. Blocks until the connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInbound)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleSignal(c, raw)
	}
}

// enqueue hands data to c's writer without blocking. It reports false when
// the buffer is full or the client has already been closed. The read lock
// keeps closeLocked from closing send mid-send.
func (h *Hub) enqueue(c *client, data []byte) bool {
	if data == nil {
		return true
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encode(m Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("pulse: encode message", "type", m.Type, "err", err)
		return nil
	}
	return data
}

func nowMillis() int64 { return time.Now().UnixMilli() }

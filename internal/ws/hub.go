package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/observability"
)

const (
	// defaultWriteTimeout is the deadline for a single write to a client.
	// Exceeding it counts as a failed delivery and removes the subscriber.
	defaultWriteTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// defaultSendBuf is the per-client outgoing message buffer depth.
	defaultSendBuf = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins — callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Options tunes per-subscriber delivery behaviour.
type Options struct {
	// SendBuffer is the per-client outgoing buffer depth. A client whose
	// buffer is full when an event arrives is treated as failed and removed.
	SendBuffer int

	// WriteTimeout is the per-delivery write deadline.
	WriteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = defaultSendBuf
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	return o
}

// Hub is the subscriber registry and broadcaster for /ws/updates clients.
//
// Broadcast snapshots the registry under the lock and delivers outside it,
// so a slow subscriber never stalls registration or other deliveries.
// Delivery failure (full buffer, write error, timeout) removes the
// subscriber; removal is idempotent, so a failed delivery racing the
// client's own disconnect unregisters exactly once.
//
// A client's send channel is never closed: removal signals the writer
// through the client's done channel instead. A Broadcast holding a stale
// snapshot therefore at worst enqueues into an abandoned buffer — it can
// never panic on a channel another goroutine closed.
type Hub struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket subscriber. done is closed by
// the hub on removal; send is drained by writePump and never closed.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// New creates a Hub. Run must be started for shutdown handling.
func New(logger *slog.Logger, metrics *observability.Metrics, opts Options) *Hub {
	return &Hub{
		opts:    opts.withDefaults(),
		logger:  logger,
		metrics: metrics,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Broadcast serializes ev and delivers it to every registered subscriber.
// It never returns an error: with zero subscribers it is a no-op, and every
// per-subscriber failure is swallowed after removing that subscriber.
func (h *Hub) Broadcast(_ context.Context, ev domain.BroadcastEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("ws: marshal broadcast event", "type", ev.Type, "err", err)
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		select {
		case c.send <- data:
			h.metrics.BroadcastDeliveries.WithLabelValues("delivered").Inc()
		default:
			// Client's outgoing buffer is full — treat as gone.
			h.metrics.BroadcastDeliveries.WithLabelValues("dropped").Inc()
			h.unregister(c)
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and registers the
// client as a subscriber. It blocks until the connection closes, after which
// the client is unregistered.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, h.opts.SendBuffer),
		done: make(chan struct{}),
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump(h.opts.WriteTimeout)
	c.readPump() // blocks until connection closes
}

// Count returns the number of currently connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.metrics.Subscribers.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// unregister removes c if still present. Safe to call from both the failed
// delivery path and the connection-close path; the second call is a no-op.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.done)
	}
	h.metrics.Subscribers.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.done)
		delete(h.clients, c)
	}
	h.metrics.Subscribers.Set(0)
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump(writeTimeout time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			// Hub removed this client (shutdown or failed delivery).
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return
		}
	}
}

// readPump reads frames from the connection to process control messages (pong,
// close) and detect disconnects. Blocks until the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

package ws

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/relay/core/broker"
	"github.com/dmitrymomot/relay/core/logger"
)

// DefaultQueueSize is the default per-connection outbound queue length.
const DefaultQueueSize = 64

// Hub indexes live websocket connections by handle and implements
// broker.Sender. Safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*conn

	queueSize int
	log       *slog.Logger
}

// HubOption configures hub construction.
type HubOption func(*Hub)

// WithQueueSize sets the per-connection outbound queue length.
// Defaults to DefaultQueueSize.
func WithQueueSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithHubLogger sets the hub's logger. Defaults to a discard logger.
func WithHubLogger(log *slog.Logger) HubOption {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHub creates an empty connection hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		conns:     make(map[uuid.UUID]*conn),
		queueSize: DefaultQueueSize,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send enqueues the envelope for the connection. Unknown handles are
// ignored; a full queue drops the frame so a slow consumer never stalls
// the broker. Implements broker.Sender.
func (h *Hub) Send(id uuid.UUID, env broker.Envelope) {
	h.mu.RLock()
	c := h.conns[id]
	h.mu.RUnlock()
	if c == nil {
		return
	}

	select {
	case c.send <- env:
	default:
		h.log.Warn("dropping frame for slow consumer",
			logger.ID("conn_id", id),
			logger.Topic(env.Topic),
		)
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

// conn is one live websocket with its outbound queue.
type conn struct {
	id   uuid.UUID
	ws   *websocket.Conn
	send chan broker.Envelope

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(ws *websocket.Conn, queueSize int) *conn {
	return &conn{
		id:   uuid.New(),
		ws:   ws,
		send: make(chan broker.Envelope, queueSize),
		done: make(chan struct{}),
	}
}

// close shuts the connection down exactly once: signals the write pump and
// closes the underlying socket, unblocking the read pump.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

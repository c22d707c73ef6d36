package ws

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/session"
)

const (
	// writeWait bounds each outbound frame write.
	writeWait = 5 * time.Second
	// pongWait is how long the connection may stay silent before it is
	// considered dead. pingPeriod must be shorter.
	pongWait   = 40 * time.Second
	pingPeriod = 30 * time.Second
	// startWait bounds how long a fresh connection may take to announce
	// its identity.
	startWait = 10 * time.Second
)

// Broker is the subset of broker operations the transport drives.
type Broker interface {
	Connect(user string, conn uuid.UUID, now time.Time) error
	Disconnect(conn uuid.UUID, now time.Time)
}

// Handler upgrades HTTP requests to websocket sessions and runs their
// read/write pumps.
type Handler struct {
	hub      *Hub
	broker   Broker
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// Option configures handler construction.
type Option func(*Handler)

// WithLogger sets the handler's logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithOriginCheck restricts the websocket handshake to requests the given
// function accepts. By default any origin is accepted.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(hub *Hub, b Broker, opts ...Option) *Handler {
	h := &Handler{
		hub:    hub,
		broker: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and runs the session until the client
// disconnects or the identity handshake fails.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logger.Error(err))
		return
	}

	user, err := readStart(ws)
	if err != nil {
		h.log.Warn("identity handshake failed", logger.Error(err))
		_ = ws.Close()
		return
	}

	c := newConn(ws, h.hub.queueSize)
	h.hub.add(c)
	go h.writePump(c)

	if err := h.broker.Connect(user, c.id, time.Now()); err != nil {
		if errors.Is(err, session.ErrAlreadyConnected) {
			// The existing session wins; terminate the newcomer.
			h.log.Warn("rejecting duplicate session", logger.UserName(user))
			h.closeWith(c, websocket.ClosePolicyViolation, "user already connected")
		} else {
			h.log.Error("connect failed", logger.UserName(user), logger.Error(err))
			h.closeWith(c, websocket.CloseInternalServerErr, "")
		}
		h.hub.remove(c.id)
		return
	}

	h.readPump(c)

	h.broker.Disconnect(c.id, time.Now())
	h.hub.remove(c.id)
	c.close()
}

// readStart consumes the identity announcement that must open every
// connection.
func readStart(ws *websocket.Conn) (string, error) {
	_ = ws.SetReadDeadline(time.Now().Add(startWait))

	var ev clientEvent
	if err := ws.ReadJSON(&ev); err != nil {
		return "", err
	}
	if ev.Event != eventStart {
		return "", errors.New("first frame must be a start event")
	}
	if ev.UserName == "" {
		return "", errors.New("start event is missing user_name")
	}
	return ev.UserName, nil
}

// readPump drains inbound frames until the connection drops. The broker has
// no inbound operations beyond the handshake, so frames are discarded; the
// loop exists to detect disconnects and answer pings.
func (h *Handler) readPump(c *conn) {
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes all writes to the socket: queued envelopes and
// keepalive pings. Exits when the connection is closed.
func (h *Handler) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case env := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			frame := serverEvent{
				Event:       eventResponse,
				Topic:       env.Topic,
				PublishTime: unixSeconds(env.PublishTime),
				Content:     env.Content,
			}
			if err := c.ws.WriteJSON(frame); err != nil {
				h.log.Debug("write failed, closing connection",
					logger.ID("conn_id", c.id),
					logger.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeWith sends a close frame with the given code and reason, then tears
// the connection down.
func (h *Handler) closeWith(c *conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	c.close()
}

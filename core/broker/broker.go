package broker

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/pending"
	"github.com/dmitrymomot/relay/core/session"
	"github.com/dmitrymomot/relay/core/subscription"
)

// DefaultTTL is the default retention window for undelivered messages.
const DefaultTTL = 10 * time.Second

// Envelope is one message bound for a live connection, either fresh from a
// publish or replayed from the pending store.
type Envelope struct {
	Topic       string
	PublishTime time.Time
	Content     string
}

// Sender delivers envelopes to live connections. Implementations must be
// best-effort and non-blocking with respect to the broker: a slow or dead
// connection must not stall the caller, and failures are not reported back.
type Sender interface {
	Send(conn uuid.UUID, env Envelope)
}

// Broker owns the process-wide pub/sub state. All methods are safe for
// concurrent use; every mutation is serialized behind one mutex.
type Broker struct {
	mu       sync.Mutex
	subs     *subscription.Registry
	sessions *session.Registry
	store    *pending.Store

	sender Sender
	log    *slog.Logger
	ttl    time.Duration
}

// Option configures broker construction.
type Option func(*Broker)

// WithTTL sets the retention window for undelivered messages.
// Defaults to DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(b *Broker) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithLogger sets the broker's logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broker) {
		if log != nil {
			b.log = log
		}
	}
}

// New creates a broker delivering live messages through sender.
func New(sender Sender, opts ...Option) *Broker {
	b := &Broker{
		subs:     subscription.NewRegistry(),
		sessions: session.NewRegistry(),
		sender:   sender,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.store = pending.NewStore(b.ttl)
	return b
}

// Connect registers a live session for the user and replays every retained
// message on the user's topics published since their last disconnect.
// Returns session.ErrAlreadyConnected when the user already has a live
// session; the caller must terminate the incoming connection and leave the
// existing one untouched.
//
// A user with no disconnect history replays from the beginning of each
// retained log: a first-time connector receives whatever messages were
// stored for them while they were subscribed but offline.
func (b *Broker) Connect(user string, conn uuid.UUID, now time.Time) error {
	b.mu.Lock()
	if err := b.sessions.Connect(user, conn); err != nil {
		b.mu.Unlock()
		return err
	}

	since := b.sessions.LastDisconnectTime(user)
	b.store.EvictExpired(now)

	var replay []Envelope
	for _, topic := range b.subs.TopicsOf(user) {
		start, ok := b.store.FindCatchUpStart(topic, since)
		if !ok {
			continue
		}
		for _, msg := range b.store.Deliver(topic, start, user) {
			replay = append(replay, Envelope{
				Topic:       topic,
				PublishTime: msg.PublishTime(),
				Content:     msg.Content(),
			})
		}
		b.store.PurgeFullyDelivered(topic)
	}
	b.mu.Unlock()

	b.log.Info("user connected",
		logger.UserName(user),
		logger.ID("conn_id", conn),
		logger.Count("replayed", len(replay)),
	)

	for _, env := range replay {
		b.sender.Send(conn, env)
	}
	return nil
}

// Disconnect removes the session bound to the connection and records now as
// the user's last disconnect time. Unknown connections are ignored.
func (b *Broker) Disconnect(conn uuid.UUID, now time.Time) {
	b.mu.Lock()
	user, ok := b.sessions.Disconnect(conn, now)
	b.mu.Unlock()

	if !ok {
		b.log.Debug("disconnect for unknown connection", logger.ID("conn_id", conn))
		return
	}
	b.log.Info("user disconnected", logger.UserName(user), logger.ID("conn_id", conn))
}

// Publish fans the message out to every connected subscriber of the topic
// and, if any subscriber is offline, stores it with those users as the owed
// set. A message every subscriber received live is never stored.
func (b *Broker) Publish(topic, content string, now time.Time) {
	b.mu.Lock()
	subscribers := b.subs.SubscribersOf(topic)

	live := make([]uuid.UUID, 0, len(subscribers))
	offline := make(map[string]struct{})
	for user := range subscribers {
		if conn, ok := b.sessions.ConnectionOf(user); ok {
			live = append(live, conn)
		} else {
			offline[user] = struct{}{}
		}
	}

	if len(offline) > 0 {
		b.store.Append(topic, pending.NewMessage(now, content, offline))
	}
	b.mu.Unlock()

	b.log.Debug("message published",
		logger.Topic(topic),
		logger.Count("live", len(live)),
		logger.Count("offline", len(offline)),
	)

	env := Envelope{Topic: topic, PublishTime: now, Content: content}
	for _, conn := range live {
		b.sender.Send(conn, env)
	}
}

// Subscribe adds the user to the topic's subscribers. Idempotent. The
// subscription persists across disconnects until an explicit Unsubscribe.
// A connected user starts receiving live fan-out for the topic immediately.
func (b *Broker) Subscribe(user, topic string) {
	b.mu.Lock()
	b.subs.Subscribe(user, topic)
	b.mu.Unlock()

	b.log.Debug("user subscribed", logger.UserName(user), logger.Topic(topic))
}

// Unsubscribe removes the user from the topic's subscribers, scrubs them
// from the owed set of every pending message on the topic, and purges
// messages left with nobody owed. Unknown pairs are logged and skipped.
func (b *Broker) Unsubscribe(user, topic string) {
	b.mu.Lock()
	existed := b.subs.Unsubscribe(user, topic)
	if existed {
		b.store.RemoveUser(topic, user)
		b.store.PurgeFullyDelivered(topic)
	}
	b.mu.Unlock()

	if !existed {
		b.log.Warn("unsubscribe from a topic the user never followed",
			logger.UserName(user),
			logger.Topic(topic),
		)
		return
	}
	b.log.Debug("user unsubscribed", logger.UserName(user), logger.Topic(topic))
}

// IsConnected reports whether the user currently has a live session.
func (b *Broker) IsConnected(user string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions.IsConnected(user)
}

// IsSubscribed reports whether the user follows the topic.
func (b *Broker) IsSubscribed(user, topic string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subs.IsSubscribed(user, topic)
}

// PendingCount returns the number of retained messages for the topic.
// Intended for diagnostics and tests.
func (b *Broker) PendingCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Len(topic)
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/relay/core/logger"
)

// Broker is the subset of broker operations the HTTP surface drives.
type Broker interface {
	Publish(topic, content string, now time.Time)
	Subscribe(user, topic string)
	Unsubscribe(user, topic string)
}

// API serves the publisher/administrative endpoints.
type API struct {
	broker Broker
	log    *slog.Logger
}

// Option configures API construction.
type Option func(*API)

// WithLogger sets the API's logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates the API over the given broker.
func New(b Broker, opts ...Option) *API {
	a := &API{
		broker: b,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns all endpoints mounted behind request logging.
func (a *API) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /publish_messages", a.publishMessages)
	mux.HandleFunc("POST /subscribe", a.subscribe)
	mux.HandleFunc("POST /unsubscribe", a.unsubscribe)
	mux.HandleFunc("GET /health", a.health)
	return a.logRequests(mux)
}

type publishRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// publishEntry uses pointers to distinguish absent fields from empty
// strings; only entries with absent fields are skipped.
type publishEntry struct {
	Topic   *string `json:"topic"`
	Content *string `json:"content"`
}

func (a *API) publishMessages(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = badRequest(w, "Invalid JSON body")
		return
	}
	if req.Messages == nil {
		_ = badRequest(w, "Missing messages parameter")
		return
	}

	var entries []publishEntry
	if isNull(req.Messages) || json.Unmarshal(req.Messages, &entries) != nil {
		_ = badRequest(w, "Object messages must be a list")
		return
	}

	// One timestamp for the whole batch.
	now := time.Now()
	for _, entry := range entries {
		if entry.Topic == nil || entry.Content == nil {
			a.log.Warn("skipping message without topic or content field")
			continue
		}
		a.broker.Publish(*entry.Topic, *entry.Content, now)
	}

	_ = respondJSON(w, http.StatusOK, messageResponse{Message: "Messages published"})
}

type subscriptionRequest struct {
	UserName *string         `json:"user_name"`
	Topics   json.RawMessage `json:"topics"`
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) {
	user, topics, ok := a.decodeSubscription(w, r)
	if !ok {
		return
	}

	for _, topic := range topics {
		a.broker.Subscribe(user, topic)
	}

	_ = respondJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Client subscribed to topics: %v", topics),
	})
}

func (a *API) unsubscribe(w http.ResponseWriter, r *http.Request) {
	user, topics, ok := a.decodeSubscription(w, r)
	if !ok {
		return
	}

	// Unknown (user, topic) pairs are logged and skipped by the broker.
	for _, topic := range topics {
		a.broker.Unsubscribe(user, topic)
	}

	_ = respondJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Unsubscribed from topics: %v", topics),
	})
}

// decodeSubscription validates the shared /subscribe and /unsubscribe body
// shape. Reports ok=false after writing the error response.
func (a *API) decodeSubscription(w http.ResponseWriter, r *http.Request) (string, []string, bool) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = badRequest(w, "Invalid JSON body")
		return "", nil, false
	}
	if req.UserName == nil || req.Topics == nil {
		_ = badRequest(w, "Missing topics or user_name parameter")
		return "", nil, false
	}

	var topics []string
	if isNull(req.Topics) || json.Unmarshal(req.Topics, &topics) != nil {
		_ = badRequest(w, "Parameter topics must be a list")
		return "", nil, false
	}

	return *req.UserName, topics, true
}

// isNull reports whether the raw value is the JSON null literal. Unmarshal
// happily decodes null into a nil slice, so a present-but-null value needs
// an explicit check to be rejected as a non-list.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ALIVE")); err != nil {
		a.log.Debug("health response write failed", logger.Error(err))
	}
}

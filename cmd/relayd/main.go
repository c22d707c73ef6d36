package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/core/broker"
	"github.com/dmitrymomot/relay/core/config"
	"github.com/dmitrymomot/relay/core/logger"
	"github.com/dmitrymomot/relay/core/server"
	"github.com/dmitrymomot/relay/transport/httpapi"
	"github.com/dmitrymomot/relay/transport/ws"
)

type appConfig struct {
	Server server.Config

	// Environment name, switches log formatting between text and JSON.
	Env string `env:"APP_ENV" envDefault:"development"`

	// How long undelivered messages are retained for offline subscribers.
	MessageTTL time.Duration `env:"RELAY_MESSAGE_TTL" envDefault:"10s"`

	// Per-connection outbound queue size. Slow consumers drop messages
	// once the queue is full.
	SendQueueSize int `env:"RELAY_SEND_QUEUE_SIZE" envDefault:"64"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg.Env)
	logger.SetAsDefault(log)

	hub := ws.NewHub(
		ws.WithQueueSize(cfg.SendQueueSize),
		ws.WithHubLogger(log.With(logger.Component("ws.hub"))),
	)

	b := broker.New(hub,
		broker.WithTTL(cfg.MessageTTL),
		broker.WithLogger(log.With(logger.Component("broker"))),
	)

	wsHandler := ws.NewHandler(hub, b,
		ws.WithLogger(log.With(logger.Component("ws.handler"))),
	)

	api := httpapi.New(b,
		httpapi.WithLogger(log.With(logger.Component("httpapi"))),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /ws", wsHandler)
	mux.Handle("/", api.Router())

	srv, err := server.NewFromConfig(cfg.Server,
		server.WithLogger(log.With(logger.Component("server"))),
	)
	if err != nil {
		log.Error("invalid server configuration", logger.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("relay starting",
		slog.String("addr", cfg.Server.Addr),
		slog.Duration("message_ttl", cfg.MessageTTL),
		logger.Count("send_queue_size", cfg.SendQueueSize),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, mux))

	if err := g.Wait(); err != nil {
		log.Error("relay exited with error", logger.Error(err))
		os.Exit(1)
	}

	log.Info("relay stopped")
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return logger.New(logger.WithProduction("relay"))
	}
	return logger.New(logger.WithDevelopment("relay"))
}

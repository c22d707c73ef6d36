// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/relay/core/config"
//
//	type BrokerConfig struct {
//		MessageTTL time.Duration `env:"RELAY_MESSAGE_TTL" envDefault:"10s"`
//		QueueSize  int           `env:"RELAY_SEND_QUEUE_SIZE" envDefault:"64"`
//	}
//
//	func main() {
//		var cfg BrokerConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 BrokerConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 BrokerConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently.
package config

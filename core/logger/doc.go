// Package logger builds structured slog loggers and provides nil-safe
// attribute helpers for the broker's common logging patterns.
//
// Create loggers with the factory function and configuration options:
//
//	import "github.com/dmitrymomot/relay/core/logger"
//
//	// Development: text format, debug level
//	log := logger.New(logger.WithDevelopment("relayd"))
//
//	// Production: JSON format, info level
//	log := logger.New(logger.WithProduction("relayd"))
//
//	// Custom configuration
//	log := logger.New(
//	    logger.WithLevel(slog.LevelWarn),
//	    logger.WithJSONFormatter(),
//	    logger.WithOutput(os.Stderr),
//	    logger.WithAttr(slog.String("service", "relay")),
//	)
//
// Attribute helpers use the empty Attr pattern for nil safety, so calls like
// log.Error("publish failed", logger.Error(err)) need no explicit nil
// checks:
//
//	log.Info("message published",
//	    logger.Topic("food"),
//	    logger.Count("offline", len(offline)),
//	)
//
//	log.Warn("unknown subscription",
//	    logger.UserName("bob"),
//	    logger.Topic("food"),
//	)
//
// Capture logs during testing by directing output to a buffer:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
package logger

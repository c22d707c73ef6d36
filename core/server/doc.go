// Package server wraps http.Server with graceful shutdown and functional
// configuration options.
//
// Basic usage:
//
//	srv := server.New(":8080",
//	    server.WithLogger(log),
//	    server.WithShutdownTimeout(10*time.Second),
//	)
//
//	// Blocks until the context is canceled or the listener fails.
//	if err := srv.Start(ctx, mux); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Or from environment configuration:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Run returns a function suitable for errgroup coordination:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	if err := g.Wait(); err != nil { ... }
package server

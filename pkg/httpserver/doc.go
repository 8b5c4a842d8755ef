// Package httpserver runs the ahem demo server: an http.Server with
// configurable timeouts, signal-driven graceful shutdown, lifecycle hooks and
// health-check handlers.
//
// Run blocks until its context is cancelled, SIGINT or SIGTERM arrives, or
// Shutdown is called. Stop hooks run after shutdown, which is where flash
// backend connections are closed.
//
//	r := chi.NewRouter()
//	r.Get("/readyz", httpserver.HealthCheckHandler(log, redisBackend.Healthcheck))
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(*slog.Logger) { _ = client.Close() }),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//		return err
//	}
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver

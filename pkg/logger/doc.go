// Package logger builds slog loggers for ahem services and defines the
// attribute helpers used across the module.
//
// New creates a *slog.Logger from functional options: output format (text or
// JSON), level, static attributes and ContextExtractor callbacks that pull
// request-scoped values such as a request id out of the record context.
// WithEnvironment applies per-environment presets and NewFromConfig reads
// them from the environment via Config.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "ahem"),
//		logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.InfoContext(ctx, "notice flashed",
//		logger.NoticeType("success"),
//		logger.NoticeID(id),
//	)
//
// Attribute helpers keep key names consistent: NoticeType, NoticeTypes,
// NoticeID, StoreKey, Backend, Count, Component, RequestID, Duration and
// Error. Error and Errors return an empty attribute for nil errors, so they
// can be passed without a nil check.
package logger

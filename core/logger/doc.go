// Package logger builds slog loggers and provides attribute helpers with
// consistent key names.
//
//	log := logger.New(
//		logger.WithProduction("clipsync"),
//		logger.WithContextExtractors(requestid.Extractor),
//	)
//	log.InfoContext(ctx, "broadcast delivered",
//		logger.RoomID(room),
//		logger.Count("recipients", n),
//	)
//
// Attribute helpers return an empty slog.Attr for nil or empty input, which
// slog drops, so callers never need nil checks:
//
//	log.Error("join failed", logger.Error(err))
//
// Context extractors add request-scoped attributes, such as the trace id, to
// every record logged with a context.
package logger

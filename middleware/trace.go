package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/logger"
)

// DefaultTraceHeader carries the trace id on requests and responses.
const DefaultTraceHeader = "X-Trace-ID"

// traceIDContextKey is used as a key for storing the trace id in request context.
type traceIDContextKey struct{}

// TraceConfig configures the trace id middleware.
type TraceConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Generator creates new trace ids (default: ShortTraceID)
	Generator func() string
	// HeaderName specifies the header name for the trace id (default: "X-Trace-ID")
	HeaderName string
	// IgnoreIncoming always generates a fresh id instead of reusing the client's
	IgnoreIncoming bool
}

// ShortTraceID returns the first six characters of a random UUID, upper-cased.
// Short ids are easy to read out of logs and are unique enough for one process.
func ShortTraceID() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

// Trace creates a trace id middleware with default configuration.
func Trace[C handler.Context]() handler.Middleware[C] {
	return TraceWithConfig[C](TraceConfig{})
}

// TraceWithConfig assigns every request a trace id, reusing a client supplied
// one unless IgnoreIncoming is set. The id is stored in the context and
// echoed in the response header.
func TraceWithConfig[C handler.Context](cfg TraceConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultTraceHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = ShortTraceID
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var traceID string
			if !cfg.IgnoreIncoming {
				traceID = strings.TrimSpace(ctx.Request().Header.Get(cfg.HeaderName))
			}
			if traceID == "" {
				traceID = cfg.Generator()
			}

			ctx.SetValue(traceIDContextKey{}, traceID)

			return handler.Wrap(next(ctx), func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(cfg.HeaderName, traceID)
			})
		}
	}
}

// GetTraceID retrieves the trace id from a request context.
func GetTraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDContextKey{}).(string)
	return id, ok && id != ""
}

// TraceIDExtractor adds the trace id to log records, for logger.WithContextExtractors.
func TraceIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := GetTraceID(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.TraceID(id), true
}

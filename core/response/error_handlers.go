package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/logger"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// panicked is satisfied by router.PanicError without importing the router.
type panicked interface {
	Value() any
	Stack() []byte
}

// written is satisfied by writers that know whether a response already went out.
type written interface {
	Written() bool
}

// diagnosticKeys are detail entries that are only rendered in debug mode.
var diagnosticKeys = []string{"cause", "stack"}

// ErrorHandlerConfig configures the JSON error handler.
type ErrorHandlerConfig struct {
	// Debug renders diagnostic details (error cause, panic stack).
	// Keep it off in production.
	Debug bool

	// Logger receives one entry per handled error: warn for 4xx, error for 5xx.
	// Nil disables logging.
	Logger *slog.Logger
}

// convertToHTTPError converts any error to an HTTPError.
func convertToHTTPError(err error, debug bool) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = NewHTTPError(status, "error", http.StatusText(status))
	}

	if !debug {
		return baseErr
	}

	baseErr = baseErr.WithError(err)
	var p panicked
	if errors.As(err, &p) {
		baseErr = baseErr.WithDetails(map[string]any{"stack": string(p.Stack())})
	}
	return baseErr
}

// stripDiagnostics removes debug-only entries from the details map.
func stripDiagnostics(e HTTPError) HTTPError {
	if len(e.Details) == 0 {
		return e
	}
	clean := make(map[string]any, len(e.Details))
	for k, v := range e.Details {
		clean[k] = v
	}
	for _, k := range diagnosticKeys {
		delete(clean, k)
	}
	if len(clean) == 0 {
		clean = nil
	}
	e.Details = clean
	return e
}

// ErrorHandler is the default error handler that returns plain text errors.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := convertToHTTPError(err, false)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler returns errors as JSON responses without diagnostics.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	JSONErrorHandlerWithConfig[C](ErrorHandlerConfig{})(ctx, err)
}

// JSONErrorHandlerWithConfig returns an error handler rendering
// {"code", "message", "details"} envelopes.
func JSONErrorHandlerWithConfig[C handler.Context](cfg ErrorHandlerConfig) handler.ErrorHandler[C] {
	return func(ctx C, err error) {
		httpErr := convertToHTTPError(err, cfg.Debug)
		if !cfg.Debug {
			httpErr = stripDiagnostics(httpErr)
		}

		if cfg.Logger != nil {
			level := slog.LevelWarn
			if httpErr.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			cfg.Logger.LogAttrs(ctx, level, "request failed",
				logger.Error(err),
				logger.StatusCode(httpErr.Status),
				slog.String("code", httpErr.Code),
				logger.Path(ctx.Request().URL.Path),
			)
		}

		if w, ok := ctx.ResponseWriter().(written); ok && w.Written() {
			return
		}

		Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
	}
}

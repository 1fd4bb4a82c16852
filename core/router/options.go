package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/clipsync/core/handler"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*shared[C])

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(s *shared[C]) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// WithContextFactory sets a custom context factory for the router.
// It is required for any context type other than *Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(s *shared[C]) {
		s.newContext = f
	}
}

// WithLogger sets a logger used for panics that cannot be reported to the client.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(s *shared[C]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

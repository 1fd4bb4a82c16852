package clipboard

import (
	"log/slog"
	"time"
)

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger for membership and delivery events.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTokenGenerator replaces the uuid event token generator.
// Generated tokens must be unique for the life of the hub.
func WithTokenGenerator(fn func() string) Option {
	return func(h *Hub) {
		if fn != nil {
			h.newToken = fn
		}
	}
}

// WithClock sets the time source for upload timestamps.
func WithClock(fn func() time.Time) Option {
	return func(h *Hub) {
		if fn != nil {
			h.now = fn
		}
	}
}

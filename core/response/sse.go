package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/clipsync/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

// ErrStreamingUnsupported is reported when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Event is a single Server-Sent Event.
// Data is written as-is for string and []byte, and JSON-encoded otherwise.
type Event struct {
	ID   string
	Name string
	Data any
}

type sseConfig struct {
	eventName   string
	reconnect   time.Duration
	keepAlive   time.Duration
	noKeepAlive bool
	onError     func(context.Context, error)
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithEventName sets the default event name for events without one.
func WithEventName(name string) EventOption {
	return func(s *sseConfig) {
		s.eventName = name
	}
}

// WithReconnectTime advertises the client reconnection delay with a retry field.
func WithReconnectTime(d time.Duration) EventOption {
	return func(s *sseConfig) {
		s.reconnect = d
	}
}

// WithKeepAlive sets the keep-alive interval for SSE connections.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) {
		s.keepAlive = interval
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() EventOption {
	return func(s *sseConfig) {
		s.noKeepAlive = true
	}
}

// WithSSEErrorHandler sets an error handler for SSE streaming errors.
func WithSSEErrorHandler(fn func(context.Context, error)) EventOption {
	return func(s *sseConfig) {
		s.onError = fn
	}
}

// SSE creates a Server-Sent Events response draining the events channel.
// The response returns when the request context is done, the channel is
// closed, or a write to the client fails. Events that fail to encode are
// reported and skipped.
func SSE(events <-chan Event, opts ...EventOption) handler.Response {
	cfg := &sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}

		report := func(err error) {
			if cfg.onError != nil {
				cfg.onError(req.Context(), err)
			}
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		preamble := ": connected\n\n"
		if cfg.reconnect > 0 {
			preamble = fmt.Sprintf("retry: %d\n%s", cfg.reconnect.Milliseconds(), preamble)
		}
		if _, err := io.WriteString(w, preamble); err != nil {
			report(fmt.Errorf("failed to write connection message: %w", err))
			return nil
		}
		flusher.Flush()

		var keepAlive <-chan time.Time
		var ticker *time.Ticker
		if !cfg.noKeepAlive && cfg.keepAlive > 0 {
			ticker = time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			keepAlive = ticker.C
		}

		for {
			select {
			case <-req.Context().Done():
				return nil

			case <-keepAlive:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					report(fmt.Errorf("failed to send keepalive: %w", err))
					return nil
				}
				flusher.Flush()

			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if ticker != nil {
					ticker.Reset(cfg.keepAlive)
				}
				if ev.Name == "" {
					ev.Name = cfg.eventName
				}

				frame, err := encodeSSEEvent(ev)
				if err != nil {
					report(fmt.Errorf("failed to encode event: %w", err))
					continue
				}
				if _, err := w.Write(frame); err != nil {
					report(fmt.Errorf("failed to write event: %w", err))
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

// encodeSSEEvent renders one event frame. Multi-line data is split into
// several data fields so the client reassembles it with newlines.
func encodeSSEEvent(ev Event) ([]byte, error) {
	var data string
	switch v := ev.Data.(type) {
	case string:
		data = v
	case []byte:
		data = string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = string(raw)
	}

	var b strings.Builder
	if ev.ID != "" {
		b.WriteString("id: ")
		b.WriteString(stripNewlines(ev.ID))
		b.WriteByte('\n')
	}
	if ev.Name != "" {
		b.WriteString("event: ")
		b.WriteString(stripNewlines(ev.Name))
		b.WriteByte('\n')
	}
	for line := range strings.SplitSeq(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

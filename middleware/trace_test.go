package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/logger"
	"github.com/dmitrymomot/clipsync/core/response"
	"github.com/dmitrymomot/clipsync/middleware"
)

var shortID = regexp.MustCompile(`^[0-9A-F]{6}$`)

func TestShortTraceID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		id := middleware.ShortTraceID()
		assert.Regexp(t, shortID, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestTrace(t *testing.T) {
	t.Parallel()

	echoTrace := func(ctx *routerCtx) handler.Response {
		id, _ := middleware.GetTraceID(ctx)
		return response.String(id)
	}

	t.Run("generates id and sets header", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.Trace[*routerCtx]())
		r.Get("/t", echoTrace)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

		id := w.Header().Get(middleware.DefaultTraceHeader)
		assert.Regexp(t, shortID, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses incoming id", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.Trace[*routerCtx]())
		r.Get("/t", echoTrace)

		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("X-Trace-ID", "ABC123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "ABC123", w.Header().Get("X-Trace-ID"))
		assert.Equal(t, "ABC123", w.Body.String())
	})

	t.Run("ignore incoming and custom generator", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.TraceWithConfig[*routerCtx](middleware.TraceConfig{
			HeaderName:     "X-Request-ID",
			IgnoreIncoming: true,
			Generator:      func() string { return "fixed" },
		}))
		r.Get("/t", echoTrace)

		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("X-Request-ID", "client")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "fixed", w.Header().Get("X-Request-ID"))
	})

	t.Run("header present on error and not found responses", func(t *testing.T) {
		t.Parallel()

		r := newRouter(middleware.Trace[*routerCtx]())
		r.Get("/fail", func(*routerCtx) handler.Response {
			return response.Error(response.ErrBadRequest)
		})

		for _, path := range []string{"/fail", "/missing"} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.NotEmpty(t, w.Header().Get(middleware.DefaultTraceHeader), path)
		}
	})

	t.Run("extractor feeds logs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextExtractors(middleware.TraceIDExtractor),
		)

		r := newRouter(middleware.Trace[*routerCtx]())
		r.Get("/t", func(ctx *routerCtx) handler.Response {
			log.InfoContext(ctx, "inside")
			return response.NoContent()
		})

		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("X-Trace-ID", "F00BAR")
		r.ServeHTTP(httptest.NewRecorder(), req)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "F00BAR", line["trace_id"])
	})
}

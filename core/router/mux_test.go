package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/router"
)

func text(body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(body))
		return err
	}
}

func TestMuxServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("successful request handling", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/test", func(ctx *router.Context) handler.Response {
			return text("Hello World")
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello World", w.Body.String())
	})

	t.Run("path parameters", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/rooms/{id}", func(ctx *router.Context) handler.Response {
			return text(ctx.Param("id"))
		})

		req := httptest.NewRequest(http.MethodGet, "/rooms/r-42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "r-42", w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/test", func(ctx *router.Context) handler.Response { return text("ok") })

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("method not allowed sets allow header", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/test", func(ctx *router.Context) handler.Response { return text("ok") })

		req := httptest.NewRequest(http.MethodDelete, "/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
	})

	t.Run("nil response is reported", func(t *testing.T) {
		t.Parallel()

		var captured error
		r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
			captured = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))
		r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

		req := httptest.NewRequest(http.MethodGet, "/nil", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.ErrorIs(t, captured, router.ErrNilResponse)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("response error uses status code interface", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/error", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return statusErr{status: http.StatusConflict}
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/error", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "conflict")
	})
}

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "conflict" }
func (e statusErr) StatusCode() int { return e.status }

func TestMuxPanicRecovery(t *testing.T) {
	t.Parallel()

	var captured error
	r := router.New[*router.Context](router.WithErrorHandler(func(ctx *router.Context, err error) {
		captured = err
		ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
	}))
	r.Get("/panic", func(ctx *router.Context) handler.Response {
		panic(errors.New("boom"))
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Error(t, captured)
	var pe router.PanicError
	require.ErrorAs(t, captured, &pe)
	assert.NotEmpty(t, pe.Stack())
	assert.EqualError(t, errors.Unwrap(captured), "boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMuxMiddleware(t *testing.T) {
	t.Parallel()

	trace := func(name string, order *[]string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				*order = append(*order, name)
				return next(ctx)
			}
		}
	}

	t.Run("execution order follows registration", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Use(trace("first", &order), trace("second", &order))
		r.With(trace("inline", &order)).Get("/test", func(ctx *router.Context) handler.Response {
			order = append(order, "handler")
			return text("ok")
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, []string{"first", "second", "inline", "handler"}, order)
	})

	t.Run("root middleware sees unmatched requests", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Use(trace("root", &order))
		r.Get("/test", func(ctx *router.Context) handler.Response { return text("ok") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, []string{"root"}, order)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("use after routes panics", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Get("/test", func(ctx *router.Context) handler.Response { return text("ok") })

		assert.Panics(t, func() { r.Use(trace("late", &order)) })
	})
}

func TestMuxRoute(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Route("/api/sync", func(r router.Router[*router.Context]) {
		r.Get("/", func(ctx *router.Context) handler.Response { return text("root") })
		r.Post("/", func(ctx *router.Context) handler.Response { return text("posted") })
		r.Get("/clients", func(ctx *router.Context) handler.Response { return text("clients") })
	})

	tests := []struct {
		method string
		path   string
		code   int
		body   string
	}{
		{http.MethodGet, "/api/sync", http.StatusOK, "root"},
		{http.MethodPost, "/api/sync", http.StatusOK, "posted"},
		{http.MethodGet, "/api/sync/clients", http.StatusOK, "clients"},
		{http.MethodGet, "/api/sync/other", http.StatusNotFound, ""},
		{http.MethodGet, "/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, strings.TrimSpace(w.Body.String()))
			}
		})
	}

	assert.Equal(t, []router.Route{
		{Method: http.MethodGet, Pattern: "/api/sync"},
		{Method: http.MethodPost, Pattern: "/api/sync"},
		{Method: http.MethodGet, Pattern: "/api/sync/clients"},
	}, r.Routes())
}

func TestMuxInvalidPattern(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	assert.Panics(t, func() {
		r.Get("no-slash", func(ctx *router.Context) handler.Response { return text("ok") })
	})
	assert.Panics(t, func() {
		r.Method("BREW", "/coffee", func(ctx *router.Context) handler.Response { return text("ok") })
	})
}

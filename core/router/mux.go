package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/dmitrymomot/clipsync/core/handler"
)

// shared holds the state common to a root router and every group derived from it.
type shared[C handler.Context] struct {
	std          *http.ServeMux
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	root         *mux[C]

	mu     sync.Mutex
	routes []Route
}

// mux is the private implementation of Router interface.
// Groups share the underlying ServeMux and differ only by prefix and middlewares.
type mux[C handler.Context] struct {
	shared      *shared[C]
	parent      *mux[C]
	prefix      string
	middlewares []handler.Middleware[C]
	routed      bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	s := &shared[C]{
		std:          http.NewServeMux(),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.newContext == nil {
		s.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context works without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	m := &mux[C]{shared: s}
	s.root = m
	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, pattern := m.shared.std.Handler(r)
	if pattern != "" {
		// ServeMux must dispatch itself so that path values get populated
		m.shared.std.ServeHTTP(w, r)
		return
	}
	m.shared.unmatched(w, r, h)
}

// unmatched reports a request no route accepts. Root middlewares still run so
// that concerns like CORS preflight and access logging see these requests too.
func (s *shared[C]) unmatched(w http.ResponseWriter, r *http.Request, fallback http.Handler) {
	probe := &statusProbe{header: make(http.Header)}
	fallback.ServeHTTP(probe, r)

	err := ErrNotFound
	if probe.status == http.StatusMethodNotAllowed {
		if allow := probe.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		err = ErrMethodNotAllowed
	}

	endpoint := func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return err }
	}
	s.serve(w, r, handler.Chain(endpoint, s.root.middlewares...))
}

// serve runs a handler chain with panic recovery and error delegation.
func (s *shared[C]) serve(w http.ResponseWriter, r *http.Request, fn handler.HandlerFunc[C]) {
	ww := newResponseWriter(w)
	ctx := s.newContext(ww, r)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}

			if ww.Written() {
				s.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			s.errorHandler(ctx, panicErr)
		}
	}()

	resp := fn(ctx)
	if resp == nil {
		s.errorHandler(ctx, ErrNilResponse)
		return
	}

	// Middlewares may have attached values to the request context
	if err := resp(ww, ctx.Request()); err != nil {
		s.errorHandler(ctx, err)
	}
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Method registers a handler for a specific HTTP method.
func (m *mux[C]) Method(method, pattern string, h handler.HandlerFunc[C]) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !validMethod(method) {
		panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
	}
	m.handle(method, pattern, h)
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.routed {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		shared:      m.shared,
		parent:      m,
		prefix:      m.prefix,
		middlewares: middlewares,
	}
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a group whose patterns are relative to prefix.
func (m *mux[C]) Route(prefix string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, prefix))
	}
	if prefix == "" || prefix[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, prefix))
	}

	sub := &mux[C]{
		shared: m.shared,
		parent: m,
		prefix: strings.TrimSuffix(m.prefix+prefix, "/"),
	}
	fn(sub)
	return sub
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	return append([]Route(nil), m.shared.routes...)
}

// handle registers a handler with the middlewares of this mux and all its parents.
func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	var stack []handler.Middleware[C]
	for curr := m; curr != nil; curr = curr.parent {
		curr.routed = true
		stack = append(append([]handler.Middleware[C](nil), curr.middlewares...), stack...)
	}
	h := handler.Chain(fn, stack...)

	full := joinPath(m.prefix, pattern)
	key := full
	if method != "" {
		key = method + " " + full
	}

	s := m.shared
	s.std.Handle(key, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, h)
	}))

	s.mu.Lock()
	s.routes = append(s.routes, Route{Method: method, Pattern: full})
	s.mu.Unlock()
}

// joinPath maps a group-relative pattern to a ServeMux pattern.
// "/" means the group root itself; at the top level it matches only "/".
func joinPath(prefix, pattern string) string {
	if pattern == "/" {
		if prefix == "" {
			return "/{$}"
		}
		return prefix
	}
	return prefix + pattern
}

func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// statusProbe records what ServeMux's fallback handler would have answered.
type statusProbe struct {
	header http.Header
	status int
}

func (p *statusProbe) Header() http.Header         { return p.header }
func (p *statusProbe) Write(b []byte) (int, error) { return len(b), nil }
func (p *statusProbe) WriteHeader(status int)      { p.status = status }

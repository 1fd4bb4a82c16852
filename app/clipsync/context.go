package clipsync

import (
	"context"
	"net/http"
	"time"
)

// Context is the request context for clipsync handlers. It carries the
// caller identity resolved by the identity middleware.
type Context struct {
	w        http.ResponseWriter
	r        *http.Request
	identity Identity
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the path wildcard with the given name.
func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}

// Identity returns the caller resolved by the identity middleware.
func (c *Context) Identity() Identity {
	return c.identity
}

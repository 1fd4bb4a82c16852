// Package handler defines the request-processing contract shared by the router,
// the response renderers and the middleware packages.
//
// A handler receives a typed request context and returns a Response: a deferred
// render function that writes status, headers and body. Errors returned from a
// Response are routed to the router's ErrorHandler, so handlers never write
// error bodies themselves.
//
//	import "github.com/dmitrymomot/clipsync/core/handler"
//
//	func hello(ctx *app.Context) handler.Response {
//		return response.String("hello")
//	}
//
// # Context
//
// Context extends context.Context with access to the underlying request and
// writer, path parameters and request-scoped values. Applications usually embed
// their own context type and register a factory with the router.
//
// # Middleware
//
// Middleware wraps a HandlerFunc and may short-circuit by returning its own
// Response, or decorate the Response returned by the next handler. Chain
// composes a stack so that the first middleware runs first.
package handler

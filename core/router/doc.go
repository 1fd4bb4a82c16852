// Package router is a generic HTTP router built on the pattern matching of
// net/http.ServeMux. Handlers receive a typed request context, return a
// handler.Response, and any rendering error is delegated to a single
// configurable error handler.
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Route("/api/items", func(r router.Router[*router.Context]) {
//		r.Get("/", listItems)
//		r.Get("/{id}", getItem)
//	})
//	http.ListenAndServe(":8080", r)
//
// Unmatched paths and unsupported methods are reported to the error handler as
// ErrNotFound and ErrMethodNotAllowed. Panics raised by handlers are recovered
// and reported as PanicError values unless the response was already written.
//
// Custom context types are supported through WithContextFactory:
//
//	r := router.New[*app.Context](router.WithContextFactory(app.NewContext))
package router

// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*app.Context])
//	r.Get("/health/ready", health.Readiness[*app.Context](logger, hub.Ping))
//
// Readiness checks follow the func(context.Context) error signature and
// run in order; the first failure yields 503.
package health

// Package middleware provides HTTP middleware built on handler.Middleware.
//
// Every middleware follows the same pattern: a generic default constructor,
// a WithConfig constructor taking a config struct, and a Skip hook.
//
//	r.Use(
//		middleware.Trace[*app.Context](),
//		middleware.LoggingWithLogger[*app.Context](log),
//		middleware.CORS[*app.Context](),
//	)
//
// # Trace
//
// Trace assigns each request a short trace id, reusing the client's X-Trace-ID
// when present, and echoes it in the response. GetTraceID reads it back and
// TraceIDExtractor attaches it to log records.
//
// # Logging
//
// Logging writes one record per completed request. The wrapped writer
// forwards Flush and Hijack, so Server-Sent Events and websocket upgrades
// work behind it.
//
// # CORS
//
// CORS answers preflight requests, including those for routes that only
// register GET or POST, and decorates regular responses.
//
// # BodyLimit
//
// BodyLimit rejects bodies above a size, first from the declared
// Content-Length and then while the body is read.
package middleware

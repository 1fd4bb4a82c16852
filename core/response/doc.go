// Package response renders handler.Response values: plain text, raw bytes,
// JSON, Server-Sent Events and WebSocket upgrades, plus the structured error
// envelope used by the router's error handler.
//
//	func show(ctx handler.Context) handler.Response {
//		item, err := store.Get(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound.WithError(err))
//		}
//		return response.JSON(item)
//	}
//
// # Errors
//
// Any error returned by a Response reaches the router's ErrorHandler.
// JSONErrorHandler converts it into an HTTPError: errors that already are
// HTTPError keep their code and message, errors implementing StatusCode() int
// map to the matching predefined error, everything else becomes a 500.
// Diagnostic details (cause, panic stack) are only rendered in debug mode.
//
// # Server-Sent Events
//
// SSE streams Event values from a channel until the channel is closed, the
// client disconnects or a write fails, sending keep-alive comments while idle.
package response

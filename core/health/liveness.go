package health

import (
	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/response"
)

// Liveness reports that the process is running. Always "ALIVE" with 200.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

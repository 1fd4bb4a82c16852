package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/logger"
	"github.com/dmitrymomot/clipsync/core/response"
)

// Readiness returns "READY" when every check succeeds and
// 503 Service Unavailable otherwise.
func Readiness[C handler.Context](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}
		return response.String("READY")
	}
}

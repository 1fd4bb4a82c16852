package clipsync

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/clipsync/core/binder"
	"github.com/dmitrymomot/clipsync/core/clipboard"
	"github.com/dmitrymomot/clipsync/core/health"
	"github.com/dmitrymomot/clipsync/core/response"
	"github.com/dmitrymomot/clipsync/core/router"
	"github.com/dmitrymomot/clipsync/core/server"
	"github.com/dmitrymomot/clipsync/middleware"
)

// BasePath is where the relay endpoints are mounted.
const BasePath = "/api/sync"

// App wires the clipboard hub to the HTTP surface.
type App struct {
	cfg    Config
	hub    *clipboard.Hub
	router router.Router[*Context]
	server *server.Server
	logger *slog.Logger
	form   binder.Binder
}

type Option func(*App) error

// New assembles the application. cfg must already be normalized.
func New(cfg Config, opts ...Option) (*App, error) {
	app := &App{
		cfg:  cfg,
		form: binder.Form(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = cfg.Logger()
	}
	if app.hub == nil {
		app.hub = clipboard.New(clipboard.WithLogger(app.logger))
	}
	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	app.router = app.routes()
	return app, nil
}

func WithLogger(logger *slog.Logger) Option {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithHub(hub *clipboard.Hub) Option {
	return func(app *App) error {
		if hub == nil {
			return errors.New("hub cannot be nil")
		}
		app.hub = hub
		return nil
	}
}

func WithServer(server *server.Server) Option {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

func (a *App) routes() router.Router[*Context] {
	r := router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithLogger[*Context](a.logger),
		router.WithErrorHandler(response.JSONErrorHandlerWithConfig[*Context](response.ErrorHandlerConfig{
			Debug:  !a.cfg.IsProduction(),
			Logger: a.logger,
		})),
	)

	r.Use(
		middleware.Trace[*Context](),
		middleware.LoggingWithConfig[*Context](middleware.LoggingConfig{
			Logger:     a.logger,
			LogRequest: true,
		}),
		middleware.CORSWithConfig[*Context](middleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{
				"Accept",
				"Content-Type",
				"Origin",
				"Last-Event-ID",
				"X-Client-Id",
				"X-Client-Name",
				"X-Room-Id",
				middleware.DefaultTraceHeader,
			},
			ExposeHeaders: []string{middleware.DefaultTraceHeader},
		}),
	)

	r.Get("/health/live", health.Liveness[*Context])
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.hub.Healthcheck))

	r.Route(BasePath, func(r router.Router[*Context]) {
		r.Use(requireIdentity)

		r.Get("/sse", a.streamSSE)
		r.Get("/ws", a.streamWS)
		r.Get("/clients", a.clients)
		r.Get("/file", a.blob)
		r.Get("/", a.latest)
		r.With(middleware.BodyLimitWithSize[*Context](a.cfg.MaxUploadSize)).Post("/", a.submit)
	})

	return r
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler { return a.router }

func (a *App) Hub() *clipboard.Hub { return a.hub }

// Run serves until ctx is cancelled. On shutdown the hub closes every
// stream so long-lived connections drain before the server stops.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.server.Run(ctx, a.router))
	g.Go(func() error {
		<-ctx.Done()
		return a.hub.Close()
	})

	return g.Wait()
}

package middleware_test

import (
	"io"
	"net/http"

	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/response"
	"github.com/dmitrymomot/clipsync/core/router"
)

type routerCtx = router.Context

func newRouter(mws ...handler.Middleware[*router.Context]) router.Router[*router.Context] {
	r := router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
	)
	r.Use(mws...)
	return r
}

func ok(ctx *router.Context) handler.Response {
	return response.String("ok")
}

func echoBody(ctx *router.Context) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(data)
		return err
	}
}

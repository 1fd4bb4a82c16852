package clipsync

import (
	"cmp"
	"net/http"

	"github.com/dmitrymomot/clipsync/core/binder"
	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/response"
	"github.com/dmitrymomot/clipsync/pkg/useragent"
)

// Identity is who is calling and which room they act on.
type Identity struct {
	ClientID   string
	ClientName string
	RoomID     string
}

// ErrParamsRequired is answered when a request names no client or room.
var ErrParamsRequired = response.NewHTTPError(http.StatusBadRequest, "params_required", "clientId and roomId are required").
	WithDetails(map[string]any{"keys": []string{"roomId", "clientId"}})

type identityParams struct {
	ClientID   string `query:"clientId" header:"x-client-id"`
	RoomID     string `query:"roomId" header:"x-room-id"`
	ClientName string `query:"clientName" header:"x-client-name"`
}

// requireIdentity resolves the caller. Non-empty headers win over query
// parameters; the name falls back to a User-Agent description, then to the id.
func requireIdentity(next handler.HandlerFunc[*Context]) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		r := ctx.Request()

		var fromHeader, fromQuery identityParams
		if err := binder.Bind(r, &fromHeader, binder.Header()); err != nil {
			return response.Error(response.ErrBadRequest.WithError(err))
		}
		if err := binder.Bind(r, &fromQuery, binder.Query()); err != nil {
			return response.Error(response.ErrBadRequest.WithError(err))
		}

		id := Identity{
			ClientID: cmp.Or(fromHeader.ClientID, fromQuery.ClientID),
			RoomID:   cmp.Or(fromHeader.RoomID, fromQuery.RoomID),
		}
		if id.ClientID == "" || id.RoomID == "" {
			return response.Error(ErrParamsRequired)
		}
		id.ClientName = cmp.Or(
			fromHeader.ClientName,
			fromQuery.ClientName,
			useragent.DeviceName(r.UserAgent()),
			id.ClientID,
		)

		ctx.identity = id
		return next(ctx)
	}
}

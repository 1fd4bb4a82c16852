package clipsync

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/clipsync/core/binder"
	"github.com/dmitrymomot/clipsync/core/clipboard"
	"github.com/dmitrymomot/clipsync/core/handler"
	"github.com/dmitrymomot/clipsync/core/logger"
	"github.com/dmitrymomot/clipsync/core/response"
)

const wsWriteWait = 10 * time.Second

// lastEventID prefers the header EventSource sends on reconnect.
func lastEventID(r *http.Request) string {
	return cmp.Or(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("lastEventId"))
}

func (a *App) join(ctx *Context, stream clipboard.Stream) (*clipboard.Membership, error) {
	id := ctx.Identity()
	r := ctx.Request()
	return a.hub.Join(r.Context(), clipboard.JoinParams{
		ClientID:    id.ClientID,
		ClientName:  id.ClientName,
		RoomID:      id.RoomID,
		LastEventID: lastEventID(r),
		Stream:      stream,
	})
}

func (a *App) streamSSE(ctx *Context) handler.Response {
	stream := newSSEStream(a.cfg.SSEBuffer)
	m, err := a.join(ctx, stream)
	if err != nil {
		return response.Error(httpError(err))
	}

	events := response.SSE(stream.C(),
		response.WithKeepAlive(a.cfg.SSEKeepAlive),
		response.WithSSEErrorHandler(a.reportStreamError),
	)
	return func(w http.ResponseWriter, r *http.Request) error {
		defer m.Close()
		return events(w, r)
	}
}

func (a *App) streamWS(ctx *Context) handler.Response {
	stream := newWSStream(a.cfg.SSEBuffer)
	m, err := a.join(ctx, stream)
	if err != nil {
		return response.Error(httpError(err))
	}

	session := response.WebSocket(a.wsSession(stream),
		response.WithWSAllowAnyOrigin(),
		response.WithWSErrorHandler(a.reportStreamError),
	)
	return func(w http.ResponseWriter, r *http.Request) error {
		defer m.Close()
		return session(w, r)
	}
}

// wsSession writes queued frames until the peer goes away or the stream is closed.
func (a *App) wsSession(stream *chanStream[wsFrame]) func(context.Context, *websocket.Conn) error {
	return func(ctx context.Context, conn *websocket.Conn) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Inbound frames are ignored; reading surfaces the peer closing.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		var ping <-chan time.Time
		if a.cfg.SSEKeepAlive > 0 {
			ticker := time.NewTicker(a.cfg.SSEKeepAlive)
			defer ticker.Stop()
			ping = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case frame, ok := <-stream.C():
				if !ok {
					msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed")
					_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
					return nil
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(frame); err != nil {
					return fmt.Errorf("write frame: %w", err)
				}
			case <-ping:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return fmt.Errorf("write ping: %w", err)
				}
			}
		}
	}
}

func (a *App) reportStreamError(ctx context.Context, err error) {
	a.logger.WarnContext(ctx, "stream error", logger.Error(err))
}

func (a *App) latest(ctx *Context) handler.Response {
	snap, ok := a.hub.Latest(ctx.Identity().RoomID)
	if !ok {
		return response.JSON(struct{}{})
	}
	return response.JSON(snap.Metadata())
}

type blobQuery struct {
	Index string `query:"i"`
}

func (a *App) blob(ctx *Context) handler.Response {
	var q blobQuery
	if err := binder.Bind(ctx.Request(), &q, binder.Query()); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	index := 0
	if q.Index != "" {
		n, err := strconv.Atoi(q.Index)
		if err != nil {
			return response.Error(ErrBlobNotFound.WithError(err))
		}
		index = n
	}

	blob, err := a.hub.Blob(ctx.Identity().RoomID, index)
	if err != nil {
		return response.Error(httpError(err))
	}

	return handler.Wrap(response.Bytes(blob.Data, blob.ContentType, http.StatusOK), func(w http.ResponseWriter, _ *http.Request) {
		if blob.Name != "" {
			w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": blob.Name}))
		}
	})
}

type submission struct {
	Type   string                  `form:"type"`
	Value  string                  `form:"value,raw"`
	Search string                  `form:"search,raw"`
	Blobs  []*multipart.FileHeader `file:"blobs"`
}

type submitResult struct {
	Type  clipboard.Kind `json:"type"`
	Value string         `json:"value"`
}

func (a *App) submit(ctx *Context) handler.Response {
	r := ctx.Request()

	var sub submission
	err := binder.Bind(r, &sub, a.form)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		return response.Error(httpError(err))
	}

	kind, err := clipboard.ParseKind(sub.Type)
	if err != nil {
		return response.Error(httpError(err))
	}

	var blobs []clipboard.Blob
	if kind.HasBlobs() {
		if blobs, err = readBlobs(sub.Blobs); err != nil {
			return response.Error(ErrInvalidUpload.WithError(err))
		}
	}

	payload, err := clipboard.NewPayload(kind, sub.Value, sub.Search, blobs)
	if err != nil {
		return response.Error(httpError(err))
	}

	id := ctx.Identity()
	if _, err := a.hub.Broadcast(r.Context(), id.ClientID, id.RoomID, payload); err != nil {
		return response.Error(httpError(err))
	}

	return response.JSON(submitResult{Type: kind, Value: sub.Value})
}

func readBlobs(files []*multipart.FileHeader) ([]clipboard.Blob, error) {
	blobs := make([]clipboard.Blob, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		blobs = append(blobs, clipboard.Blob{
			Name:        fh.Filename,
			ContentType: cmp.Or(fh.Header.Get("Content-Type"), "application/octet-stream"),
			Data:        data,
		})
	}
	return blobs, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (a *App) clients(ctx *Context) handler.Response {
	return response.JSON(a.hub.Clients(ctx.Identity().RoomID))
}

package clipsync

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/clipsync/core/binder"
	"github.com/dmitrymomot/clipsync/core/clipboard"
	"github.com/dmitrymomot/clipsync/core/response"
)

var (
	ErrBlobNotFound   = response.NewHTTPError(http.StatusNotFound, "blob_not_found", "blob not found")
	ErrUnknownKind    = response.NewHTTPError(http.StatusBadRequest, "unknown_kind", "type must be one of text, rtf, html, image, files")
	ErrInvalidUpload  = response.NewHTTPError(http.StatusBadRequest, "invalid_upload", "failed to read submission")
	ErrRelayClosed    = response.NewHTTPError(http.StatusServiceUnavailable, "relay_closed", "relay is shutting down")
	ErrStreamRejected = response.NewHTTPError(http.StatusInternalServerError, "stream_failed", "failed to open stream")
)

// httpError maps domain and binding errors onto the JSON error envelope.
// The original error is kept as the cause, which the error handler only
// shows outside production.
func httpError(err error) error {
	var httpErr response.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, clipboard.ErrClientIDRequired), errors.Is(err, clipboard.ErrRoomIDRequired):
		return ErrParamsRequired
	case errors.Is(err, clipboard.ErrBlobNotFound):
		return ErrBlobNotFound.WithError(err)
	case errors.Is(err, clipboard.ErrUnknownKind):
		return ErrUnknownKind.WithError(err)
	case errors.Is(err, clipboard.ErrHubClosed):
		return ErrRelayClosed
	case errors.Is(err, clipboard.ErrHandshakeFailed):
		return ErrStreamRejected.WithError(err)
	case errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrInvalidUpload.WithError(err)
	}
	return err
}

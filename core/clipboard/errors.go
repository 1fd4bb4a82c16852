package clipboard

import (
	"errors"
	"net/http"
)

var (
	ErrClientIDRequired = errors.New("client id is required")
	ErrRoomIDRequired   = errors.New("room id is required")
	ErrNilStream        = errors.New("stream is nil")
	ErrHubClosed        = errors.New("clipboard hub is closed")
	ErrHandshakeFailed  = errors.New("failed to deliver open event")

	// ErrUnknownKind is returned by ParseKind for anything outside the five payload kinds.
	ErrUnknownKind     = errors.New("unknown clipboard kind")
	ErrBlobsRequired   = errors.New("kind carries attachments, use NewAttachments")
	ErrBlobsNotAllowed = errors.New("kind does not carry attachments, use NewContent")

	// ErrBlobNotFound covers a room without a payload, a payload without
	// blobs and an index out of range.
	ErrBlobNotFound error = &statusError{msg: "blob not found", status: http.StatusNotFound}
)

// statusError lets HTTP error handlers map domain errors without this
// package knowing about response rendering.
type statusError struct {
	msg    string
	status int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.status }

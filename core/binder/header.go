package binder

import (
	"net/http"
	"net/textproto"
)

// Header creates a binder reading request headers.
// Tag names are canonicalized, so `header:"x-room-id"` matches X-Room-Id.
//
//	type Identity struct {
//		ClientID string `header:"x-client-id"`
//		RoomID   string `header:"x-room-id"`
//	}
func Header() Binder {
	return func(r *http.Request, v any) error {
		values := make(map[string][]string, len(r.Header))
		for k, vs := range r.Header {
			values[textproto.CanonicalMIMEHeaderKey(k)] = vs
		}
		return bindToStructKeyed(v, "header", values, textproto.CanonicalMIMEHeaderKey, ErrFailedToParseHeader)
	}
}

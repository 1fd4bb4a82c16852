package binder

import (
	"net/http"
)

// Query creates a query parameter binder function.
//
// It supports struct tags for custom parameter names:
//   - `query:"name"` - binds to query parameter "name"
//   - `query:"-"` - skips the field
//   - `query:"name,raw"` - keeps control characters in string values
//
// Untagged fields are skipped.
//
//	type StreamQuery struct {
//		ClientID string `query:"clientId"`
//		RoomID   string `query:"roomId"`
//		Index    int    `query:"i"`
//	}
func Query() Binder {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

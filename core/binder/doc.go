// Package binder maps parts of an HTTP request onto struct fields using
// struct tags.
//
// Each Binder reads one source: Query reads `query` tags, Header reads
// `header` tags and Form reads `form` and `file` tags from url-encoded or
// multipart bodies. Binders only touch fields whose source value is present,
// so applying them in sequence gives later binders precedence:
//
//	type identity struct {
//		ClientID string `query:"clientId" header:"x-client-id"`
//		RoomID   string `query:"roomId" header:"x-room-id"`
//	}
//
//	var id identity
//	err := binder.Bind(r, &id, binder.Query(), binder.Header())
//
// String values are stripped of NUL, CR, LF and other control characters
// unless the tag carries the raw option (`form:"value,raw"`).
//
// All errors wrap one of the package's sentinel errors, so handlers can
// match them with errors.Is.
package binder

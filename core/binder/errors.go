package binder

import "errors"

var (
	// ErrUnsupportedMediaType indicates a Content-Type the binder can't parse.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseForm indicates malformed multipart or url-encoded data.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrFailedToParseQuery indicates a query parameter failed type conversion.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParseHeader indicates a header value failed type conversion.
	ErrFailedToParseHeader = errors.New("failed to parse headers")

	// ErrMissingContentType indicates the request lacks a Content-Type header.
	ErrMissingContentType = errors.New("missing content type")
)

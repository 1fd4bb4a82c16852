package binder

import "net/http"

// Binder fills v, a pointer to a struct, from one part of the request.
// Binders are meant to be applied in sequence to the same target.
type Binder func(r *http.Request, v any) error

// Bind applies binders in order and stops on the first error.
func Bind(r *http.Request, v any, binders ...Binder) error {
	for _, b := range binders {
		if err := b(r, v); err != nil {
			return err
		}
	}
	return nil
}

package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// JSON returns a binder for application/json bodies. Unknown fields are
// rejected.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return ErrMissingContentType
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return ErrNotApplicable
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrInvalidJSON)
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return nil
	}
}

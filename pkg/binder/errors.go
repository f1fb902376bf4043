package binder

import "errors"

var (
	ErrNotApplicable        = errors.New("binder: not applicable to this request")
	ErrMissingContentType   = errors.New("binder: missing content type")
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrInvalidForm          = errors.New("binder: invalid form data")
	ErrInvalidJSON          = errors.New("binder: invalid JSON body")
	ErrInvalidTarget        = errors.New("binder: target must be a non-nil pointer to struct")
)

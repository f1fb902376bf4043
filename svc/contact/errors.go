package contact

import "errors"

var (
	ErrInvalidConfig = errors.New("contact: invalid configuration")
	ErrLabels        = errors.New("contact: invalid labels")
	ErrUnknownPolicy = errors.New("contact: unknown policy")
	ErrPanic         = errors.New("contact: recovered panic")
)

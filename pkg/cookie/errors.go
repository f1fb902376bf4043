package cookie

import "errors"

var (
	ErrCookieNotFound   = errors.New("cookie: not found")
	ErrInvalidFormat    = errors.New("cookie: invalid format")
	ErrInvalidSignature = errors.New("cookie: invalid signature")
	ErrDecryptionFailed = errors.New("cookie: decryption failed")
	ErrNoSecret         = errors.New("cookie: at least one secret is required")
	ErrSecretTooShort   = errors.New("cookie: secret is too short")
)

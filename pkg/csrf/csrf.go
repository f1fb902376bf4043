// Package csrf issues and checks single-use anti-forgery tokens bound to a
// server-side session.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"github.com/webtailor/contactkit/pkg/session"
)

// SessionKey is the session data key holding the current token.
const SessionKey = "csrf_token"

// FieldName is the form field carrying the submitted token.
const FieldName = "csrf_token"

var (
	ErrTokenMissing    = errors.New("csrf: token missing")
	ErrTokenMismatch   = errors.New("csrf: token mismatch")
	ErrTokenGeneration = errors.New("csrf: failed to generate token")
)

const tokenBytes = 32

// Token returns the session's token, issuing one when none exists. The caller
// must save the session when a new token is issued.
func Token(s *session.Session) (string, error) {
	if token, ok := s.GetString(SessionKey); ok && token != "" {
		return token, nil
	}
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	s.Set(SessionKey, token)
	return token, nil
}

// Verify compares submitted against the session token in constant time.
// The stored token is consumed whether or not it matches. s must come from
// session.Manager.Middleware, which keeps concurrent requests on one session
// from both seeing the token.
func Verify(s *session.Session, submitted string) error {
	expected, _ := s.GetString(SessionKey)
	s.Delete(SessionKey)

	if expected == "" || submitted == "" {
		return ErrTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

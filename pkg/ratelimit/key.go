package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/webtailor/contactkit/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc derives the bucket key for a request. An empty key skips limiting.
type KeyFunc func(*http.Request) string

// ByIP keys on the address stored by clientip.Middleware, falling back to
// RemoteAddr.
func ByIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

func ByPath(r *http.Request) string {
	return r.URL.Path
}

// Composite joins non-empty keys with ":"; keys longer than 64 bytes are
// replaced by a truncated SHA-256.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		key := strings.Join(parts, ":")
		if len(key) > maxKeyLength {
			sum := sha256.Sum256([]byte(key))
			return hex.EncodeToString(sum[:16])
		}
		return key
	}
}

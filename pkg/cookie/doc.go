// Package cookie reads and writes HTTP cookies, optionally signed (HMAC-SHA256)
// or encrypted (AES-256-GCM).
//
// A Manager is created from one or more secrets. The first secret protects new
// cookies; every secret is tried when reading, so secrets can be rotated
// without logging everyone out. Signing and encryption keys are derived from
// each secret with HKDF-SHA256 under distinct labels, so a secret is never
// used directly as a key.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	err = m.SetEncrypted(w, "sid", token)
//	token, err := m.GetEncrypted(r, "sid")
package cookie

package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const minSecretLength = 32

type keyPair struct {
	sign []byte
	aead cipher.AEAD
}

// Manager writes and reads cookies with shared default attributes.
type Manager struct {
	keys     []keyPair
	defaults Options
}

// New creates a Manager. Empty secrets are ignored; each remaining secret must
// be at least 32 characters long.
func New(secrets []string, opts ...Option) (*Manager, error) {
	var keys []keyPair
	for i, s := range secrets {
		if s == "" {
			continue
		}
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		kp, err := deriveKeys(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, kp)
	}
	if len(keys) == 0 {
		return nil, ErrNoSecret
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{keys: keys, defaults: defaults}, nil
}

func deriveKeys(secret string) (keyPair, error) {
	signKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cookie signing")), signKey); err != nil {
		return keyPair{}, err
	}
	encKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cookie encryption")), encKey); err != nil {
		return keyPair{}, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return keyPair{}, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{sign: signKey, aead: aead}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

// SetSigned writes value with an HMAC so tampering is detected on read.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	m.Set(w, name, m.sign(name, value), opts...)
}

func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(name, raw)
}

// SetEncrypted writes value encrypted and authenticated.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	sealed, err := m.encrypt(name, value)
	if err != nil {
		return err
	}
	m.Set(w, name, sealed, opts...)
	return nil
}

func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decrypt(name, raw)
}

// mac binds the cookie name so a value cannot be replayed under another name.
func mac(key []byte, name, value string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return h.Sum(nil)
}

func (m *Manager) sign(name, value string) string {
	sig := mac(m.keys[0].sign, name, value)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (m *Manager) verify(name, signed string) (string, error) {
	encoded, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, kp := range m.keys {
		if hmac.Equal(sig, mac(kp.sign, name, string(value))) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) encrypt(name, value string) (string, error) {
	aead := m.keys[0].aead
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(name))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (m *Manager) decrypt(name, encoded string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, kp := range m.keys {
		size := kp.aead.NonceSize()
		if len(data) < size {
			return "", ErrInvalidFormat
		}
		plain, err := kp.aead.Open(nil, data[:size], data[size:], []byte(name))
		if err == nil {
			return string(plain), nil
		}
	}
	return "", ErrDecryptionFailed
}

package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Session is the server-side record behind a session token.
type Session struct {
	ID             uuid.UUID           `json:"id"`
	Token          string              `json:"token"`
	Data           map[string]any      `json:"data,omitempty"`
	Flashes        map[string][]string `json:"flashes,omitempty"`
	ExpiresAt      time.Time           `json:"expires_at"`
	LastActivityAt time.Time           `json:"last_activity_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

func newSession(token string, now time.Time, expiresAt time.Time) *Session {
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		Data:           make(map[string]any),
		ExpiresAt:      expiresAt,
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

func (s *Session) IsExpired(now time.Time) bool {
	return s != nil && !now.Before(s.ExpiresAt)
}

func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	v, ok := s.Data[key]
	return v, ok
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetInt64 accepts integer values and the float64 form produced by JSON.
func (s *Session) GetInt64(key string) (int64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// GetStringMap accepts map[string]string and the map[string]any form
// produced by JSON. Non-string values are skipped.
func (s *Session) GetStringMap(key string) (map[string]string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			if str, ok := val.(string); ok {
				out[k] = str
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

func (s *Session) Delete(keys ...string) {
	if s == nil || s.Data == nil {
		return
	}
	for _, key := range keys {
		delete(s.Data, key)
	}
}

// AddFlash queues a message shown once on the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	if s == nil {
		return
	}
	if s.Flashes == nil {
		s.Flashes = make(map[string][]string)
	}
	s.Flashes[kind] = append(s.Flashes[kind], message)
}

// PopFlashes returns and removes all flashes. The caller must Save the
// session for the removal to persist.
func (s *Session) PopFlashes() map[string][]string {
	if s == nil || len(s.Flashes) == 0 {
		return map[string][]string{}
	}
	out := s.Flashes
	s.Flashes = nil
	return out
}

// PeekFlashes returns the queued flashes of kind without consuming them.
func (s *Session) PeekFlashes(kind string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.Flashes[kind])
}

func (s *Session) clone() *Session {
	c := *s
	if s.Data != nil {
		c.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	if s.Flashes != nil {
		c.Flashes = make(map[string][]string, len(s.Flashes))
		for k, v := range s.Flashes {
			c.Flashes[k] = slices.Clone(v)
		}
	}
	return &c
}

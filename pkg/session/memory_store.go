package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Values are copied on the way
// in and out, so callers never share a map with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMemoryStore creates a store. A positive cleanupInterval starts a
// goroutine that evicts expired sessions until Close is called.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		m.wg.Add(1)
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	m.sessions[s.Token] = s.clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.IsExpired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return s.clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.Token] = s.clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// DeleteExpired evicts every expired session.
func (m *MemoryStore) DeleteExpired() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, token)
		}
	}
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	return nil
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.DeleteExpired()
		case <-m.stop:
			return
		}
	}
}

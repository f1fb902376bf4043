package session

import (
	"context"
	"sync"
)

// Locker serializes requests that share a session token. The middleware
// holds the lock from load to the end of the handler, so a value consumed by
// one request (an anti-forgery token, say) cannot be read by another.
type Locker interface {
	Lock(ctx context.Context, token string) (unlock func(), err error)
}

// LocalLocker is an in-process Locker. Entries are dropped once no request
// holds or waits for them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

// Lock blocks until token is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, token string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[token]
	if !ok {
		e = &localLock{ch: make(chan struct{}, 1)}
		l.locks[token] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.release(token, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(token, e)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(token string, e *localLock) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, token)
	}
	l.mu.Unlock()
}

// Len returns the number of tokens currently locked or waited on.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON strings that expire with the session.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store using keys "<prefix><token>". The default
// prefix is "session:".
func NewRedisStore(client redis.UniversalClient, prefix ...string) *RedisStore {
	p := "session:"
	if len(prefix) > 0 && prefix[0] != "" {
		p = prefix[0]
	}
	return &RedisStore{client: client, prefix: p, now: time.Now}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) ttl(s *Session) (time.Duration, error) {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return 0, ErrSessionExpired
	}
	return ttl, nil
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}
	ttl, err := r.ttl(s)
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if err := r.client.Set(ctx, r.key(s.Token), data, ttl).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	if s.IsExpired(r.now()) {
		return nil, ErrSessionExpired
	}
	return &s, nil
}

// Update overwrites an existing session and refreshes its TTL.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}
	ttl, err := r.ttl(s)
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrStore, err)
	}

	ok, err := r.client.SetXX(ctx, r.key(s.Token), data, ttl).Result()
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance using the same Redis.
// A lock expires after ttl even if its holder dies.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisLocker creates a locker with keys "session-lock:<token>".
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: client,
		prefix: "session-lock:",
		ttl:    ttl,
		retry:  25 * time.Millisecond,
	}
}

// Lock polls until the lock is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, token string) (func(), error) {
	key := l.prefix + token
	owner := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil {
			return nil, errors.Join(ErrStore, err)
		}
		if ok {
			return func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(ctx, l.client, []string{key}, owner).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

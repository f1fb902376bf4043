package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result describes one rate limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is zero when Allowed.
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Config sets the bucket shape. Requests tokens refill evenly over Window.
type Config struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"5"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Burst    int           `env:"RATE_LIMIT_BURST" envDefault:"0"`
	IdleTTL  time.Duration `env:"RATE_LIMIT_IDLE_TTL" envDefault:"10m"`
}

func (c Config) normalized() Config {
	if c.Requests <= 0 {
		c.Requests = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.Burst <= 0 {
		c.Burst = c.Requests
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 10 * time.Minute
	}
	return c
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory keeps one token bucket per key in process memory.
type Memory struct {
	cfg   Config
	every rate.Limit
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(cfg Config) *Memory {
	cfg = cfg.normalized()
	m := &Memory{
		cfg:     cfg,
		every:   rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop()
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.every, m.cfg.Burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	m.mu.Unlock()

	res := Result{Limit: m.cfg.Burst}
	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		res.RetryAfter = delay
		return res, nil
	}
	res.Allowed = true
	res.Remaining = max(0, int(b.limiter.TokensAt(now)))
	return res, nil
}

// Sweep drops buckets idle for longer than IdleTTL.
func (m *Memory) Sweep() {
	cutoff := m.now().Add(-m.cfg.IdleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	return nil
}

func (m *Memory) sweepLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.IdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}

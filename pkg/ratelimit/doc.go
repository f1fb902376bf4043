// Package ratelimit throttles requests per key with token buckets from
// golang.org/x/time/rate.
//
//	lim := ratelimit.New(ratelimit.Config{Requests: 5, Window: time.Minute})
//	defer lim.Close()
//	router.With(ratelimit.Middleware(lim, ratelimit.ByIP)).Post("/contact/send", h)
//
// Buckets idle longer than Config.IdleTTL are evicted by a sweeper goroutine
// that Close stops.
package ratelimit

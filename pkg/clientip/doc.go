// Package clientip resolves the originating client address of a request.
//
// By default only the TCP peer address is trusted. Deployments behind a
// reverse proxy list the headers that proxy sets, in priority order:
//
//	r := clientip.New("CF-Connecting-IP", "X-Forwarded-For")
//	router.Use(r.Middleware)
//
// X-Forwarded-For is read left to right and the first valid address wins.
// An unresolvable request yields an empty string.
package clientip

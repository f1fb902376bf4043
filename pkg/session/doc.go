// Package session keeps per-visitor state between requests: in-flight form
// data, the anti-forgery token and one-shot flash messages.
//
// A Manager combines a Store (where session records live) with a Transport
// (how the session token travels). The default transport is an encrypted
// cookie; stores are provided for process memory and Redis.
//
//	mgr := session.New(
//	    session.WithStore(session.NewRedisStore(client)),
//	    session.WithCookieManager(cookies),
//	)
//	router.Use(mgr.Middleware)
//
//	// inside a handler
//	s := session.MustFromContext(r.Context())
//	s.Set("contact_form_data", data)
//	s.AddFlash(session.FlashSuccess, "送信しました")
//	err := mgr.Save(r.Context(), s)
//
// Values stored in Data should be JSON friendly: the Redis store round-trips
// sessions through encoding/json, so numbers come back as float64 and nested
// maps as map[string]any. The typed getters (GetString, GetInt64,
// GetStringMap) accept both the in-memory and the decoded forms.
package session

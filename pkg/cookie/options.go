package cookie

import "net/http"

// Options are the attributes applied to written cookies.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the lifetime in seconds. Zero means a browser-session cookie.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) { o.SameSite = sameSite }
}

func applyOptions(base Options, opts []Option) Options {
	out := base
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

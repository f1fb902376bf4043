package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/textproto"
	"strings"
)

// Resolver extracts client addresses from trusted headers, then RemoteAddr.
type Resolver struct {
	headers []string
}

func New(trustedHeaders ...string) *Resolver {
	headers := make([]string, 0, len(trustedHeaders))
	for _, h := range trustedHeaders {
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, textproto.CanonicalMIMEHeaderKey(h))
		}
	}
	return &Resolver{headers: headers}
}

// Config lists the proxy headers to trust.
type Config struct {
	TrustedHeaders []string `env:"CLIENTIP_TRUSTED_HEADERS" envSeparator:","`
}

func NewFromConfig(cfg Config) *Resolver {
	return New(cfg.TrustedHeaders...)
}

func (rs *Resolver) Resolve(r *http.Request) string {
	for _, h := range rs.headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// GetIP resolves using RemoteAddr only.
func GetIP(r *http.Request) string {
	return (&Resolver{}).Resolve(r)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware stores the resolved address in the request context.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), rs.Resolve(r))))
	})
}

// LoggerExtractor adds client_ip to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}

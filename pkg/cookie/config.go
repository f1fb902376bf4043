package cookie

import (
	"net/http"
	"strings"
)

// Config is the environment form of the manager settings. Secrets is a comma
// separated list, newest first.
type Config struct {
	Secrets  string `env:"COOKIE_SECRETS,required"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"true"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

func (c Config) secrets() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// NewFromConfig builds a Manager from cfg; opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	base := []Option{
		WithSecure(cfg.Secure),
		WithSameSite(parseSameSite(cfg.SameSite)),
	}
	if cfg.Path != "" {
		base = append(base, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		base = append(base, WithDomain(cfg.Domain))
	}
	return New(cfg.secrets(), append(base, opts...)...)
}

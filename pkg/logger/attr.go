package logger

import (
	"log/slog"
	"strings"
	"time"
)

// Error records err under "error". A nil error yields an empty attribute,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// ClientIP records the requester address under "client_ip".
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Policy(name string) slog.Attr {
	return slog.String("policy", name)
}

func State(name string) slog.Attr {
	return slog.String("state", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Fields records the names of failing form fields.
func Fields(names []string) slog.Attr {
	return slog.String("fields", strings.Join(names, ","))
}

// Recipient records a mail address with the local part masked, so logs keep
// the domain for diagnosis without the full address.
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", MaskEmail(addr))
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return "***"
	}
	first := []rune(local)[0]
	return string(first) + "***@" + domain
}

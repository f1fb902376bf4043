package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/webtailor/contactkit/pkg/environment"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures New.
type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat sets the output format. Unknown formats panic: a misconfigured
// logger should stop the process at startup.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination writer. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithContextExtractors registers callbacks run on every record. Nil entries
// are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	return func(o *options) {
		if name == "" || key == nil {
			return
		}
		o.extractors = append(o.extractors, func(ctx context.Context) (slog.Attr, bool) {
			if v := ctx.Value(key); v != nil {
				return slog.Any(name, v), true
			}
			return slog.Attr{}, false
		})
	}
}

// WithDevelopment selects text output at debug level.
func WithDevelopment(service string) Option {
	return preset(service, environment.Development, slog.LevelDebug, FormatText)
}

// WithProduction selects JSON output at info level.
func WithProduction(service string) Option {
	return preset(service, environment.Production, slog.LevelInfo, FormatJSON)
}

func WithStaging(service string) Option {
	return preset(service, environment.Staging, slog.LevelInfo, FormatJSON)
}

// WithEnvironment maps an APP_ENV value to one of the presets. Anything that
// is not production or staging is treated as development.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		switch environment.Parse(env) {
		case environment.Production:
			WithProduction(service)(o)
		case environment.Staging:
			WithStaging(service)(o)
		default:
			WithDevelopment(service)(o)
		}
	}
}

func preset(service string, env environment.Environment, level slog.Level, format Format) Option {
	return func(o *options) {
		o.level = level
		o.format = format
		o.attrs = append(o.attrs, slog.String("env", string(env)))
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
	}
}

// New creates a logger. Defaults: JSON, info level, stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	if o.format == FormatText {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(NewLogHandlerDecorator(handler, o.extractors...))
}

// Discard returns a logger that drops everything. Handy in tests and as a
// nil-logger fallback.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/webtailor/contactkit/pkg/clientip"
	"github.com/webtailor/contactkit/pkg/config"
	"github.com/webtailor/contactkit/pkg/cookie"
	"github.com/webtailor/contactkit/pkg/email"
	"github.com/webtailor/contactkit/pkg/environment"
	"github.com/webtailor/contactkit/pkg/httpserver"
	"github.com/webtailor/contactkit/pkg/logger"
	"github.com/webtailor/contactkit/pkg/ratelimit"
	"github.com/webtailor/contactkit/pkg/redis"
	"github.com/webtailor/contactkit/pkg/requestid"
	"github.com/webtailor/contactkit/pkg/session"
	"github.com/webtailor/contactkit/svc/contact"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
	// LogLevel overrides the environment's default level (debug, info, warn,
	// error).
	LogLevel string `env:"LOG_LEVEL"`
}

type serveConfig struct {
	App       appConfig
	HTTP      httpserver.Config
	Session   session.Config
	Cookie    cookie.Config
	Mail      email.Config
	Redis     redis.Config
	RateLimit ratelimit.Config
	ClientIP  clientip.Config
	Contact   contact.Config
}

func loadServeConfig() (serveConfig, error) {
	var cfg serveConfig
	err := errors.Join(
		config.Load(&cfg.App),
		config.Load(&cfg.HTTP),
		config.Load(&cfg.Session),
		config.Load(&cfg.Cookie),
		config.Load(&cfg.Mail),
		config.Load(&cfg.Redis),
		config.Load(&cfg.RateLimit),
		config.Load(&cfg.ClientIP),
		config.Load(&cfg.Contact),
	)
	return cfg, err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	env := environment.Parse(cfg.App.Env)
	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.App.Env, serviceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	}
	if cfg.App.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.App.LogLevel, err)
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if !env.IsDevelopment() && cfg.Mail.Transport == email.TransportDev {
		log.WarnContext(ctx, "dev mail transport outside development, mail is only written to a local file",
			slog.String("path", cfg.Mail.DevLogPath))
	}

	var stopHooks []httpserver.Option
	checks := map[string]httpserver.Check{}

	var (
		store  session.Store
		locker session.Locker = session.NewLocalLocker()
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		store = session.NewRedisStore(client)
		locker = session.NewRedisLocker(client, cfg.HTTP.WriteTimeout)
		checks["redis"] = redis.Healthcheck(client)
		stopHooks = append(stopHooks, httpserver.WithStopHook(func(context.Context) error {
			return client.Close()
		}))
		log.InfoContext(ctx, "sessions stored in redis")
	} else {
		mem := session.NewMemoryStore(cfg.Session.CleanupInterval)
		store = mem
		stopHooks = append(stopHooks, httpserver.WithStopHook(func(context.Context) error {
			return mem.Close()
		}))
		if env.IsProduction() {
			log.WarnContext(ctx, "REDIS_URL not set, sessions are kept in process memory")
		}
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return err
	}
	sessions := session.NewFromConfig(cfg.Session,
		session.WithStore(store),
		session.WithLocker(locker),
		session.WithCookieManager(cookies),
		session.WithLogger(log),
	)

	sender, err := email.NewFromConfig(cfg.Mail, log)
	if err != nil {
		return err
	}
	send, confirm, err := contact.NewPipelinesFromConfig(cfg.Contact, sender, cfg.Contact.NewJournal(), log)
	if err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.RateLimit)
	stopHooks = append(stopHooks, httpserver.WithStopHook(func(context.Context) error {
		return limiter.Close()
	}))

	svc := contact.NewService(sessions, send, confirm,
		contact.WithRateLimiter(limiter),
		contact.WithServiceLogger(log),
	)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.NewFromConfig(cfg.ClientIP).Middleware,
		environment.Middleware(env),
	)
	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, checks))
	r.Mount("/", svc.Handle())

	log.InfoContext(ctx, "starting contact service",
		logger.Policy(send.Policy().String()),
		slog.String("mail_transport", cfg.Mail.Transport),
		slog.String("audit_log", cfg.Contact.AuditLogPath),
	)

	server := httpserver.NewFromConfig(cfg.HTTP, append(stopHooks, httpserver.WithLogger(log))...)
	return server.Run(ctx, r)
}

// Package logger builds the service's *slog.Logger.
//
// New takes functional options: output format, level, static attributes and
// ContextExtractor callbacks that pull request-scoped values (request id,
// client ip) out of the context on every record. WithEnvironment picks sane
// defaults per deployment: text at debug level for development, JSON at info
// level everywhere else.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "contactd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "submission accepted", logger.Component("contact"), logger.Policy("strict"))
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger

// Package logger builds configured slog loggers for authorization services.
//
// New applies functional options over production-safe defaults (JSON at info
// level on stdout) and wraps the handler with a context decorator, so
// request-scoped values like the acting subject or a request ID ride along
// on every record without threading them through call sites.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("authz"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "role granted",
//	    logger.Subject("alice"),
//	    logger.Relation("g"),
//	)
//
// Attribute helpers (Subject, Domain, Relation, Rule, Decision, ...) keep
// key names consistent across packages.
package logger

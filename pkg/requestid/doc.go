// Package requestid correlates HTTP requests with an opaque identifier.
//
// Middleware attaches an ID to every request: a well-formed client-supplied
// X-Request-ID header is reused, anything else is replaced with a fresh
// UUID. The ID travels in the request context, is echoed in the response
// header, and LoggerExtractor feeds it into structured log records.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid

// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Output goes to stderr by default; the CLI writes results to stdout.
//
// Library packages accept a plain *zap.Logger and treat nil as a no-op
// logger (see OrNop), so they never depend on this package's wrapper.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Debug("api call", zap.String("method", "chat.postMessage"))
//	logger.Warn("rate limited", zap.Time("retry_at", retryAt))
package logging

/*
Package tracing correlates API calls made on behalf of one logical operation.

A trace ID is attached to a context once (for example per CLI command) and
every API call started from that context opens a span under it. Spans are
not collected or exported; their IDs are written to the call's log lines and
sent as request headers.

# Usage

	ctx = tracing.WithTraceID(ctx, tracing.NewTraceID())

	span, ctx := tracing.StartSpan(ctx, "chat.postMessage")
	defer span.Finish()
	logger.Debug("calling", span.Fields()...)

# Trace Format

Trace context travels in request headers:
  - X-Trace-ID: identifier of the whole operation
  - X-Span-ID: identifier of one API call

Both are ULID-based request IDs from internal/shared/id.
*/
package tracing

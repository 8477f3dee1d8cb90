/*
Package resilience provides the rate-limit cooldown shared by every call on
a connection.

# Overview

When the server answers with HTTP 429 it names a window, in seconds, during
which further calls are refused. A Cooldown records the end of that window
and lets callers fail fast without touching the network until it elapses.

# States

- Clear: calls pass through
- Limited: calls fail immediately with the stored retry time

	Clear --[Trip(wait)]-> Limited --[now >= retryAt]-> Clear

The transition back to Clear happens lazily, on the first Check after the
window ends. No retry is scheduled.

# Usage

	cooldown := resilience.NewCooldown(resilience.Settings{
		DefaultWait: 2 * time.Second,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn("rate limit", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	if retryAt, limited := cooldown.Check(); limited {
		return &RateLimitedError{RetryAt: retryAt}
	}
*/
package resilience

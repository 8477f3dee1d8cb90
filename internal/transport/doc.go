// Package transport executes Web API methods over HTTP.
//
// A Connection posts form-encoded parameters to <base>/api/<method> with the
// access token as the first field, parses the JSON envelope, and turns
// ok=false into a classified *APIError. An HTTP 429 trips a shared cooldown
// taken from the Retry-After header; until it elapses every call fails fast
// with *RateLimitedError and performs no I/O.
//
// Usage:
//
//	conn, err := transport.NewConnection(transport.Options{Token: token})
//	if err != nil {
//	    return err
//	}
//	env, err := conn.CallHandled(ctx, "auth.test", nil)
//	if errors.Is(err, transport.ErrAuth) {
//	    // bad token
//	}
package transport

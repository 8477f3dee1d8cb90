package transport

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want ErrorKind
	}{
		{"not_authed", KindAuth},
		{"invalid_auth", KindAuth},
		{"account_inactive", KindAuth},
		{"restricted_action", KindRestricted},
		{"user_is_bot", KindRestricted},
		{"user_is_restricted", KindRestricted},
		{"channel_not_found", KindAPI},
		{"", KindAPI},
		{"INVALID_AUTH", KindAPI},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "api", KindAPI.String())
	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "restricted", KindRestricted.String())
}

func TestAPIErrorIs(t *testing.T) {
	auth := NewAPIError("auth.test", "invalid_auth")
	assert.ErrorIs(t, auth, ErrAuth)
	assert.NotErrorIs(t, auth, ErrAPI)
	assert.NotErrorIs(t, auth, ErrRestricted)
	assert.Equal(t, "slack: auth.test returned an error code: invalid_auth", auth.Error())

	generic := NewAPIError("chat.postMessage", "channel_not_found")
	assert.ErrorIs(t, generic, ErrAPI)
	assert.NotErrorIs(t, generic, ErrAuth)

	wrapped := fmt.Errorf("send: %w", NewAPIError("chat.postMessage", "user_is_bot"))
	assert.ErrorIs(t, wrapped, ErrRestricted)
	var apiErr *APIError
	assert.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, "user_is_bot", apiErr.Code)
}

func TestRateLimitedError(t *testing.T) {
	now := time.Unix(1700000000, 0)
	err := &RateLimitedError{Method: "chat.postMessage", RetryAt: now.Add(5 * time.Second)}

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, 5*time.Second, err.RetryAfter(now))
	assert.Zero(t, err.RetryAfter(now.Add(time.Minute)))
	assert.Contains(t, err.Error(), "chat.postMessage")
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Method: "users.list", Cause: cause}
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "slack: users.list: connection refused", err.Error())

	status := &TransportError{Method: "users.list", StatusCode: 503}
	assert.Equal(t, "slack: users.list: HTTP 503", status.Error())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, parseRetryAfter("30"))
	assert.Equal(t, 1*time.Second, parseRetryAfter(" 1 "))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("-3"))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

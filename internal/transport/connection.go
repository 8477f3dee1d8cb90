package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/config"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/logging"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/tracing"
)

// DefaultBaseURL is the production API host
const DefaultBaseURL = "https://slack.com"

// ErrNoToken is returned by NewConnection without a token
var ErrNoToken = errors.New("transport: token is required")

// Options configures a Connection
type Options struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// DialRetries retries a request that failed before any response
	// arrived. Responses, including 429 and 5xx, are never retried.
	DialRetries int

	// RequestsPerSecond paces calls client-side; zero means unlimited
	RequestsPerSecond float64
	Burst             int
	// DefaultRetryAfter applies to a 429 without a usable Retry-After header
	DefaultRetryAfter time.Duration

	Logger  *zap.Logger
	Metrics *monitoring.Metrics
	// Now is the clock used for rate-limit windows
	Now func() time.Time
	// Transport overrides the pooled HTTP transport
	Transport http.RoundTripper
}

// OptionsFromConfig maps loaded configuration onto connection options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Token:             cfg.Slack.Token,
		BaseURL:           cfg.Slack.BaseURL,
		Timeout:           cfg.Slack.Timeout,
		UserAgent:         cfg.Slack.UserAgent,
		DialRetries:       cfg.Slack.DialRetries,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		DefaultRetryAfter: cfg.RateLimit.DefaultRetryAfter,
	}
}

// Connection executes API methods with one token. It is safe for
// concurrent use; all calls share the rate-limit cooldown.
type Connection struct {
	token    string
	resty    *resty.Client
	limiter  *rate.Limiter
	cooldown *resilience.Cooldown
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	now      func() time.Time
}

// NewConnection creates a connection
func NewConnection(opts Options) (*Connection, error) {
	if opts.Token == "" {
		return nil, ErrNoToken
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "slackwire"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics(nil)
	}
	logger := logging.OrNop(opts.Logger).Named("transport")

	// cleanhttp pooled client underneath; opts.Transport replaces its
	// round tripper
	retrying := retryablehttp.NewClient()
	retrying.Logger = nil
	retrying.RetryMax = opts.DialRetries
	retrying.RetryWaitMin = 100 * time.Millisecond
	retrying.RetryWaitMax = time.Second
	retrying.CheckRetry = retryDialFailures
	retrying.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Transport != nil {
		retrying.HTTPClient.Transport = opts.Transport
	}
	transport := &retryablehttp.RoundTripper{Client: retrying}

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", opts.UserAgent).
		SetTransport(transport)

	limiter := rate.NewLimiter(rate.Inf, 0) // Unlimited by default
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	metrics := opts.Metrics
	cooldown := resilience.NewCooldown(resilience.Settings{
		DefaultWait: opts.DefaultRetryAfter,
		Now:         opts.Now,
		OnStateChange: func(from, to resilience.State) {
			metrics.SetCooldownActive(to == resilience.StateLimited)
			logger.Info("rate limit state changed",
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Connection{
		token:    opts.Token,
		resty:    restyClient,
		limiter:  limiter,
		cooldown: cooldown,
		logger:   logger,
		metrics:  metrics,
		now:      opts.Now,
	}, nil
}

// retryDialFailures retries only when no response arrived, so a call the
// server answered is never sent twice
func retryDialFailures(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil && resp == nil, nil
}

// Metrics returns the metrics the connection records to
func (c *Connection) Metrics() *monitoring.Metrics {
	return c.metrics
}

// RateLimited reports whether calls are refused right now, and until when
func (c *Connection) RateLimited() (time.Time, bool) {
	return c.cooldown.Check()
}

// Call posts params to method and returns the parsed response envelope.
// It does not inspect the ok flag.
func (c *Connection) Call(ctx context.Context, method string, params *Params) (codec.Object, error) {
	if retryAt, limited := c.cooldown.Check(); limited {
		c.metrics.RecordCall(method, monitoring.OutcomeRateLimited, 0)
		c.logger.Debug("call refused while rate limited",
			zap.String("method", method),
			zap.Duration("retry_in", c.cooldown.Remaining()))
		return nil, &RateLimitedError{Method: method, RetryAt: retryAt}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Method: method, Cause: fmt.Errorf("rate limit wait: %w", err)}
	}

	span, ctx := tracing.StartSpan(ctx, method)
	defer span.Finish()
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	tracing.InjectTraceContext(ctx, headers)

	timer := monitoring.NewTimer(c.metrics, method)
	logger := c.logger.With(append(span.Fields(), zap.String("method", method))...)

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(params.Encode(c.token)).
		Post("/api/" + method)
	if err != nil {
		span.SetError(err)
		duration := timer.Stop(monitoring.OutcomeTransport)
		logger.Debug("api call failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, &TransportError{Method: method, Cause: err}
	}

	status := resp.StatusCode()
	span.SetStatus(status)
	if status == http.StatusTooManyRequests {
		retryAt := c.cooldown.Trip(parseRetryAfter(resp.Header().Get("Retry-After")))
		c.metrics.RecordRateLimitTrip()
		duration := timer.Stop(monitoring.OutcomeRateLimited)
		logger.Warn("rate limited",
			zap.Time("retry_at", retryAt),
			zap.Duration("retry_in", c.cooldown.Remaining()),
			zap.Duration("duration", duration))
		return nil, &RateLimitedError{Method: method, RetryAt: retryAt}
	}
	if status >= http.StatusBadRequest {
		timer.Stop(monitoring.OutcomeTransport)
		logger.Debug("api call failed", zap.Int("status", status))
		return nil, &TransportError{Method: method, StatusCode: status}
	}

	env, err := codec.ParseObject(resp.Body())
	if err != nil {
		timer.Stop(monitoring.OutcomeDecode)
		return nil, fmt.Errorf("slack: %s response: %w", method, err)
	}

	outcome := monitoring.OutcomeOK
	if ok, err := env.Bool("ok", true); err == nil && !ok {
		outcome = monitoring.OutcomeAPIError
	}
	duration := timer.Stop(outcome)
	logger.Debug("api call",
		zap.Int("status", status),
		zap.Duration("duration", duration),
		zap.String("outcome", outcome))
	return env, nil
}

// CallHandled is Call followed by envelope checking: ok=false becomes a
// classified *APIError.
func (c *Connection) CallHandled(ctx context.Context, method string, params *Params) (codec.Object, error) {
	env, err := c.Call(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return c.checkEnvelope(method, env)
}

func (c *Connection) checkEnvelope(method string, env codec.Object) (codec.Object, error) {
	ok, err := env.RequiredBool("ok")
	if err != nil {
		return nil, fmt.Errorf("slack: %s response: %w", method, err)
	}
	if ok {
		return env, nil
	}

	code, err := env.RequiredString("error")
	if err != nil {
		return nil, fmt.Errorf("slack: %s response: %w", method, err)
	}
	apiErr := NewAPIError(method, code)
	c.metrics.RecordAPIError(method, apiErr.Kind.String())
	return nil, apiErr
}

// parseRetryAfter reads the header as whole seconds. Zero means use the default.
func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

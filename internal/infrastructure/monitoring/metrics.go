package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes used as the "outcome" label
const (
	OutcomeOK          = "ok"
	OutcomeAPIError    = "api_error"
	OutcomeRateLimited = "rate_limited"
	OutcomeTransport   = "transport_error"
	OutcomeDecode      = "decode_error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// API call metrics
	Calls        *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	APIErrors    *prometheus.CounterVec

	// Rate limit metrics
	RateLimitTrips prometheus.Counter
	CooldownActive prometheus.Gauge

	// RTM metrics
	RTMConnections prometheus.Gauge
	RTMMessages    *prometheus.CounterVec

	// Snapshot for callers without a scraper
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds running totals
type Snapshot struct {
	TotalCalls    int64
	TotalErrors   int64
	RateLimited   int64
	TotalDuration float64 // sum of all call durations in seconds
}

// NewMetrics creates a metrics collector registered on reg. A nil reg
// creates a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slack_api_calls_total",
				Help: "Total number of API calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slack_api_call_duration_seconds",
				Help:    "API call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		APIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slack_api_errors_total",
				Help: "Total number of ok=false responses by error kind",
			},
			[]string{"method", "kind"},
		),

		RateLimitTrips: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "slack_rate_limit_trips_total",
				Help: "Total number of HTTP 429 responses",
			},
		),
		CooldownActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "slack_rate_limit_cooldown_active",
				Help: "1 while calls are refused because of a rate limit window",
			},
		),

		RTMConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "slack_rtm_connections",
				Help: "Number of open RTM sessions",
			},
		),
		RTMMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slack_rtm_messages_total",
				Help: "Total number of RTM frames by direction and event type",
			},
			[]string{"direction", "type"},
		),
	}
}

// RecordCall records a finished API call
func (m *Metrics) RecordCall(method, outcome string, duration time.Duration) {
	m.Calls.WithLabelValues(method, outcome).Inc()
	m.CallDuration.WithLabelValues(method).Observe(duration.Seconds())

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalCalls++
	m.snapshot.TotalDuration += duration.Seconds()
	switch outcome {
	case OutcomeOK:
	case OutcomeRateLimited:
		m.snapshot.RateLimited++
		m.snapshot.TotalErrors++
	default:
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordAPIError records an ok=false response
func (m *Metrics) RecordAPIError(method, kind string) {
	m.APIErrors.WithLabelValues(method, kind).Inc()
}

// RecordRateLimitTrip records a 429 response
func (m *Metrics) RecordRateLimitTrip() {
	m.RateLimitTrips.Inc()
}

// SetCooldownActive flips the cooldown gauge
func (m *Metrics) SetCooldownActive(active bool) {
	if active {
		m.CooldownActive.Set(1)
		return
	}
	m.CooldownActive.Set(0)
}

// RecordRTMMessage records an RTM frame
func (m *Metrics) RecordRTMMessage(direction, msgType string) {
	m.RTMMessages.WithLabelValues(direction, msgType).Inc()
}

// IncRTMConnections increments open RTM sessions
func (m *Metrics) IncRTMConnections() {
	m.RTMConnections.Inc()
}

// DecRTMConnections decrements open RTM sessions
func (m *Metrics) DecRTMConnections() {
	m.RTMConnections.Dec()
}

// Snapshot returns a copy of the running totals
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshot
}

// Timer measures call duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	method  string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, method string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		method:  method,
	}
}

// Stop stops the timer and records the call with outcome
func (t *Timer) Stop(outcome string) time.Duration {
	duration := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.RecordCall(t.method, outcome, duration)
	}
	return duration
}

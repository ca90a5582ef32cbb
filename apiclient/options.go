package apiclient

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/wxapis/metrics"
)

// DefaultTimeout bounds a single call when no custom HTTP client or timeout is given.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	timeoutSet bool
	userAgent  string
	logger     zerolog.Logger
	metrics    metrics.Metricer
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		metrics: metrics.NoopMetrics{},
	}
}

// WithHTTPClient sets the underlying HTTP client. The client is copied, never modified.
// Its own timeout is kept unless WithTimeout is also given, in any order.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
		o.timeoutSet = true
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Metricer) Option {
	return func(o *clientOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

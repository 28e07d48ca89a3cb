package osclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/osclient/endpoint"
)

// DefaultBaseURL is used when no base URL or transport is configured.
const DefaultBaseURL = "http://localhost:9200"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	transport   endpoint.Transport
	userAgent   string
	timeout     time.Duration
	maxBodySize int64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the cluster root URL. A path component is kept as a
// prefix of every request path.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithHTTPClient sets the net/http client used by the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTransport replaces the HTTP transport entirely. Base URL, HTTP client,
// user agent, timeout and body limit options are ignored when it is set.
func WithTransport(t endpoint.Transport) Option {
	return optionFunc(func(c *clientConfig) {
		c.transport = t
	})
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithTimeout bounds every exchange. Negative disables the bound.
// Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxBodySize caps how many response bytes are read.
func WithMaxBodySize(n int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBodySize = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

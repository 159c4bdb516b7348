package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internal/logging"
)

const defaultTimeout = 30 * time.Second

// Client issues requests against a WATS server. It is safe for concurrent
// use. Derivations such as WithHeaders return a new Client sharing the
// underlying transport.
type Client struct {
	baseURL                 string
	http                    *http.Client
	auth                    AuthStrategy
	headers                 http.Header
	cookies                 []*http.Cookie
	userAgent               string
	raiseOnUnexpectedStatus bool
	logger                  *zap.Logger
}

// RetryConfig enables retries of idempotent requests.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Statuses that trigger a retry. Defaults to 429, 502, 503 and 504.
	Statuses []int
}

// BreakerConfig enables the circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	auth       AuthStrategy
	headers    map[string]string
	cookies    []*http.Cookie
	userAgent  string
	raise      bool
	insecure   bool
	logger     *zap.Logger
	retry      *RetryConfig
	rps        float64
	burst      int
	breaker    *BreakerConfig
}

// Option configures a Client.
type Option func(*options)

// WithToken authenticates with a WATS API token.
func WithToken(token string) Option {
	return func(o *options) { o.auth = &TokenAuth{Token: token} }
}

// WithAuth sets a custom authentication strategy.
func WithAuth(a AuthStrategy) Option {
	return func(o *options) { o.auth = a }
}

// WithHTTPClient uses hc for requests. Its transport is wrapped, not replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHeaders adds headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(h))
		}
		maps.Copy(o.headers, h)
	}
}

// WithCookies adds cookies sent with every request.
func WithCookies(cookies ...*http.Cookie) Option {
	return func(o *options) { o.cookies = append(o.cookies, cookies...) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithRaiseOnUnexpectedStatus makes undocumented statuses return an
// *UnexpectedStatusError instead of a nil parsed value.
func WithRaiseOnUnexpectedStatus(raise bool) Option {
	return func(o *options) { o.raise = raise }
}

// WithInsecureSkipVerify disables TLS certificate verification. It applies
// to the default transport only; New fails when it is combined with a
// WithHTTPClient client that carries its own Transport.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *options) { o.insecure = skip }
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRetry retries idempotent requests on transient failures.
func WithRetry(cfg RetryConfig) Option {
	return func(o *options) { o.retry = &cfg }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rps = rps
		o.burst = burst
	}
}

// WithCircuitBreaker rejects requests after repeated server failures.
func WithCircuitBreaker(cfg BreakerConfig) Option {
	return func(o *options) { o.breaker = &cfg }
}

// New creates a client for the WATS server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: need http(s)://host", baseURL)
	}

	o := &options{timeout: defaultTimeout, userAgent: config.DefaultUserAgent}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Global()
	}
	logger := o.logger.With(zap.String("component", "wats-client"))

	var base http.RoundTripper
	var jar http.CookieJar
	if o.httpClient != nil {
		if o.insecure && o.httpClient.Transport != nil {
			return nil, errors.New("WithInsecureSkipVerify has no effect on a custom http.Client transport; configure TLS on that transport")
		}
		base = o.httpClient.Transport
		jar = o.httpClient.Jar
		if o.httpClient.Timeout > 0 {
			o.timeout = o.httpClient.Timeout
		}
	}
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if o.insecure {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed on-prem servers
		}
		base = t
	}

	rt := newLoggingTransport(base, logger)
	if o.rps > 0 {
		rt = newRateLimitTransport(rt, o.rps, o.burst)
	}
	if o.breaker != nil {
		rt = newBreakerTransport(rt, *o.breaker, logger)
	}
	if o.retry != nil && o.retry.MaxRetries > 0 {
		rt = newRetryTransport(rt, *o.retry, logger)
	}

	headers := make(http.Header, len(o.headers))
	for k, v := range o.headers {
		headers.Set(k, v)
	}

	return &Client{
		baseURL:                 u.String(),
		http:                    &http.Client{Transport: rt, Timeout: o.timeout, Jar: jar},
		auth:                    o.auth,
		headers:                 headers,
		cookies:                 o.cookies,
		userAgent:               o.userAgent,
		raiseOnUnexpectedStatus: o.raise,
		logger:                  logger,
	}, nil
}

// NewFromConfig creates a client from loaded configuration. Extra options
// are applied after the configured ones.
func NewFromConfig(cfg *config.Config, extra ...Option) (*Client, error) {
	opts := []Option{
		WithToken(cfg.Token),
		WithTimeout(cfg.Timeout),
		WithRaiseOnUnexpectedStatus(cfg.RaiseOnUnexpectedStatus),
		WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, WithHeaders(cfg.Headers))
	}
	if cfg.Retry.MaxRetries > 0 {
		opts = append(opts, WithRetry(RetryConfig{
			MaxRetries:     cfg.Retry.MaxRetries,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		}))
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	if cfg.CircuitBreaker.Enabled {
		opts = append(opts, WithCircuitBreaker(BreakerConfig{
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			Timeout:          cfg.CircuitBreaker.Timeout,
		}))
	}
	return New(cfg.BaseURL, append(opts, extra...)...)
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// RaisesOnUnexpectedStatus reports the client's unexpected-status mode.
func (c *Client) RaisesOnUnexpectedStatus() bool {
	return c.raiseOnUnexpectedStatus
}

func (c *Client) clone() *Client {
	cp := *c
	cp.headers = c.headers.Clone()
	cp.cookies = append([]*http.Cookie(nil), c.cookies...)
	return &cp
}

// WithHeaders returns a copy of c that also sends h.
func (c *Client) WithHeaders(h map[string]string) *Client {
	cp := c.clone()
	if cp.headers == nil {
		cp.headers = make(http.Header, len(h))
	}
	for k, v := range h {
		cp.headers.Set(k, v)
	}
	return cp
}

// WithCookies returns a copy of c that also sends cookies.
func (c *Client) WithCookies(cookies ...*http.Cookie) *Client {
	cp := c.clone()
	cp.cookies = append(cp.cookies, cookies...)
	return cp
}

// WithTimeout returns a copy of c with a different request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := c.clone()
	hc := *c.http
	hc.Timeout = d
	cp.http = &hc
	return cp
}

// WithRaiseOnUnexpectedStatus returns a copy of c with the given
// unexpected-status mode.
func (c *Client) WithRaiseOnUnexpectedStatus(raise bool) *Client {
	cp := c.clone()
	cp.raiseOnUnexpectedStatus = raise
	return cp
}

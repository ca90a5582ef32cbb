package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/s0up4200/wxapis/metrics"
)

// Client holds a base URL and a shared transport. It has no service-specific logic.
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	service Service
	baseURL string
	http    *resty.Client
	logger  zerolog.Logger
	metrics metrics.Metricer
}

// NewClient creates a new Client for service rooted at baseURL.
// The URL is validated eagerly; no network call is made.
func NewClient(service Service, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidBaseURL, baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q: absolute http(s) URL required", ErrInvalidBaseURL, baseURL)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		hc := *o.httpClient
		rc = resty.NewWithClient(&hc)
	} else {
		rc = resty.New()
	}
	if o.timeoutSet || o.httpClient == nil {
		rc.SetTimeout(o.timeout)
	}
	rc.SetRetryCount(0).
		SetLogger(restyLogger{logger: o.logger}).
		SetHeader("Accept", "application/json")
	if o.userAgent != "" {
		rc.SetHeader("User-Agent", o.userAgent)
	}

	logger := o.logger.With().Str("service", service.String()).Logger()

	return &Client{
		service: service,
		baseURL: baseURL,
		http:    rc,
		logger:  logger,
		metrics: o.metrics,
	}, nil
}

// Clone returns a copy sharing the same transport.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Service returns the service this client targets
func (c *Client) Service() Service {
	return c.service
}

// Logger returns the client's logger
func (c *Client) Logger() zerolog.Logger {
	return c.logger
}

// Request is a pending call built by one of the Client verb helpers.
type Request struct {
	method string
	url    string
	r      *resty.Request
}

// Method returns the HTTP method
func (r *Request) Method() string {
	return r.method
}

// URL returns the fully resolved request URL
func (r *Request) URL() string {
	return r.url
}

// Get builds a GET request.
func (c *Client) Get(ctx context.Context, pathOrURL string) *Request {
	return c.newRequest(ctx, http.MethodGet, pathOrURL)
}

// PostJSON builds a POST request with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, pathOrURL string, body any) *Request {
	req := c.newRequest(ctx, http.MethodPost, pathOrURL)
	req.r.SetHeader("Content-Type", "application/json").SetBody(body)
	return req
}

// PostRaw builds a POST request sending body verbatim.
func (c *Client) PostRaw(ctx context.Context, pathOrURL string, body []byte, contentType string) *Request {
	req := c.newRequest(ctx, http.MethodPost, pathOrURL)
	req.r.SetHeader("Content-Type", contentType).SetBody(body)
	return req
}

func (c *Client) newRequest(ctx context.Context, method, pathOrURL string) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Request{
		method: method,
		url:    c.resolveURL(pathOrURL),
		r:      c.http.R().SetContext(ctx),
	}
}

// resolveURL joins a relative path to the base URL; absolute URLs pass through.
func (c *Client) resolveURL(pathOrURL string) string {
	if u, err := url.Parse(pathOrURL); err == nil && u.IsAbs() {
		return pathOrURL
	}
	if pathOrURL == "" || strings.HasPrefix(pathOrURL, "?") {
		return c.baseURL + pathOrURL
	}
	return c.baseURL + "/" + strings.TrimLeft(pathOrURL, "/")
}

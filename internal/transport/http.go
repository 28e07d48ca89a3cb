// Package transport executes endpoint requests over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/osclient/endpoint"
)

// DefaultMaxBodySize caps how much of a response body is read. It matches
// the client.max_body_bytes config default.
const DefaultMaxBodySize = 100 << 20

// DefaultTimeout bounds a single exchange when the caller sets none.
const DefaultTimeout = 30 * time.Second

// ErrInvalidBaseURL signals a base URL without scheme or host.
var ErrInvalidBaseURL = errors.New("transport: invalid base URL")

// ErrBodyTooLarge signals a response body over the configured cap.
var ErrBodyTooLarge = errors.New("transport: response body too large")

// Config configures an HTTP transport.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:9200. A path
	// component is kept as a prefix of every request path.
	BaseURL string
	// HTTPClient defaults to a client with no timeout of its own.
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds each exchange. Zero means DefaultTimeout; negative
	// disables the bound.
	Timeout     time.Duration
	MaxBodySize int64
	Logger      *slog.Logger
}

// HTTP is an endpoint.Transport over net/http.
type HTTP struct {
	base        *url.URL
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// New validates cfg and returns a transport.
func New(cfg Config) (*HTTP, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	t := &HTTP{
		base:        base,
		client:      cfg.HTTPClient,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		maxBodySize: cfg.MaxBodySize,
		logger:      cfg.Logger,
	}
	if t.client == nil {
		t.client = &http.Client{}
	}
	if t.timeout == 0 {
		t.timeout = DefaultTimeout
	}
	if t.maxBodySize <= 0 {
		t.maxBodySize = DefaultMaxBodySize
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	return t, nil
}

// RequestError reports a failure below HTTP: DNS, connect, TLS, or a
// body that could not be read.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// joinURLPath appends resourcePath to urlPath.
func joinURLPath(urlPath, resourcePath string) string {
	if resourcePath == "" {
		if urlPath == "" {
			return "/"
		}
		return urlPath
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	return urlPath + strings.TrimPrefix(resourcePath, "/")
}

// URL renders the absolute URL of req.
func (t *HTTP) URL(req *endpoint.Request) string {
	u := *t.base
	// req.Path is already percent-encoded.
	rawPath := joinURLPath(u.EscapedPath(), req.Path)
	if p, err := url.PathUnescape(rawPath); err == nil {
		u.Path = p
		u.RawPath = rawPath
	} else {
		u.Path = rawPath
	}
	u.RawQuery = req.Params.Encode()
	return u.String()
}

func (t *HTTP) newRequest(ctx context.Context, req *endpoint.Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
		t.logger.Debug("transport: request body", "endpoint", req.Endpoint, "bytes", len(req.Body))
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.URL(req), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", endpoint.ApplicationJSON)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	return httpReq, nil
}

// Perform implements endpoint.Transport. Every status code is returned as
// a Response; only failures below HTTP are errors.
func (t *HTTP) Perform(ctx context.Context, req *endpoint.Request) (*endpoint.Response, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	httpReq, err := t.newRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Method: req.Method, URL: httpReq.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodySize+1))
	if err != nil {
		return nil, &RequestError{Method: req.Method, URL: httpReq.URL.String(), Err: err}
	}
	if int64(len(data)) > t.maxBodySize {
		return nil, &RequestError{
			Method: req.Method,
			URL:    httpReq.URL.String(),
			Err:    fmt.Errorf("%w: status %d, limit %d bytes", ErrBodyTooLarge, resp.StatusCode, t.maxBodySize),
		}
	}
	t.logger.Debug("transport: response",
		"endpoint", req.Endpoint,
		"status", resp.StatusCode,
		"bytes", len(data),
	)
	return &endpoint.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

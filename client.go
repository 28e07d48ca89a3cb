package osclient

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/transport"
)

// Client is the osclient entry point. It is safe for concurrent use.
type Client struct {
	transport endpoint.Transport
	obs       *observer
}

// New creates a Client. Without options it talks to DefaultBaseURL.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	t := cfg.transport
	if t == nil {
		if cfg.baseURL == "" {
			cfg.baseURL = DefaultBaseURL
		}
		ht, err := transport.New(transport.Config{
			BaseURL:     cfg.baseURL,
			HTTPClient:  cfg.httpClient,
			UserAgent:   cfg.userAgent,
			Timeout:     cfg.timeout,
			MaxBodySize: cfg.maxBodySize,
			Logger:      cfg.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("osclient: %w", err)
		}
		t = ht
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t, obs: obs}, nil
}

// Transport returns the transport requests are sent through.
func (c *Client) Transport() endpoint.Transport { return c.transport }

// Perform executes req against any endpoint descriptor, with the client's
// logging and metrics.
func Perform[Req, Res any](ctx context.Context, c *Client, e *endpoint.Endpoint[Req, Res], req Req) (res Res, err error) {
	start := time.Now()
	defer func() { c.obs.observe(e.ID, start, err) }()

	return endpoint.Execute(ctx, c.transport, e, req)
}

// Exists reports whether a document exists.
func (c *Client) Exists(ctx context.Context, req *core.ExistsRequest) (bool, error) {
	res, err := Perform(ctx, c, core.ExistsEndpoint, req)
	if err != nil {
		return false, err
	}
	return res.Value, nil
}

// Get fetches a document. A missing document is not an error: the
// response has Found set to false.
func (c *Client) Get(ctx context.Context, req *core.GetRequest) (*core.GetResponse, error) {
	return Perform(ctx, c, core.GetEndpoint, req)
}

// Index creates or replaces a document.
func (c *Client) Index(ctx context.Context, req *core.IndexRequest) (*core.IndexResponse, error) {
	return Perform(ctx, c, core.IndexEndpoint, req)
}

// Delete removes a document. Deleting a missing document yields a
// response with result not_found rather than an error.
func (c *Client) Delete(ctx context.Context, req *core.DeleteRequest) (*core.DeleteResponse, error) {
	return Perform(ctx, c, core.DeleteEndpoint, req)
}

// Search runs a search request.
func (c *Client) Search(ctx context.Context, req *core.SearchRequest) (*core.SearchResponse, error) {
	return Perform(ctx, c, core.SearchEndpoint, req)
}

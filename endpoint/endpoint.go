package endpoint

//
// Endpoint descriptors: request type -> method, path, params, body, response.
//

import (
	"context"
	"fmt"
	"net/http"
)

// ApplicationJSON is the content type of every request body.
const ApplicationJSON = "application/json"

// Request is a fully resolved HTTP exchange, ready for a Transport.
type Request struct {
	// Endpoint is the descriptor ID, e.g. "opensearch/exists".
	Endpoint string
	Method   string
	Path     string
	Params   Params
	// Body is nil for body-less requests.
	Body        []byte
	ContentType string
}

// Response is what a Transport returns for a completed exchange,
// whatever its status code.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport executes one HTTP exchange. It owns connections, timeouts and
// retries; descriptors only produce the Request.
type Transport interface {
	Perform(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Perform implements Transport.
func (f TransportFunc) Perform(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Endpoint describes one API operation. Descriptors are stateless and
// shared by every caller.
type Endpoint[Req, Res any] struct {
	// ID names the operation in logs and metrics.
	ID string
	// Method selects the HTTP method.
	Method func(Req) string
	// Path renders the URL path, selecting among the supported templates.
	Path func(Req) (string, error)
	// Params extracts query-string parameters. Nil means none.
	Params func(Req) (Params, error)
	// Body serializes the request body. Nil means the request has none.
	Body func(Req) ([]byte, error)
	// Decoder turns the response into Res or a structured error.
	Decoder Decoder[Res]
}

// Prepare resolves method, path, params and body for req.
func (e *Endpoint[Req, Res]) Prepare(req Req) (*Request, error) {
	path, err := e.Path(req)
	if err != nil {
		return nil, err
	}
	out := &Request{
		Endpoint: e.ID,
		Method:   e.Method(req),
		Path:     path,
	}
	if e.Params != nil {
		if out.Params, err = e.Params(req); err != nil {
			return nil, fmt.Errorf("%s: %w", e.ID, err)
		}
	}
	if e.Body != nil {
		body, err := e.Body(req)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", e.ID, err)
		}
		if body != nil {
			out.Body = body
			out.ContentType = ApplicationJSON
		}
	}
	return out, nil
}

// Decode applies the endpoint's response strategy.
func (e *Endpoint[Req, Res]) Decode(resp *Response) (Res, error) {
	return e.Decoder(resp)
}

// Execute prepares req, hands it to t and decodes the result.
func Execute[Req, Res any](ctx context.Context, t Transport, e *Endpoint[Req, Res], req Req) (Res, error) {
	var zero Res
	httpReq, err := e.Prepare(req)
	if err != nil {
		return zero, err
	}
	resp, err := t.Perform(ctx, httpReq)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", e.ID, err)
	}
	return e.Decode(resp)
}

// Constant returns a method selector that always yields method.
func Constant[Req any](method string) func(Req) string {
	return func(Req) string { return method }
}

package core

import (
	"net/http"

	"github.com/kailas-cloud/osclient/endpoint"
)

// ExistsRequest checks whether a document exists: HEAD /{index}/_doc/{id}.
type ExistsRequest struct {
	docLookup
}

// ExistsRequestBuilder builds an ExistsRequest. It is single-use; start
// one with NewExistsRequest.
type ExistsRequestBuilder struct {
	lookupBuilder[ExistsRequestBuilder]
}

// NewExistsRequest starts an exists request.
func NewExistsRequest() *ExistsRequestBuilder {
	b := &ExistsRequestBuilder{}
	b.self = b
	return b
}

// ExistsRequestOf builds an exists request in one expression.
func ExistsRequestOf(fn func(*ExistsRequestBuilder) *ExistsRequestBuilder) (*ExistsRequest, error) {
	return fn(NewExistsRequest()).Build()
}

// Build validates required members and returns the request.
func (b *ExistsRequestBuilder) Build() (*ExistsRequest, error) {
	l, err := b.build("ExistsRequest")
	if err != nil {
		return nil, err
	}
	return &ExistsRequest{docLookup: l}, nil
}

// ExistsEndpoint answers true for 2xx and false for 404.
var ExistsEndpoint = &endpoint.Endpoint[*ExistsRequest, endpoint.BooleanResponse]{
	ID:     ExistsID,
	Method: endpoint.Constant[*ExistsRequest](http.MethodHead),
	Path: func(r *ExistsRequest) (string, error) {
		return docPath(ExistsID, r.index, r.id)
	},
	Params: func(r *ExistsRequest) (endpoint.Params, error) {
		return r.params()
	},
	Decoder: endpoint.BooleanDecoder(),
}

package core

import (
	"net/http"

	"github.com/kailas-cloud/osclient/endpoint"
)

// GetRequest fetches a document: GET /{index}/_doc/{id}.
type GetRequest struct {
	docLookup
}

// GetRequestBuilder builds a GetRequest. It is single-use; start one with
// NewGetRequest.
type GetRequestBuilder struct {
	lookupBuilder[GetRequestBuilder]
}

// NewGetRequest starts a get request.
func NewGetRequest() *GetRequestBuilder {
	b := &GetRequestBuilder{}
	b.self = b
	return b
}

// GetRequestOf builds a get request in one expression.
func GetRequestOf(fn func(*GetRequestBuilder) *GetRequestBuilder) (*GetRequest, error) {
	return fn(NewGetRequest()).Build()
}

// Build validates required members and returns the request.
func (b *GetRequestBuilder) Build() (*GetRequest, error) {
	l, err := b.build("GetRequest")
	if err != nil {
		return nil, err
	}
	return &GetRequest{docLookup: l}, nil
}

// GetEndpoint decodes a missing document (404 without an error body) as
// a response with Found false.
var GetEndpoint = &endpoint.Endpoint[*GetRequest, *GetResponse]{
	ID:     GetID,
	Method: endpoint.Constant[*GetRequest](http.MethodGet),
	Path: func(r *GetRequest) (string, error) {
		return docPath(GetID, r.index, r.id)
	},
	Params: func(r *GetRequest) (endpoint.Params, error) {
		return r.params()
	},
	Decoder: endpoint.JSONDecoder[*GetResponse](http.StatusNotFound),
}

package core

import (
	"net/http"

	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/types"
)

// DeleteRequest removes a document: DELETE /{index}/_doc/{id}.
type DeleteRequest struct {
	index               string
	id                  string
	ifPrimaryTerm       optional.Value[int64]
	ifSeqNo             optional.Value[int64]
	refresh             optional.Value[types.Refresh]
	routing             optional.Value[string]
	timeout             optional.Value[string]
	version             optional.Value[int64]
	versionType         optional.Value[types.VersionType]
	waitForActiveShards optional.Value[string]
}

func (r *DeleteRequest) Index() string                                  { return r.index }
func (r *DeleteRequest) ID() string                                     { return r.id }
func (r *DeleteRequest) IfPrimaryTerm() optional.Value[int64]           { return r.ifPrimaryTerm }
func (r *DeleteRequest) IfSeqNo() optional.Value[int64]                 { return r.ifSeqNo }
func (r *DeleteRequest) Refresh() optional.Value[types.Refresh]         { return r.refresh }
func (r *DeleteRequest) Routing() optional.Value[string]                { return r.routing }
func (r *DeleteRequest) Timeout() optional.Value[string]                { return r.timeout }
func (r *DeleteRequest) Version() optional.Value[int64]                 { return r.version }
func (r *DeleteRequest) VersionType() optional.Value[types.VersionType] { return r.versionType }
func (r *DeleteRequest) WaitForActiveShards() optional.Value[string]    { return r.waitForActiveShards }

// DeleteRequestBuilder builds a DeleteRequest. It is single-use.
type DeleteRequestBuilder struct {
	endpoint.BuilderBase
	req docRequired
	r   DeleteRequest
}

// NewDeleteRequest starts a delete request.
func NewDeleteRequest() *DeleteRequestBuilder { return &DeleteRequestBuilder{} }

// DeleteRequestOf builds a delete request in one expression.
func DeleteRequestOf(fn func(*DeleteRequestBuilder) *DeleteRequestBuilder) (*DeleteRequest, error) {
	return fn(NewDeleteRequest()).Build()
}

// Index sets the target index. Required.
func (b *DeleteRequestBuilder) Index(v string) *DeleteRequestBuilder {
	b.req.Index = &v
	return b
}

// ID sets the document ID. Required.
func (b *DeleteRequestBuilder) ID(v string) *DeleteRequestBuilder {
	b.req.ID = &v
	return b
}

func (b *DeleteRequestBuilder) IfPrimaryTerm(v int64) *DeleteRequestBuilder {
	b.r.ifPrimaryTerm = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) IfSeqNo(v int64) *DeleteRequestBuilder {
	b.r.ifSeqNo = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) Refresh(v types.Refresh) *DeleteRequestBuilder {
	b.r.refresh = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) Routing(v string) *DeleteRequestBuilder {
	b.r.routing = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) Timeout(v string) *DeleteRequestBuilder {
	b.r.timeout = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) Version(v int64) *DeleteRequestBuilder {
	b.r.version = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) VersionType(v types.VersionType) *DeleteRequestBuilder {
	b.r.versionType = optional.Some(v)
	return b
}

func (b *DeleteRequestBuilder) WaitForActiveShards(v string) *DeleteRequestBuilder {
	b.r.waitForActiveShards = optional.Some(v)
	return b
}

// Build validates required members and returns the request.
func (b *DeleteRequestBuilder) Build() (*DeleteRequest, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if err := endpoint.RequireFields("DeleteRequest", &b.req); err != nil {
		return nil, err
	}
	r := b.r
	r.index = *b.req.Index
	r.id = *b.req.ID
	return &r, nil
}

type deleteQuery struct {
	IfPrimaryTerm       *int64            `schema:"if_primary_term,omitempty"`
	IfSeqNo             *int64            `schema:"if_seq_no,omitempty"`
	Refresh             types.Refresh     `schema:"refresh,omitempty"`
	Routing             *string           `schema:"routing,omitempty"`
	Timeout             *string           `schema:"timeout,omitempty"`
	Version             *int64            `schema:"version,omitempty"`
	VersionType         types.VersionType `schema:"version_type,omitempty"`
	WaitForActiveShards *string           `schema:"wait_for_active_shards,omitempty"`
}

// DeleteEndpoint decodes a missing document (404 without an error body)
// as a response with result "not_found".
var DeleteEndpoint = &endpoint.Endpoint[*DeleteRequest, *DeleteResponse]{
	ID:     DeleteID,
	Method: endpoint.Constant[*DeleteRequest](http.MethodDelete),
	Path: func(r *DeleteRequest) (string, error) {
		return docPath(DeleteID, r.index, r.id)
	},
	Params: func(r *DeleteRequest) (endpoint.Params, error) {
		return endpoint.EncodeParams(deleteQuery{
			IfPrimaryTerm:       r.ifPrimaryTerm.Ptr(),
			IfSeqNo:             r.ifSeqNo.Ptr(),
			Refresh:             r.refresh.UnwrapOr(""),
			Routing:             r.routing.Ptr(),
			Timeout:             r.timeout.Ptr(),
			Version:             r.version.Ptr(),
			VersionType:         r.versionType.UnwrapOr(""),
			WaitForActiveShards: r.waitForActiveShards.Ptr(),
		})
	},
	Decoder: endpoint.JSONDecoder[*DeleteResponse](http.StatusNotFound),
}

package core

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/types"
)

// IndexRequest stores a document. With an ID it is PUT /{index}/_doc/{id};
// without one the server assigns the ID: POST /{index}/_doc.
type IndexRequest struct {
	index               string
	id                  optional.Value[string]
	document            json.RawMessage
	ifPrimaryTerm       optional.Value[int64]
	ifSeqNo             optional.Value[int64]
	opType              optional.Value[types.OpType]
	pipeline            optional.Value[string]
	refresh             optional.Value[types.Refresh]
	requireAlias        optional.Value[bool]
	routing             optional.Value[string]
	timeout             optional.Value[string]
	version             optional.Value[int64]
	versionType         optional.Value[types.VersionType]
	waitForActiveShards optional.Value[string]
}

func (r *IndexRequest) Index() string              { return r.index }
func (r *IndexRequest) ID() optional.Value[string] { return r.id }
func (r *IndexRequest) IfPrimaryTerm() optional.Value[int64] {
	return r.ifPrimaryTerm
}
func (r *IndexRequest) IfSeqNo() optional.Value[int64]         { return r.ifSeqNo }
func (r *IndexRequest) OpType() optional.Value[types.OpType]   { return r.opType }
func (r *IndexRequest) Pipeline() optional.Value[string]       { return r.pipeline }
func (r *IndexRequest) Refresh() optional.Value[types.Refresh] { return r.refresh }
func (r *IndexRequest) RequireAlias() optional.Value[bool]     { return r.requireAlias }
func (r *IndexRequest) Routing() optional.Value[string]        { return r.routing }
func (r *IndexRequest) Timeout() optional.Value[string]        { return r.timeout }
func (r *IndexRequest) Version() optional.Value[int64]         { return r.version }
func (r *IndexRequest) VersionType() optional.Value[types.VersionType] {
	return r.versionType
}
func (r *IndexRequest) WaitForActiveShards() optional.Value[string] { return r.waitForActiveShards }

// Document returns the serialized document.
func (r *IndexRequest) Document() json.RawMessage { return r.document }

type indexRequired struct {
	Index    *string          `json:"index" validate:"required"`
	Document *json.RawMessage `json:"document" validate:"required"`
}

// IndexRequestBuilder builds an IndexRequest. It is single-use.
type IndexRequestBuilder struct {
	endpoint.BuilderBase
	req    indexRequired
	docErr error
	r      IndexRequest
}

// NewIndexRequest starts an index request.
func NewIndexRequest() *IndexRequestBuilder { return &IndexRequestBuilder{} }

// IndexRequestOf builds an index request in one expression.
func IndexRequestOf(fn func(*IndexRequestBuilder) *IndexRequestBuilder) (*IndexRequest, error) {
	return fn(NewIndexRequest()).Build()
}

// Index sets the target index. Required.
func (b *IndexRequestBuilder) Index(v string) *IndexRequestBuilder {
	b.req.Index = &v
	return b
}

// ID sets the document ID.
func (b *IndexRequestBuilder) ID(v string) *IndexRequestBuilder {
	b.r.id = optional.Some(v)
	return b
}

// Document serializes v as the document. Required. Serialization errors
// are reported by Build.
func (b *IndexRequestBuilder) Document(v any) *IndexRequestBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		b.docErr = err
		return b
	}
	return b.DocumentJSON(raw)
}

// DocumentJSON sets an already serialized document. Required.
func (b *IndexRequestBuilder) DocumentJSON(raw []byte) *IndexRequestBuilder {
	doc := json.RawMessage(append([]byte(nil), raw...))
	b.req.Document = &doc
	b.docErr = nil
	return b
}

func (b *IndexRequestBuilder) IfPrimaryTerm(v int64) *IndexRequestBuilder {
	b.r.ifPrimaryTerm = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) IfSeqNo(v int64) *IndexRequestBuilder {
	b.r.ifSeqNo = optional.Some(v)
	return b
}

// OpType selects create-only semantics with types.OpTypeCreate.
func (b *IndexRequestBuilder) OpType(v types.OpType) *IndexRequestBuilder {
	b.r.opType = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) Pipeline(v string) *IndexRequestBuilder {
	b.r.pipeline = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) Refresh(v types.Refresh) *IndexRequestBuilder {
	b.r.refresh = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) RequireAlias(v bool) *IndexRequestBuilder {
	b.r.requireAlias = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) Routing(v string) *IndexRequestBuilder {
	b.r.routing = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) Timeout(v string) *IndexRequestBuilder {
	b.r.timeout = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) Version(v int64) *IndexRequestBuilder {
	b.r.version = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) VersionType(v types.VersionType) *IndexRequestBuilder {
	b.r.versionType = optional.Some(v)
	return b
}

func (b *IndexRequestBuilder) WaitForActiveShards(v string) *IndexRequestBuilder {
	b.r.waitForActiveShards = optional.Some(v)
	return b
}

// Build validates required members and returns the request.
func (b *IndexRequestBuilder) Build() (*IndexRequest, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if b.docErr != nil {
		return nil, fmt.Errorf("IndexRequest: encode document: %w", b.docErr)
	}
	if err := endpoint.RequireFields("IndexRequest", &b.req); err != nil {
		return nil, err
	}
	r := b.r
	r.index = *b.req.Index
	r.document = *b.req.Document
	return &r, nil
}

type indexQuery struct {
	IfPrimaryTerm       *int64            `schema:"if_primary_term,omitempty"`
	IfSeqNo             *int64            `schema:"if_seq_no,omitempty"`
	OpType              types.OpType      `schema:"op_type,omitempty"`
	Pipeline            *string           `schema:"pipeline,omitempty"`
	Refresh             types.Refresh     `schema:"refresh,omitempty"`
	RequireAlias        *bool             `schema:"require_alias,omitempty"`
	Routing             *string           `schema:"routing,omitempty"`
	Timeout             *string           `schema:"timeout,omitempty"`
	Version             *int64            `schema:"version,omitempty"`
	VersionType         types.VersionType `schema:"version_type,omitempty"`
	WaitForActiveShards *string           `schema:"wait_for_active_shards,omitempty"`
}

// docID is the id both the method and the path are chosen from. An empty
// id counts as absent so the server assigns one.
func (r *IndexRequest) docID() string { return r.id.UnwrapOr("") }

// IndexEndpoint writes a document.
var IndexEndpoint = &endpoint.Endpoint[*IndexRequest, *IndexResponse]{
	ID: IndexID,
	Method: func(r *IndexRequest) string {
		if r.docID() != "" {
			return http.MethodPut
		}
		return http.MethodPost
	},
	Path: func(r *IndexRequest) (string, error) {
		return indexPath(r.index, r.docID())
	},
	Params: func(r *IndexRequest) (endpoint.Params, error) {
		return endpoint.EncodeParams(indexQuery{
			IfPrimaryTerm:       r.ifPrimaryTerm.Ptr(),
			IfSeqNo:             r.ifSeqNo.Ptr(),
			OpType:              r.opType.UnwrapOr(""),
			Pipeline:            r.pipeline.Ptr(),
			Refresh:             r.refresh.UnwrapOr(""),
			RequireAlias:        r.requireAlias.Ptr(),
			Routing:             r.routing.Ptr(),
			Timeout:             r.timeout.Ptr(),
			Version:             r.version.Ptr(),
			VersionType:         r.versionType.UnwrapOr(""),
			WaitForActiveShards: r.waitForActiveShards.Ptr(),
		})
	},
	Body: func(r *IndexRequest) ([]byte, error) {
		return r.document, nil
	},
	Decoder: endpoint.JSONDecoder[*IndexResponse](),
}

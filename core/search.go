package core

import (
	"net/http"

	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

// SearchRequest runs a query: POST /_search, or POST /{index,...}/_search
// when indices are given.
type SearchRequest struct {
	indices []string

	allowNoIndices    optional.Value[bool]
	ignoreUnavailable optional.Value[bool]
	preference        optional.Value[string]
	requestCache      optional.Value[bool]
	routing           []string
	searchType        optional.Value[types.SearchType]

	source         optional.Value[types.SourceConfig]
	explain        optional.Value[bool]
	from           optional.Value[int]
	minScore       optional.Value[float64]
	query          optional.Value[querydsl.Query]
	size           optional.Value[int]
	terminateAfter optional.Value[int64]
	timeout        optional.Value[string]
	trackTotalHits optional.Value[types.TrackHits]
	version        optional.Value[bool]
}

// Indices returns the targeted indices; empty means all.
func (r *SearchRequest) Indices() []string { return r.indices }

func (r *SearchRequest) AllowNoIndices() optional.Value[bool]            { return r.allowNoIndices }
func (r *SearchRequest) IgnoreUnavailable() optional.Value[bool]         { return r.ignoreUnavailable }
func (r *SearchRequest) Preference() optional.Value[string]              { return r.preference }
func (r *SearchRequest) RequestCache() optional.Value[bool]              { return r.requestCache }
func (r *SearchRequest) Routing() []string                               { return r.routing }
func (r *SearchRequest) SearchType() optional.Value[types.SearchType]    { return r.searchType }
func (r *SearchRequest) Source() optional.Value[types.SourceConfig]      { return r.source }
func (r *SearchRequest) Explain() optional.Value[bool]                   { return r.explain }
func (r *SearchRequest) From() optional.Value[int]                       { return r.from }
func (r *SearchRequest) MinScore() optional.Value[float64]               { return r.minScore }
func (r *SearchRequest) Query() optional.Value[querydsl.Query]           { return r.query }
func (r *SearchRequest) Size() optional.Value[int]                       { return r.size }
func (r *SearchRequest) TerminateAfter() optional.Value[int64]           { return r.terminateAfter }
func (r *SearchRequest) Timeout() optional.Value[string]                 { return r.timeout }
func (r *SearchRequest) TrackTotalHits() optional.Value[types.TrackHits] { return r.trackTotalHits }
func (r *SearchRequest) Version() optional.Value[bool]                   { return r.version }

// SearchRequestBuilder builds a SearchRequest. It is single-use. Nothing
// is required: an empty request matches every document.
type SearchRequestBuilder struct {
	endpoint.BuilderBase
	r SearchRequest
}

// NewSearchRequest starts a search request.
func NewSearchRequest() *SearchRequestBuilder { return &SearchRequestBuilder{} }

// SearchRequestOf builds a search request in one expression.
func SearchRequestOf(fn func(*SearchRequestBuilder) *SearchRequestBuilder) (*SearchRequest, error) {
	return fn(NewSearchRequest()).Build()
}

// Index appends target indices.
func (b *SearchRequestBuilder) Index(v ...string) *SearchRequestBuilder {
	b.r.indices = append(b.r.indices, v...)
	return b
}

func (b *SearchRequestBuilder) AllowNoIndices(v bool) *SearchRequestBuilder {
	b.r.allowNoIndices = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) IgnoreUnavailable(v bool) *SearchRequestBuilder {
	b.r.ignoreUnavailable = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) Preference(v string) *SearchRequestBuilder {
	b.r.preference = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) RequestCache(v bool) *SearchRequestBuilder {
	b.r.requestCache = optional.Some(v)
	return b
}

// Routing appends routing values.
func (b *SearchRequestBuilder) Routing(v ...string) *SearchRequestBuilder {
	b.r.routing = append(b.r.routing, v...)
	return b
}

func (b *SearchRequestBuilder) SearchType(v types.SearchType) *SearchRequestBuilder {
	b.r.searchType = optional.Some(v)
	return b
}

// Source selects or filters the returned sources.
func (b *SearchRequestBuilder) Source(v types.SourceConfig) *SearchRequestBuilder {
	b.r.source = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) Explain(v bool) *SearchRequestBuilder {
	b.r.explain = optional.Some(v)
	return b
}

// From sets the offset of the first hit.
func (b *SearchRequestBuilder) From(v int) *SearchRequestBuilder {
	b.r.from = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) MinScore(v float64) *SearchRequestBuilder {
	b.r.minScore = optional.Some(v)
	return b
}

// Query sets the query. Without one every document matches.
func (b *SearchRequestBuilder) Query(v querydsl.Query) *SearchRequestBuilder {
	b.r.query = optional.Some(v)
	return b
}

// Size sets the maximum number of hits returned.
func (b *SearchRequestBuilder) Size(v int) *SearchRequestBuilder {
	b.r.size = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) TerminateAfter(v int64) *SearchRequestBuilder {
	b.r.terminateAfter = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) Timeout(v string) *SearchRequestBuilder {
	b.r.timeout = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) TrackTotalHits(v types.TrackHits) *SearchRequestBuilder {
	b.r.trackTotalHits = optional.Some(v)
	return b
}

func (b *SearchRequestBuilder) Version(v bool) *SearchRequestBuilder {
	b.r.version = optional.Some(v)
	return b
}

// Build returns the request.
func (b *SearchRequestBuilder) Build() (*SearchRequest, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	r := b.r
	r.indices = cloneStrings(r.indices)
	r.routing = cloneStrings(r.routing)
	return &r, nil
}

var searchBodyCodec = codec.NewObject("SearchRequest", NewSearchRequest, (*SearchRequestBuilder).Build).
	Add(
		codec.Prop("_source", (*SearchRequest).Source, (*SearchRequestBuilder).Source),
		codec.Prop("explain", (*SearchRequest).Explain, (*SearchRequestBuilder).Explain),
		codec.Prop("from", (*SearchRequest).From, (*SearchRequestBuilder).From),
		codec.Prop("min_score", (*SearchRequest).MinScore, (*SearchRequestBuilder).MinScore),
		codec.Prop("query", (*SearchRequest).Query, (*SearchRequestBuilder).Query),
		codec.Prop("size", (*SearchRequest).Size, (*SearchRequestBuilder).Size),
		codec.Prop("terminate_after", (*SearchRequest).TerminateAfter, (*SearchRequestBuilder).TerminateAfter),
		codec.Prop("timeout", (*SearchRequest).Timeout, (*SearchRequestBuilder).Timeout),
		codec.Prop("track_total_hits", (*SearchRequest).TrackTotalHits, (*SearchRequestBuilder).TrackTotalHits),
		codec.Prop("version", (*SearchRequest).Version, (*SearchRequestBuilder).Version),
	)

// EncodeSearchBody serializes the body members of r.
func EncodeSearchBody(r *SearchRequest) ([]byte, error) {
	return searchBodyCodec.Encode(r)
}

// DecodeSearchBody applies a search body to b. Members already set on b
// are overwritten; indices and query parameters are left alone.
func DecodeSearchBody(b *SearchRequestBuilder, data []byte) error {
	return searchBodyCodec.DecodeInto(b, data)
}

type searchQuery struct {
	AllowNoIndices    *bool            `schema:"allow_no_indices,omitempty"`
	IgnoreUnavailable *bool            `schema:"ignore_unavailable,omitempty"`
	Preference        *string          `schema:"preference,omitempty"`
	RequestCache      *bool            `schema:"request_cache,omitempty"`
	Routing           []string         `schema:"routing,omitempty"`
	SearchType        types.SearchType `schema:"search_type,omitempty"`
}

// SearchEndpoint runs a search.
var SearchEndpoint = &endpoint.Endpoint[*SearchRequest, *SearchResponse]{
	ID:     SearchID,
	Method: endpoint.Constant[*SearchRequest](http.MethodPost),
	Path: func(r *SearchRequest) (string, error) {
		present := endpoint.PathSet(0).With(bitIndex, len(r.indices) > 0)
		return endpoint.ResolvePath(SearchID, r, present,
			endpoint.Template[*SearchRequest]{Mask: 0, Build: func(_ *SearchRequest, p *endpoint.PathBuilder) {
				p.Literal("_search")
			}},
			endpoint.Template[*SearchRequest]{Mask: bitIndex, Build: func(r *SearchRequest, p *endpoint.PathBuilder) {
				p.Segments(r.indices).Literal("_search")
			}},
		)
	},
	Params: func(r *SearchRequest) (endpoint.Params, error) {
		return endpoint.EncodeParams(searchQuery{
			AllowNoIndices:    r.allowNoIndices.Ptr(),
			IgnoreUnavailable: r.ignoreUnavailable.Ptr(),
			Preference:        r.preference.Ptr(),
			RequestCache:      r.requestCache.Ptr(),
			Routing:           r.routing,
			SearchType:        r.searchType.UnwrapOr(""),
		})
	},
	Body:    EncodeSearchBody,
	Decoder: endpoint.JSONDecoder[*SearchResponse](),
}

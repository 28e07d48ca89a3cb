package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
)

// MatchPhraseQuery matches documents whose field contains the analyzed
// query terms as a phrase, allowing up to slop positions between them.
type MatchPhraseQuery struct {
	QueryBase
	field          string
	analyzer       optional.Value[string]
	query          string
	slop           optional.Value[int]
	zeroTermsQuery optional.Value[ZeroTermsQuery]
}

// Field returns the queried field.
func (q *MatchPhraseQuery) Field() string { return q.field }

// Analyzer returns the analyzer applied to the query text.
func (q *MatchPhraseQuery) Analyzer() optional.Value[string] { return q.analyzer }

// Query returns the phrase text.
func (q *MatchPhraseQuery) Query() string { return q.query }

// Slop returns the allowed distance between phrase terms.
func (q *MatchPhraseQuery) Slop() optional.Value[int] { return q.slop }

// ZeroTermsQuery returns the behaviour when analysis yields no terms.
func (q *MatchPhraseQuery) ZeroTermsQuery() optional.Value[ZeroTermsQuery] {
	return q.zeroTermsQuery
}

// Kind implements Variant.
func (q *MatchPhraseQuery) Kind() Kind { return KindMatchPhrase }

// ToQuery wraps q in a Query.
func (q *MatchPhraseQuery) ToQuery() Query { return NewQuery(q) }

func (q *MatchPhraseQuery) encodeBody() ([]byte, error) { return matchPhraseCodec.Encode(q) }

type matchPhraseRequired struct {
	Field *string `json:"field" validate:"required"`
	Query *string `json:"query" validate:"required"`
}

// MatchPhraseQueryBuilder builds a MatchPhraseQuery. It is single-use.
type MatchPhraseQueryBuilder struct {
	endpoint.BuilderBase
	base           QueryBase
	req            matchPhraseRequired
	analyzer       optional.Value[string]
	slop           optional.Value[int]
	zeroTermsQuery optional.Value[ZeroTermsQuery]
}

// NewMatchPhrase starts a match_phrase query.
func NewMatchPhrase() *MatchPhraseQueryBuilder { return &MatchPhraseQueryBuilder{} }

// MatchPhraseOf builds a match_phrase query in one expression.
func MatchPhraseOf(fn func(*MatchPhraseQueryBuilder) *MatchPhraseQueryBuilder) (*MatchPhraseQuery, error) {
	return fn(NewMatchPhrase()).Build()
}

// Boost sets the relevance multiplier.
func (b *MatchPhraseQueryBuilder) Boost(v float64) *MatchPhraseQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

// QueryName sets `_name`.
func (b *MatchPhraseQueryBuilder) QueryName(v string) *MatchPhraseQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

// Field sets the queried field. Required.
func (b *MatchPhraseQueryBuilder) Field(v string) *MatchPhraseQueryBuilder {
	b.req.Field = &v
	return b
}

// Analyzer sets the analyzer.
func (b *MatchPhraseQueryBuilder) Analyzer(v string) *MatchPhraseQueryBuilder {
	b.analyzer = optional.Some(v)
	return b
}

// Query sets the phrase text. Required.
func (b *MatchPhraseQueryBuilder) Query(v string) *MatchPhraseQueryBuilder {
	b.req.Query = &v
	return b
}

// Slop sets the allowed distance between terms.
func (b *MatchPhraseQueryBuilder) Slop(v int) *MatchPhraseQueryBuilder {
	b.slop = optional.Some(v)
	return b
}

// ZeroTermsQuery sets the empty-analysis behaviour.
func (b *MatchPhraseQueryBuilder) ZeroTermsQuery(v ZeroTermsQuery) *MatchPhraseQueryBuilder {
	b.zeroTermsQuery = optional.Some(v)
	return b
}

// Build validates required members and returns the query.
func (b *MatchPhraseQueryBuilder) Build() (*MatchPhraseQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if err := endpoint.RequireFields("MatchPhraseQuery", &b.req); err != nil {
		return nil, err
	}
	return &MatchPhraseQuery{
		QueryBase:      b.base,
		field:          *b.req.Field,
		analyzer:       b.analyzer,
		query:          *b.req.Query,
		slop:           b.slop,
		zeroTermsQuery: b.zeroTermsQuery,
	}, nil
}

var matchPhraseCodec = codec.NewObject("MatchPhraseQuery", NewMatchPhrase, (*MatchPhraseQueryBuilder).Build).
	Add(baseProps[*MatchPhraseQuery](func(b *MatchPhraseQueryBuilder) *QueryBase { return &b.base })...).
	Add(
		codec.Prop("analyzer", (*MatchPhraseQuery).Analyzer, (*MatchPhraseQueryBuilder).Analyzer),
		codec.Required("query", (*MatchPhraseQuery).Query, (*MatchPhraseQueryBuilder).Query),
		codec.Prop("slop", (*MatchPhraseQuery).Slop, (*MatchPhraseQueryBuilder).Slop),
		codec.Prop("zero_terms_query", (*MatchPhraseQuery).ZeroTermsQuery, (*MatchPhraseQueryBuilder).ZeroTermsQuery),
	).
	WithKey((*MatchPhraseQuery).Field, (*MatchPhraseQueryBuilder).Field).
	WithShortcut("query")

func init() {
	registerVariant(KindMatchPhrase, func(data []byte) (Variant, error) {
		q, err := matchPhraseCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

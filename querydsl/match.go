package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/types"
)

// MatchQuery is the standard full-text query: the query value is analyzed
// and the resulting terms are combined with Operator.
type MatchQuery struct {
	QueryBase
	field                           string
	analyzer                        optional.Value[string]
	autoGenerateSynonymsPhraseQuery optional.Value[bool]
	fuzziness                       optional.Value[string]
	lenient                         optional.Value[bool]
	maxExpansions                   optional.Value[int]
	minimumShouldMatch              optional.Value[string]
	operator                        optional.Value[Operator]
	prefixLength                    optional.Value[int]
	query                           types.FieldValue
	zeroTermsQuery                  optional.Value[ZeroTermsQuery]
}

func (q *MatchQuery) Field() string                    { return q.field }
func (q *MatchQuery) Analyzer() optional.Value[string] { return q.analyzer }
func (q *MatchQuery) AutoGenerateSynonymsPhraseQuery() optional.Value[bool] {
	return q.autoGenerateSynonymsPhraseQuery
}
func (q *MatchQuery) Fuzziness() optional.Value[string]          { return q.fuzziness }
func (q *MatchQuery) Lenient() optional.Value[bool]              { return q.lenient }
func (q *MatchQuery) MaxExpansions() optional.Value[int]         { return q.maxExpansions }
func (q *MatchQuery) MinimumShouldMatch() optional.Value[string] { return q.minimumShouldMatch }
func (q *MatchQuery) Operator() optional.Value[Operator]         { return q.operator }
func (q *MatchQuery) PrefixLength() optional.Value[int]          { return q.prefixLength }
func (q *MatchQuery) Query() types.FieldValue                    { return q.query }
func (q *MatchQuery) ZeroTermsQuery() optional.Value[ZeroTermsQuery] {
	return q.zeroTermsQuery
}

// Kind implements Variant.
func (q *MatchQuery) Kind() Kind { return KindMatch }

// ToQuery wraps q in a Query.
func (q *MatchQuery) ToQuery() Query { return NewQuery(q) }

func (q *MatchQuery) encodeBody() ([]byte, error) { return matchCodec.Encode(q) }

type matchRequired struct {
	Field *string           `json:"field" validate:"required"`
	Query *types.FieldValue `json:"query" validate:"required"`
}

// MatchQueryBuilder builds a MatchQuery. It is single-use.
type MatchQueryBuilder struct {
	endpoint.BuilderBase
	base                            QueryBase
	req                             matchRequired
	analyzer                        optional.Value[string]
	autoGenerateSynonymsPhraseQuery optional.Value[bool]
	fuzziness                       optional.Value[string]
	lenient                         optional.Value[bool]
	maxExpansions                   optional.Value[int]
	minimumShouldMatch              optional.Value[string]
	operator                        optional.Value[Operator]
	prefixLength                    optional.Value[int]
	zeroTermsQuery                  optional.Value[ZeroTermsQuery]
}

// NewMatch starts a match query.
func NewMatch() *MatchQueryBuilder { return &MatchQueryBuilder{} }

// MatchOf builds a match query in one expression.
func MatchOf(fn func(*MatchQueryBuilder) *MatchQueryBuilder) (*MatchQuery, error) {
	return fn(NewMatch()).Build()
}

func (b *MatchQueryBuilder) Boost(v float64) *MatchQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) QueryName(v string) *MatchQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

// Field sets the queried field. Required.
func (b *MatchQueryBuilder) Field(v string) *MatchQueryBuilder {
	b.req.Field = &v
	return b
}

func (b *MatchQueryBuilder) Analyzer(v string) *MatchQueryBuilder {
	b.analyzer = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) AutoGenerateSynonymsPhraseQuery(v bool) *MatchQueryBuilder {
	b.autoGenerateSynonymsPhraseQuery = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) Fuzziness(v string) *MatchQueryBuilder {
	b.fuzziness = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) Lenient(v bool) *MatchQueryBuilder {
	b.lenient = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) MaxExpansions(v int) *MatchQueryBuilder {
	b.maxExpansions = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) MinimumShouldMatch(v string) *MatchQueryBuilder {
	b.minimumShouldMatch = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) Operator(v Operator) *MatchQueryBuilder {
	b.operator = optional.Some(v)
	return b
}

func (b *MatchQueryBuilder) PrefixLength(v int) *MatchQueryBuilder {
	b.prefixLength = optional.Some(v)
	return b
}

// Query sets the value to analyze. Required.
func (b *MatchQueryBuilder) Query(v types.FieldValue) *MatchQueryBuilder {
	b.req.Query = &v
	return b
}

// Text is shorthand for Query(types.StringValue(v)).
func (b *MatchQueryBuilder) Text(v string) *MatchQueryBuilder {
	return b.Query(types.StringValue(v))
}

func (b *MatchQueryBuilder) ZeroTermsQuery(v ZeroTermsQuery) *MatchQueryBuilder {
	b.zeroTermsQuery = optional.Some(v)
	return b
}

// Build validates required members and returns the query.
func (b *MatchQueryBuilder) Build() (*MatchQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if err := endpoint.RequireFields("MatchQuery", &b.req); err != nil {
		return nil, err
	}
	return &MatchQuery{
		QueryBase:                       b.base,
		field:                           *b.req.Field,
		analyzer:                        b.analyzer,
		autoGenerateSynonymsPhraseQuery: b.autoGenerateSynonymsPhraseQuery,
		fuzziness:                       b.fuzziness,
		lenient:                         b.lenient,
		maxExpansions:                   b.maxExpansions,
		minimumShouldMatch:              b.minimumShouldMatch,
		operator:                        b.operator,
		prefixLength:                    b.prefixLength,
		query:                           *b.req.Query,
		zeroTermsQuery:                  b.zeroTermsQuery,
	}, nil
}

var matchCodec = codec.NewObject("MatchQuery", NewMatch, (*MatchQueryBuilder).Build).
	Add(baseProps[*MatchQuery](func(b *MatchQueryBuilder) *QueryBase { return &b.base })...).
	Add(
		codec.Prop("analyzer", (*MatchQuery).Analyzer, (*MatchQueryBuilder).Analyzer),
		codec.Prop("auto_generate_synonyms_phrase_query",
			(*MatchQuery).AutoGenerateSynonymsPhraseQuery, (*MatchQueryBuilder).AutoGenerateSynonymsPhraseQuery),
		codec.Prop("fuzziness", (*MatchQuery).Fuzziness, (*MatchQueryBuilder).Fuzziness),
		codec.Prop("lenient", (*MatchQuery).Lenient, (*MatchQueryBuilder).Lenient),
		codec.Prop("max_expansions", (*MatchQuery).MaxExpansions, (*MatchQueryBuilder).MaxExpansions),
		codec.Prop("minimum_should_match", (*MatchQuery).MinimumShouldMatch, (*MatchQueryBuilder).MinimumShouldMatch),
		codec.Prop("operator", (*MatchQuery).Operator, (*MatchQueryBuilder).Operator),
		codec.Prop("prefix_length", (*MatchQuery).PrefixLength, (*MatchQueryBuilder).PrefixLength),
		codec.Required("query", (*MatchQuery).Query, (*MatchQueryBuilder).Query),
		codec.Prop("zero_terms_query", (*MatchQuery).ZeroTermsQuery, (*MatchQueryBuilder).ZeroTermsQuery),
	).
	WithKey((*MatchQuery).Field, (*MatchQueryBuilder).Field).
	WithShortcut("query")

func init() {
	registerVariant(KindMatch, func(data []byte) (Variant, error) {
		q, err := matchCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

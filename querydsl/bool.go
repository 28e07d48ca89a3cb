package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
)

// BoolQuery combines clauses. Must and filter clauses are required to
// match, must_not clauses exclude, should clauses add score and, when no
// must or filter clause exists, at least one of them has to match.
type BoolQuery struct {
	QueryBase
	filter             []Query
	minimumShouldMatch optional.Value[string]
	must               []Query
	mustNot            []Query
	should             []Query
}

func (q *BoolQuery) Filter() []Query                            { return q.filter }
func (q *BoolQuery) MinimumShouldMatch() optional.Value[string] { return q.minimumShouldMatch }
func (q *BoolQuery) Must() []Query                              { return q.must }
func (q *BoolQuery) MustNot() []Query                           { return q.mustNot }
func (q *BoolQuery) Should() []Query                            { return q.should }

// Kind implements Variant.
func (q *BoolQuery) Kind() Kind { return KindBool }

// ToQuery wraps q in a Query.
func (q *BoolQuery) ToQuery() Query { return NewQuery(q) }

func (q *BoolQuery) encodeBody() ([]byte, error) { return boolCodec.Encode(q) }

// BoolQueryBuilder builds a BoolQuery. It is single-use.
type BoolQueryBuilder struct {
	endpoint.BuilderBase
	base               QueryBase
	filter             []Query
	minimumShouldMatch optional.Value[string]
	must               []Query
	mustNot            []Query
	should             []Query
}

// NewBool starts a bool query.
func NewBool() *BoolQueryBuilder { return &BoolQueryBuilder{} }

// BoolOf builds a bool query in one expression.
func BoolOf(fn func(*BoolQueryBuilder) *BoolQueryBuilder) (*BoolQuery, error) {
	return fn(NewBool()).Build()
}

func (b *BoolQueryBuilder) Boost(v float64) *BoolQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

func (b *BoolQueryBuilder) QueryName(v string) *BoolQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

// Filter appends non-scoring required clauses.
func (b *BoolQueryBuilder) Filter(qs ...Query) *BoolQueryBuilder {
	b.filter = append(b.filter, qs...)
	return b
}

// MinimumShouldMatch sets how many should clauses must match.
func (b *BoolQueryBuilder) MinimumShouldMatch(v string) *BoolQueryBuilder {
	b.minimumShouldMatch = optional.Some(v)
	return b
}

// Must appends scoring required clauses.
func (b *BoolQueryBuilder) Must(qs ...Query) *BoolQueryBuilder {
	b.must = append(b.must, qs...)
	return b
}

// MustNot appends excluding clauses.
func (b *BoolQueryBuilder) MustNot(qs ...Query) *BoolQueryBuilder {
	b.mustNot = append(b.mustNot, qs...)
	return b
}

// Should appends optional clauses.
func (b *BoolQueryBuilder) Should(qs ...Query) *BoolQueryBuilder {
	b.should = append(b.should, qs...)
	return b
}

func (b *BoolQueryBuilder) Build() (*BoolQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	return &BoolQuery{
		QueryBase:          b.base,
		filter:             clone(b.filter),
		minimumShouldMatch: b.minimumShouldMatch,
		must:               clone(b.must),
		mustNot:            clone(b.mustNot),
		should:             clone(b.should),
	}, nil
}

func clone(qs []Query) []Query {
	if len(qs) == 0 {
		return nil
	}
	return append([]Query(nil), qs...)
}

var boolCodec = codec.NewObject("BoolQuery", NewBool, (*BoolQueryBuilder).Build).
	Add(baseProps[*BoolQuery](func(b *BoolQueryBuilder) *QueryBase { return &b.base })...).
	Add(
		codec.List("filter", (*BoolQuery).Filter,
			func(b *BoolQueryBuilder, v []Query) *BoolQueryBuilder { return b.Filter(v...) }),
		codec.Prop("minimum_should_match", (*BoolQuery).MinimumShouldMatch, (*BoolQueryBuilder).MinimumShouldMatch),
		codec.List("must", (*BoolQuery).Must,
			func(b *BoolQueryBuilder, v []Query) *BoolQueryBuilder { return b.Must(v...) }),
		codec.List("must_not", (*BoolQuery).MustNot,
			func(b *BoolQueryBuilder, v []Query) *BoolQueryBuilder { return b.MustNot(v...) }),
		codec.List("should", (*BoolQuery).Should,
			func(b *BoolQueryBuilder, v []Query) *BoolQueryBuilder { return b.Should(v...) }),
	)

func init() {
	registerVariant(KindBool, func(data []byte) (Variant, error) {
		q, err := boolCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

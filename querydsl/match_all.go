package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
)

// MatchAllQuery matches every document with a constant score.
type MatchAllQuery struct {
	QueryBase
}

// Kind implements Variant.
func (q *MatchAllQuery) Kind() Kind { return KindMatchAll }

// ToQuery wraps q in a Query.
func (q *MatchAllQuery) ToQuery() Query { return NewQuery(q) }

func (q *MatchAllQuery) encodeBody() ([]byte, error) { return matchAllCodec.Encode(q) }

// MatchAllQueryBuilder builds a MatchAllQuery. It is single-use.
type MatchAllQueryBuilder struct {
	endpoint.BuilderBase
	base QueryBase
}

// NewMatchAll starts a match_all query.
func NewMatchAll() *MatchAllQueryBuilder { return &MatchAllQueryBuilder{} }

// MatchAll returns a match_all query with no options, ready to use.
func MatchAll() Query {
	return NewQuery(&MatchAllQuery{})
}

func (b *MatchAllQueryBuilder) Boost(v float64) *MatchAllQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

func (b *MatchAllQueryBuilder) QueryName(v string) *MatchAllQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

func (b *MatchAllQueryBuilder) Build() (*MatchAllQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	return &MatchAllQuery{QueryBase: b.base}, nil
}

var matchAllCodec = codec.NewObject("MatchAllQuery", NewMatchAll, (*MatchAllQueryBuilder).Build).
	Add(baseProps[*MatchAllQuery](func(b *MatchAllQueryBuilder) *QueryBase { return &b.base })...)

func init() {
	registerVariant(KindMatchAll, func(data []byte) (Variant, error) {
		q, err := matchAllCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

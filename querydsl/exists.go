package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
)

// ExistsQuery matches documents that have an indexed value for a field.
type ExistsQuery struct {
	QueryBase
	field string
}

func (q *ExistsQuery) Field() string { return q.field }

// Kind implements Variant.
func (q *ExistsQuery) Kind() Kind { return KindExists }

// ToQuery wraps q in a Query.
func (q *ExistsQuery) ToQuery() Query { return NewQuery(q) }

func (q *ExistsQuery) encodeBody() ([]byte, error) { return existsCodec.Encode(q) }

type existsRequired struct {
	Field *string `json:"field" validate:"required"`
}

// ExistsQueryBuilder builds an ExistsQuery. It is single-use.
type ExistsQueryBuilder struct {
	endpoint.BuilderBase
	base QueryBase
	req  existsRequired
}

// NewExists starts an exists query.
func NewExists() *ExistsQueryBuilder { return &ExistsQueryBuilder{} }

// ExistsOf builds an exists query in one expression.
func ExistsOf(fn func(*ExistsQueryBuilder) *ExistsQueryBuilder) (*ExistsQuery, error) {
	return fn(NewExists()).Build()
}

func (b *ExistsQueryBuilder) Boost(v float64) *ExistsQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

func (b *ExistsQueryBuilder) QueryName(v string) *ExistsQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

// Field sets the field that must exist. Required.
func (b *ExistsQueryBuilder) Field(v string) *ExistsQueryBuilder {
	b.req.Field = &v
	return b
}

func (b *ExistsQueryBuilder) Build() (*ExistsQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if err := endpoint.RequireFields("ExistsQuery", &b.req); err != nil {
		return nil, err
	}
	return &ExistsQuery{QueryBase: b.base, field: *b.req.Field}, nil
}

var existsCodec = codec.NewObject("ExistsQuery", NewExists, (*ExistsQueryBuilder).Build).
	Add(baseProps[*ExistsQuery](func(b *ExistsQueryBuilder) *QueryBase { return &b.base })...).
	Add(codec.Required("field", (*ExistsQuery).Field, (*ExistsQueryBuilder).Field))

func init() {
	registerVariant(KindExists, func(data []byte) (Variant, error) {
		q, err := existsCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

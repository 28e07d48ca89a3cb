package querydsl

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/types"
)

// TermQuery matches documents whose field holds exactly Value. The value
// is not analyzed.
type TermQuery struct {
	QueryBase
	field           string
	value           types.FieldValue
	caseInsensitive optional.Value[bool]
}

// Field returns the queried field.
func (q *TermQuery) Field() string { return q.field }

// Value returns the exact value to match.
func (q *TermQuery) Value() types.FieldValue { return q.value }

// CaseInsensitive reports ASCII case-insensitive matching.
func (q *TermQuery) CaseInsensitive() optional.Value[bool] { return q.caseInsensitive }

// Kind implements Variant.
func (q *TermQuery) Kind() Kind { return KindTerm }

// ToQuery wraps q in a Query.
func (q *TermQuery) ToQuery() Query { return NewQuery(q) }

func (q *TermQuery) encodeBody() ([]byte, error) { return termCodec.Encode(q) }

type termRequired struct {
	Field *string           `json:"field" validate:"required"`
	Value *types.FieldValue `json:"value" validate:"required"`
}

// TermQueryBuilder builds a TermQuery. It is single-use.
type TermQueryBuilder struct {
	endpoint.BuilderBase
	base            QueryBase
	req             termRequired
	caseInsensitive optional.Value[bool]
}

// NewTerm starts a term query.
func NewTerm() *TermQueryBuilder { return &TermQueryBuilder{} }

// TermOf builds a term query in one expression.
func TermOf(fn func(*TermQueryBuilder) *TermQueryBuilder) (*TermQuery, error) {
	return fn(NewTerm()).Build()
}

func (b *TermQueryBuilder) Boost(v float64) *TermQueryBuilder {
	b.base.boost = optional.Some(v)
	return b
}

func (b *TermQueryBuilder) QueryName(v string) *TermQueryBuilder {
	b.base.name = optional.Some(v)
	return b
}

// Field sets the queried field. Required.
func (b *TermQueryBuilder) Field(v string) *TermQueryBuilder {
	b.req.Field = &v
	return b
}

// Value sets the exact value. Required.
func (b *TermQueryBuilder) Value(v types.FieldValue) *TermQueryBuilder {
	b.req.Value = &v
	return b
}

func (b *TermQueryBuilder) CaseInsensitive(v bool) *TermQueryBuilder {
	b.caseInsensitive = optional.Some(v)
	return b
}

// Build validates required members and returns the query.
func (b *TermQueryBuilder) Build() (*TermQuery, error) {
	if err := b.CheckSingleUse(); err != nil {
		return nil, err
	}
	if err := endpoint.RequireFields("TermQuery", &b.req); err != nil {
		return nil, err
	}
	return &TermQuery{
		QueryBase:       b.base,
		field:           *b.req.Field,
		value:           *b.req.Value,
		caseInsensitive: b.caseInsensitive,
	}, nil
}

var termCodec = codec.NewObject("TermQuery", NewTerm, (*TermQueryBuilder).Build).
	Add(baseProps[*TermQuery](func(b *TermQueryBuilder) *QueryBase { return &b.base })...).
	Add(
		codec.Required("value", (*TermQuery).Value, (*TermQueryBuilder).Value),
		codec.Prop("case_insensitive", (*TermQuery).CaseInsensitive, (*TermQueryBuilder).CaseInsensitive),
	).
	WithKey((*TermQuery).Field, (*TermQueryBuilder).Field).
	WithShortcut("value")

func init() {
	registerVariant(KindTerm, func(data []byte) (Variant, error) {
		q, err := termCodec.Decode(data)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
}

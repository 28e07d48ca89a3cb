package querydsl

import (
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/optional"
)

// QueryBase holds the members every variant accepts.
type QueryBase struct {
	boost optional.Value[float64]
	name  optional.Value[string]
}

// Boost returns the relevance multiplier.
func (q *QueryBase) Boost() optional.Value[float64] { return q.boost }

// QueryName returns the `_name` used to report matched queries.
func (q *QueryBase) QueryName() optional.Value[string] { return q.name }

func (q *QueryBase) base() *QueryBase { return q }

type hasBase interface {
	base() *QueryBase
}

// baseProps returns the QueryBase members, which every variant emits first.
func baseProps[T hasBase, B any](of func(*B) *QueryBase) []codec.Property[T, B] {
	return []codec.Property[T, B]{
		codec.Prop("boost",
			func(q T) optional.Value[float64] { return q.base().boost },
			func(b *B, v float64) *B { of(b).boost = optional.Some(v); return b }),
		codec.Prop("_name",
			func(q T) optional.Value[string] { return q.base().name },
			func(b *B, v string) *B { of(b).name = optional.Some(v); return b }),
	}
}

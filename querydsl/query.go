// Package querydsl models the query language of the search API as a
// closed union. A [Query] holds exactly one variant and serializes as a
// single-key object whose key names the variant:
//
//	{"match_phrase": {"title": {"query": "blue whale", "slop": 2}}}
//
// Variants are immutable and built with single-use builders.
package querydsl

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/osclient/internal/codec"
)

// Kind is the wire key of a query variant.
type Kind string

// Supported variants.
const (
	KindBool        Kind = "bool"
	KindExists      Kind = "exists"
	KindMatch       Kind = "match"
	KindMatchAll    Kind = "match_all"
	KindMatchPhrase Kind = "match_phrase"
	KindTerm        Kind = "term"
)

// Kinds lists every supported variant key.
func Kinds() []Kind {
	return []Kind{KindBool, KindExists, KindMatch, KindMatchAll, KindMatchPhrase, KindTerm}
}

func (k Kind) String() string { return string(k) }

var (
	// ErrUnknownVariant signals a query key with no matching variant.
	ErrUnknownVariant = errors.New("querydsl: unknown query variant")
	// ErrEmptyQuery signals serialization of a Query holding no variant.
	ErrEmptyQuery = errors.New("querydsl: query has no variant")
)

// UnknownVariantError names the key that matched no variant.
type UnknownVariantError struct {
	Kind string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownVariant.Error(), e.Kind)
}

func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

// Variant is implemented by the query types of this package only.
type Variant interface {
	// Kind returns the variant's wire key.
	Kind() Kind
	encodeBody() ([]byte, error)
}

type variantDecoder func(data []byte) (Variant, error)

var variantDecoders = map[Kind]variantDecoder{}

func registerVariant(k Kind, dec variantDecoder) {
	if _, dup := variantDecoders[k]; dup {
		panic("querydsl: duplicate variant " + string(k))
	}
	variantDecoders[k] = dec
}

// Query is a tagged union over the supported variants. The zero value
// holds no variant and cannot be serialized.
type Query struct {
	variant Variant
}

// NewQuery wraps v.
func NewQuery(v Variant) Query {
	return Query{variant: v}
}

// Parse decodes a query document.
func Parse(data []byte) (Query, error) {
	var q Query
	if err := q.UnmarshalJSON(data); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Kind returns the held variant's key, or "" for the zero Query.
func (q Query) Kind() Kind {
	if q.variant == nil {
		return ""
	}
	return q.variant.Kind()
}

// Variant returns the held variant.
func (q Query) Variant() Variant { return q.variant }

// IsZero reports a Query holding no variant.
func (q Query) IsZero() bool { return q.variant == nil }

// Bool returns the held variant if it is a bool query.
func (q Query) Bool() (*BoolQuery, bool) {
	v, ok := q.variant.(*BoolQuery)
	return v, ok
}

// Exists returns the held variant if it is an exists query.
func (q Query) Exists() (*ExistsQuery, bool) {
	v, ok := q.variant.(*ExistsQuery)
	return v, ok
}

// Match returns the held variant if it is a match query.
func (q Query) Match() (*MatchQuery, bool) {
	v, ok := q.variant.(*MatchQuery)
	return v, ok
}

// MatchAll returns the held variant if it is a match_all query.
func (q Query) MatchAll() (*MatchAllQuery, bool) {
	v, ok := q.variant.(*MatchAllQuery)
	return v, ok
}

// MatchPhrase returns the held variant if it is a match_phrase query.
func (q Query) MatchPhrase() (*MatchPhraseQuery, bool) {
	v, ok := q.variant.(*MatchPhraseQuery)
	return v, ok
}

// Term returns the held variant if it is a term query.
func (q Query) Term() (*TermQuery, bool) {
	v, ok := q.variant.(*TermQuery)
	return v, ok
}

// MarshalJSON writes {"<kind>": <variant body>}.
func (q Query) MarshalJSON() ([]byte, error) {
	if q.variant == nil {
		return nil, ErrEmptyQuery
	}
	body, err := q.variant.encodeBody()
	if err != nil {
		return nil, err
	}
	return codec.WriteSingleKey(string(q.variant.Kind()), body)
}

// UnmarshalJSON dispatches on the single key of data.
func (q *Query) UnmarshalJSON(data []byte) error {
	m, err := codec.ReadSingleKey(data)
	if err != nil {
		return fmt.Errorf("querydsl: decode query: %w", err)
	}
	dec, ok := variantDecoders[Kind(m.Name)]
	if !ok {
		return &UnknownVariantError{Kind: m.Name}
	}
	v, err := dec(m.Value)
	if err != nil {
		return err
	}
	q.variant = v
	return nil
}

// String renders the query as JSON, for logs.
func (q Query) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		return "<invalid query: " + err.Error() + ">"
	}
	return string(b)
}

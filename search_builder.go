package osclient

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

// Hit is a typed search result.
type Hit[T any] struct {
	ID    string
	Item  T
	Score float64
}

// Page is one page of typed search results.
type Page[T any] struct {
	Hits []Hit[T]
	// Total counts every match, not just this page. It is a lower bound
	// when TotalIsLowerBound is set.
	Total             int64
	TotalIsLowerBound bool
}

// SearchBuilder is a fluent builder for typed search queries.
// Scoring clauses (Match, Phrase) go into bool.must, exact ones (Where,
// Has) into bool.filter.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	must   []func() (querydsl.Query, error)
	filter []func() (querydsl.Query, error)

	from     int
	limit    int
	minScore float64
}

// Match adds a full-text match on field.
func (b *SearchBuilder[T]) Match(field, text string) *SearchBuilder[T] {
	b.must = append(b.must, func() (querydsl.Query, error) {
		q, err := querydsl.MatchOf(func(m *querydsl.MatchQueryBuilder) *querydsl.MatchQueryBuilder {
			return m.Field(field).Text(text)
		})
		if err != nil {
			return querydsl.Query{}, err
		}
		return q.ToQuery(), nil
	})
	return b
}

// Phrase adds a phrase match on field; slop is the number of extra
// tokens tolerated between the phrase terms.
func (b *SearchBuilder[T]) Phrase(field, text string, slop int) *SearchBuilder[T] {
	b.must = append(b.must, func() (querydsl.Query, error) {
		q, err := querydsl.MatchPhraseOf(func(m *querydsl.MatchPhraseQueryBuilder) *querydsl.MatchPhraseQueryBuilder {
			m.Field(field).Query(text)
			if slop > 0 {
				m.Slop(slop)
			}
			return m
		})
		if err != nil {
			return querydsl.Query{}, err
		}
		return q.ToQuery(), nil
	})
	return b
}

// Where adds an exact term filter. value may be a string, bool, integer
// or float.
func (b *SearchBuilder[T]) Where(field string, value any) *SearchBuilder[T] {
	b.filter = append(b.filter, func() (querydsl.Query, error) {
		fv, err := fieldValueOf(value)
		if err != nil {
			return querydsl.Query{}, fmt.Errorf("where %s: %w", field, err)
		}
		q, err := querydsl.TermOf(func(t *querydsl.TermQueryBuilder) *querydsl.TermQueryBuilder {
			return t.Field(field).Value(fv)
		})
		if err != nil {
			return querydsl.Query{}, err
		}
		return q.ToQuery(), nil
	})
	return b
}

// Has keeps only documents with a non-null value in field.
func (b *SearchBuilder[T]) Has(field string) *SearchBuilder[T] {
	b.filter = append(b.filter, func() (querydsl.Query, error) {
		q, err := querydsl.ExistsOf(func(e *querydsl.ExistsQueryBuilder) *querydsl.ExistsQueryBuilder {
			return e.Field(field)
		})
		if err != nil {
			return querydsl.Query{}, err
		}
		return q.ToQuery(), nil
	})
	return b
}

// From skips the first n results.
func (b *SearchBuilder[T]) From(n int) *SearchBuilder[T] {
	b.from = n
	return b
}

// Limit sets the maximum number of results.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.limit = n
	return b
}

// MinScore drops hits scoring below s.
func (b *SearchBuilder[T]) MinScore(s float64) *SearchBuilder[T] {
	b.minScore = s
	return b
}

// Query assembles the query the builder would send.
func (b *SearchBuilder[T]) Query() (querydsl.Query, error) {
	must, err := buildAll(b.must)
	if err != nil {
		return querydsl.Query{}, err
	}
	filter, err := buildAll(b.filter)
	if err != nil {
		return querydsl.Query{}, err
	}

	switch {
	case len(must) == 0 && len(filter) == 0:
		return querydsl.MatchAll(), nil
	case len(must) == 1 && len(filter) == 0:
		return must[0], nil
	}
	q, err := querydsl.BoolOf(func(bq *querydsl.BoolQueryBuilder) *querydsl.BoolQueryBuilder {
		if len(must) > 0 {
			bq.Must(must...)
		}
		if len(filter) > 0 {
			bq.Filter(filter...)
		}
		return bq
	})
	if err != nil {
		return querydsl.Query{}, err
	}
	return q.ToQuery(), nil
}

func buildAll(fns []func() (querydsl.Query, error)) ([]querydsl.Query, error) {
	out := make([]querydsl.Query, 0, len(fns))
	for _, fn := range fns {
		q, err := fn()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (*Page[T], error) {
	q, err := b.Query()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rb := core.NewSearchRequest().Index(b.idx.name).Query(q)
	if b.from > 0 {
		rb.From(b.from)
	}
	if b.limit > 0 {
		rb.Size(b.limit)
	}
	if b.minScore > 0 {
		rb.MinScore(b.minScore)
	}
	req, err := rb.Build()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := b.idx.client.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return b.toPage(res)
}

func (b *SearchBuilder[T]) toPage(res *core.SearchResponse) (*Page[T], error) {
	page := &Page[T]{Hits: make([]Hit[T], 0, len(res.Hits.Hits))}
	if t := res.Hits.Total; t != nil {
		page.Total = t.Value
		page.TotalIsLowerBound = t.Relation == types.TotalHitsGte
	}
	for _, h := range res.Hits.Hits {
		item, err := b.idx.decode(h.Source, h.ID, h.Routing)
		if err != nil {
			return nil, fmt.Errorf("search: hit %s: %w", h.ID, err)
		}
		hit := Hit[T]{ID: h.ID, Item: item}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

// fieldValueOf converts a Go scalar into a term value.
func fieldValueOf(v any) (types.FieldValue, error) {
	if fv, ok := v.(types.FieldValue); ok {
		return fv, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return types.StringValue(rv.String()), nil
	case reflect.Bool:
		return types.BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.LongValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return types.LongValue(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return types.DoubleValue(rv.Float()), nil
	default:
		return types.FieldValue{}, fmt.Errorf("unsupported term value %T", v)
	}
}

package osclient

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/types"
)

// TypedIndex is a generic, schema-first handle on one index.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	name   string
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index handle for the given index name.
// T must be a struct with an `osclient:"id"` field. Schema is parsed once and cached.
func NewIndex[T any](client *Client, name string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	return &TypedIndex[T]{name: name, client: client, meta: meta}, nil
}

// Name returns the index name.
func (idx *TypedIndex[T]) Name() string { return idx.name }

// Upsert creates or replaces a single item. Returns true if created.
// An item with an empty id gets a server-assigned one.
func (idx *TypedIndex[T]) Upsert(ctx context.Context, item T) (bool, error) {
	res, err := idx.put(ctx, item, nil)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return res.Result == types.ResultCreated, nil
}

// Create stores item only if no document with its id exists yet.
func (idx *TypedIndex[T]) Create(ctx context.Context, item T) error {
	_, err := idx.put(ctx, item, func(b *core.IndexRequestBuilder) {
		b.OpType(types.OpTypeCreate)
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

func (idx *TypedIndex[T]) put(
	ctx context.Context, item T, configure func(*core.IndexRequestBuilder),
) (*core.IndexResponse, error) {
	b := core.NewIndexRequest().Index(idx.name).Document(item)
	if id := idx.meta.id(item); id != "" {
		b.ID(id)
	}
	if r := idx.meta.routing(item); r != "" {
		b.Routing(r)
	}
	if configure != nil {
		configure(b)
	}
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return idx.client.Index(ctx, req)
}

// Get retrieves a typed item by ID. A missing document yields ErrDocumentNotFound.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	req, err := core.NewGetRequest().Index(idx.name).ID(id).Build()
	if err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	res, err := idx.client.Get(ctx, req)
	if err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	if !res.Found {
		return zero, fmt.Errorf("get %q: %w", id, ErrDocumentNotFound)
	}
	item, err := idx.decode(res.Source, res.ID, res.Routing)
	if err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	return item, nil
}

// Exists reports whether a document with the given ID exists.
func (idx *TypedIndex[T]) Exists(ctx context.Context, id string) (bool, error) {
	req, err := core.NewExistsRequest().Index(idx.name).ID(id).Build()
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return idx.client.Exists(ctx, req)
}

// Delete removes an item by ID. A missing document yields ErrDocumentNotFound.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	req, err := core.NewDeleteRequest().Index(idx.name).ID(id).Build()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	res, err := idx.client.Delete(ctx, req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.Result == types.ResultNotFound {
		return fmt.Errorf("delete %q: %w", id, ErrDocumentNotFound)
	}
	return nil
}

// Count returns the number of documents in the index.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int64, error) {
	req, err := core.NewSearchRequest().
		Index(idx.name).
		Size(0).
		TrackTotalHits(types.TrackHitsEnabled(true)).
		Build()
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	res, err := idx.client.Search(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	if res.Hits.Total == nil {
		return 0, nil
	}
	return res.Hits.Total.Value, nil
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func (idx *TypedIndex[T]) decode(source []byte, id, routing string) (T, error) {
	var zero T
	if len(source) == 0 {
		return zero, ErrNoSource
	}
	v, err := idx.meta.decode(source, id, routing)
	if err != nil {
		return zero, err
	}
	item, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("osclient: decoded %T, want %T", v, zero)
	}
	return item, nil
}

package redis

import (
	"context"
	"slices"

	"github.com/kailas-cloud/osclient/internal/docstore"
)

// IndexExists checks membership in the index catalog.
func (s *Store) IndexExists(ctx context.Context, index string) (bool, error) {
	cmd := s.b().Sismember().Key(s.indicesKey()).Member(index).Build()
	ok, err := s.do(ctx, cmd).AsBool()
	if err != nil {
		return false, &docstore.Error{Op: docstore.OpSIsMember, Err: err}
	}
	return ok, nil
}

// Indices lists the catalog, sorted.
func (s *Store) Indices(ctx context.Context) ([]string, error) {
	cmd := s.b().Smembers().Key(s.indicesKey()).Build()
	names, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &docstore.Error{Op: docstore.OpSMembers, Err: err}
	}
	slices.Sort(names)
	return names, nil
}

// NextSeqNo increments the per-index counter. The first call returns 0.
func (s *Store) NextSeqNo(ctx context.Context, index string) (int64, error) {
	cmd := s.b().Incr().Key(s.seqKey(index)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &docstore.Error{Op: docstore.OpIncr, Err: err}
	}
	return n - 1, nil
}

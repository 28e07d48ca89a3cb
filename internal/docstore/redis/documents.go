package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/osclient/internal/docstore"
)

// Get loads one document.
func (s *Store) Get(ctx context.Context, index, id string) (docstore.Document, error) {
	cmd := s.b().Get().Key(s.docKey(index, id)).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return docstore.Document{}, docstore.ErrNotFound
		}
		return docstore.Document{}, &docstore.Error{Op: docstore.OpGet, Err: err}
	}
	return decodeDocument(data)
}

// Put writes the document and registers it with its index in one round-trip.
func (s *Store) Put(ctx context.Context, doc docstore.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &docstore.Error{Op: docstore.OpSet, Err: err}
	}

	ops := []string{docstore.OpSet, docstore.OpSAdd, docstore.OpSAdd}
	cmds := []rueidis.Completed{
		s.b().Set().Key(s.docKey(doc.Index, doc.ID)).Value(string(data)).Build(),
		s.b().Sadd().Key(s.idsKey(doc.Index)).Member(doc.ID).Build(),
		s.b().Sadd().Key(s.indicesKey()).Member(doc.Index).Build(),
	}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &docstore.Error{Op: ops[i], Err: fmt.Errorf("%s/%s: %w", doc.Index, doc.ID, err)}
		}
	}
	return nil
}

// Delete removes a document and its id set membership.
func (s *Store) Delete(ctx context.Context, index, id string) error {
	cmd := s.b().Del().Key(s.docKey(index, id)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return &docstore.Error{Op: docstore.OpDel, Err: err}
	}
	if n == 0 {
		return docstore.ErrNotFound
	}

	cmd = s.b().Srem().Key(s.idsKey(index)).Member(id).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &docstore.Error{Op: docstore.OpSRem, Err: err}
	}
	return nil
}

// List loads every document of index ordered by id. Ids whose document
// vanished between SMEMBERS and GET are skipped.
func (s *Store) List(ctx context.Context, index string) ([]docstore.Document, error) {
	ok, err := s.IndexExists(ctx, index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, docstore.ErrIndexNotFound
	}

	cmd := s.b().Smembers().Key(s.idsKey(index)).Build()
	ids, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &docstore.Error{Op: docstore.OpSMembers, Err: err}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	cmds := make([]rueidis.Completed, len(ids))
	for i, id := range ids {
		cmds[i] = s.b().Get().Key(s.docKey(index, id)).Build()
	}

	out := make([]docstore.Document, 0, len(ids))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		data, err := res.AsBytes()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &docstore.Error{Op: docstore.OpGet, Err: fmt.Errorf("%s/%s: %w", index, ids[i], err)}
		}
		doc, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decodeDocument(data []byte) (docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return docstore.Document{}, &docstore.Error{Op: docstore.OpDecode, Err: err}
	}
	return doc, nil
}

package docstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

// Memory is a process-local Store.
type Memory struct {
	mu      sync.RWMutex
	indices map[string]*memIndex
}

type memIndex struct {
	docs map[string]Document
	seq  int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{indices: make(map[string]*memIndex)}
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// WaitForReady returns immediately.
func (m *Memory) WaitForReady(context.Context, time.Duration) error { return nil }

// Close is a no-op.
func (m *Memory) Close() {}

// Get returns the document or ErrNotFound.
func (m *Memory) Get(_ context.Context, index, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indices[index]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc, ok := idx.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Put stores doc, creating its index on first use.
func (m *Memory) Put(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index(doc.Index).docs[doc.ID] = cloneDocument(doc)
	return nil
}

// Delete removes a document. Missing documents report ErrNotFound.
func (m *Memory) Delete(_ context.Context, index, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indices[index]
	if !ok {
		return ErrNotFound
	}
	if _, ok := idx.docs[id]; !ok {
		return ErrNotFound
	}
	delete(idx.docs, id)
	return nil
}

// List returns every document of index ordered by id.
func (m *Memory) List(_ context.Context, index string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indices[index]
	if !ok {
		return nil, ErrIndexNotFound
	}
	out := make([]Document, 0, len(idx.docs))
	for _, doc := range idx.docs {
		out = append(out, cloneDocument(doc))
	}
	slices.SortFunc(out, func(a, b Document) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// IndexExists reports whether index has ever been written to.
func (m *Memory) IndexExists(_ context.Context, index string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.indices[index]
	return ok, nil
}

// Indices returns the known index names, sorted.
func (m *Memory) Indices(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.indices))
	for name := range m.indices {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// NextSeqNo hands out the next sequence number of index, starting at 0.
func (m *Memory) NextSeqNo(_ context.Context, index string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.index(index)
	n := idx.seq
	idx.seq++
	return n, nil
}

// index returns the named index, creating it. Callers hold the write lock.
func (m *Memory) index(name string) *memIndex {
	idx, ok := m.indices[name]
	if !ok {
		idx = &memIndex{docs: make(map[string]Document)}
		m.indices[name] = idx
	}
	return idx
}

func cloneDocument(doc Document) Document {
	doc.Source = slices.Clone(doc.Source)
	return doc
}

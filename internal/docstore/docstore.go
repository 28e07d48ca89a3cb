// Package docstore keeps the documents served by the fake search engine.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	ErrNotFound      = errors.New("docstore: document not found")
	ErrIndexNotFound = errors.New("docstore: index not found")
)

// Op constants name the storage command that failed.
const (
	OpGet       = "GET"
	OpSet       = "SET"
	OpDel       = "DEL"
	OpSAdd      = "SADD"
	OpSRem      = "SREM"
	OpSMembers  = "SMEMBERS"
	OpSIsMember = "SISMEMBER"
	OpIncr      = "INCR"
	OpDecode    = "DECODE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Document is one stored source plus its write metadata.
type Document struct {
	Index       string          `json:"index"`
	ID          string          `json:"id"`
	Routing     string          `json:"routing,omitempty"`
	Version     int64           `json:"version"`
	SeqNo       int64           `json:"seq_no"`
	PrimaryTerm int64           `json:"primary_term"`
	Source      json.RawMessage `json:"source"`
}

// Store is the storage facade used by the fake server.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	DocumentStore
	IndexCatalog
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore reads and writes single documents.
type DocumentStore interface {
	Get(ctx context.Context, index, id string) (Document, error)
	Put(ctx context.Context, doc Document) error
	Delete(ctx context.Context, index, id string) error
	List(ctx context.Context, index string) ([]Document, error)
}

// IndexCatalog tracks which indices exist. An index comes into existence
// with its first write and survives the deletion of its documents.
type IndexCatalog interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	Indices(ctx context.Context) ([]string, error)
	NextSeqNo(ctx context.Context, index string) (int64, error)
}

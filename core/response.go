package core

import (
	"encoding/json"
	"errors"

	"github.com/kailas-cloud/osclient/types"
)

// ErrNoSource signals a hit or document returned without its source.
var ErrNoSource = errors.New("core: document has no _source")

func decodeSource(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return ErrNoSource
	}
	return json.Unmarshal(raw, v)
}

// GetResponse is the result of a document lookup.
type GetResponse struct {
	Index       string                     `json:"_index"`
	ID          string                     `json:"_id"`
	Found       bool                       `json:"found"`
	Version     *int64                     `json:"_version,omitempty"`
	SeqNo       *int64                     `json:"_seq_no,omitempty"`
	PrimaryTerm *int64                     `json:"_primary_term,omitempty"`
	Routing     string                     `json:"_routing,omitempty"`
	Source      json.RawMessage            `json:"_source,omitempty"`
	Fields      map[string]json.RawMessage `json:"fields,omitempty"`
}

// DecodeSource unmarshals the document source into v.
func (r *GetResponse) DecodeSource(v any) error { return decodeSource(r.Source, v) }

// WriteResponse is the result of a single-document write.
type WriteResponse struct {
	Index         string                `json:"_index"`
	ID            string                `json:"_id"`
	Version       int64                 `json:"_version"`
	Result        types.Result          `json:"result"`
	SeqNo         int64                 `json:"_seq_no"`
	PrimaryTerm   int64                 `json:"_primary_term"`
	Shards        types.ShardStatistics `json:"_shards"`
	ForcedRefresh bool                  `json:"forced_refresh,omitempty"`
}

// IndexResponse is the result of an index request.
type IndexResponse = WriteResponse

// DeleteResponse is the result of a delete request.
type DeleteResponse = WriteResponse

// SearchResponse is the result of a search.
type SearchResponse struct {
	Took     int64                 `json:"took"`
	TimedOut bool                  `json:"timed_out"`
	Shards   types.ShardStatistics `json:"_shards"`
	Hits     HitsMetadata          `json:"hits"`
}

// HitsMetadata holds the matching documents of one page.
type HitsMetadata struct {
	Total    *TotalHits `json:"total,omitempty"`
	MaxScore *float64   `json:"max_score"`
	Hits     []Hit      `json:"hits"`
}

// TotalHits counts matches, exactly or as a lower bound.
type TotalHits struct {
	Value    int64                   `json:"value"`
	Relation types.TotalHitsRelation `json:"relation"`
}

// Hit is one matching document.
type Hit struct {
	Index   string          `json:"_index"`
	ID      string          `json:"_id"`
	Score   *float64        `json:"_score"`
	Routing string          `json:"_routing,omitempty"`
	Version *int64          `json:"_version,omitempty"`
	Source  json.RawMessage `json:"_source,omitempty"`
}

// DecodeSource unmarshals the hit's source into v.
func (h *Hit) DecodeSource(v any) error { return decodeSource(h.Source, v) }

package fakeserver

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/internal/docstore"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

const (
	defaultSize           = 10
	defaultTrackTotalHits = 10000
	maxResultWindow       = 10000
)

type searchParams struct {
	AllowNoIndices    *bool  `schema:"allow_no_indices"`
	IgnoreUnavailable bool   `schema:"ignore_unavailable"`
	Routing           string `schema:"routing"`
	From              *int   `schema:"from"`
	Size              *int   `schema:"size"`
}

type scoredDoc struct {
	doc   docstore.Document
	score float64
}

// Search handles GET/POST /_search and /{index}/_search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var p searchParams
	if err := s.decodeParams(&p, r); err != nil {
		writeError(w, http.StatusBadRequest, errIllegalArgument, err.Error(), "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errParsing, "failed to read request body", "")
		return
	}
	b := core.NewSearchRequest()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := core.DecodeSearchBody(b, body); err != nil {
			writeError(w, http.StatusBadRequest, errParsing, err.Error(), "")
			return
		}
	}
	req, err := b.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, errParsing, err.Error(), "")
		return
	}

	from := req.From().UnwrapOr(derefOr(p.From, 0))
	size := req.Size().UnwrapOr(derefOr(p.Size, defaultSize))
	if from < 0 || size < 0 {
		writeError(w, http.StatusBadRequest, errIllegalArgument, "[from] and [size] must not be negative", "")
		return
	}
	if from > maxResultWindow-min(size, maxResultWindow) || size > maxResultWindow {
		writeError(w, http.StatusBadRequest, errIllegalArgument, fmt.Sprintf(
			"Result window is too large, from + size must be less than or equal to: [%d] but was [%d]",
			maxResultWindow, uint64(from)+uint64(size)), "")
		return
	}

	indices, missing, err := s.resolveIndices(r, urlParam(r, "index"), p)
	if err != nil {
		s.handleStoreError(w, r, err, "")
		return
	}
	if missing != "" {
		writeIndexNotFound(w, missing)
		return
	}

	query := req.Query().UnwrapOr(querydsl.Query{})
	walkQuery(query, func(k querydsl.Kind) { s.metrics.ObserveQuery(string(k)) })

	hits, err := s.collect(r, indices, query, req, splitList(p.Routing))
	if err != nil {
		s.handleStoreError(w, r, err, "")
		return
	}

	resp := core.SearchResponse{
		Shards: types.ShardStatistics{Total: len(indices), Successful: len(indices)},
		Hits: core.HitsMetadata{
			Total: totalHits(len(hits), req.TrackTotalHits()),
			Hits:  []core.Hit{},
		},
	}
	if len(hits) > 0 {
		maxScore := hits[0].score
		resp.Hits.MaxScore = &maxScore
	}

	start := min(from, len(hits))
	page := hits[start : start+min(size, len(hits)-start)]
	for _, h := range page {
		hit, err := renderHit(h, req)
		if err != nil {
			s.handleStoreError(w, r, err, h.doc.Index)
			return
		}
		resp.Hits.Hits = append(resp.Hits.Hits, hit)
	}
	resp.Took = time.Since(start).Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

// resolveIndices expands the index expression of the path. An empty
// expression, _all and * select every index. The name of the first
// missing concrete index is returned unless ignore_unavailable is set.
func (s *Server) resolveIndices(r *http.Request, expr string, p searchParams) ([]string, string, error) {
	all, err := s.store.Indices(r.Context())
	if err != nil {
		return nil, "", err
	}
	if expr == "" || expr == "_all" || expr == "*" {
		return all, "", nil
	}

	var out []string
	for _, name := range strings.Split(expr, ",") {
		if strings.Contains(name, "*") {
			for _, idx := range all {
				if ok, _ := path.Match(name, idx); ok && !slices.Contains(out, idx) {
					out = append(out, idx)
				}
			}
			continue
		}
		if !slices.Contains(all, name) {
			if p.IgnoreUnavailable {
				continue
			}
			return nil, name, nil
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	if len(out) == 0 && p.AllowNoIndices != nil && !*p.AllowNoIndices {
		return nil, expr, nil
	}
	return out, "", nil
}

// collect evaluates query over every document of indices and returns the
// matches by descending score.
func (s *Server) collect(
	r *http.Request, indices []string, query querydsl.Query, req *core.SearchRequest, routing []string,
) ([]scoredDoc, error) {
	minScore, hasMinScore := req.MinScore().Get()
	terminateAfter := req.TerminateAfter().UnwrapOr(0)

	var hits []scoredDoc
scan:
	for _, index := range indices {
		docs, err := s.store.List(r.Context(), index)
		if errors.Is(err, docstore.ErrIndexNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if len(routing) > 0 && !slices.Contains(routing, doc.Routing) {
				continue
			}
			src, err := decodeSource(doc.Source)
			if err != nil {
				return nil, err
			}
			ok, score := evaluate(query, src)
			if !ok || (hasMinScore && score < minScore) {
				continue
			}
			hits = append(hits, scoredDoc{doc: doc, score: score})
			if terminateAfter > 0 && int64(len(hits)) >= terminateAfter {
				break scan
			}
		}
	}
	slices.SortStableFunc(hits, func(a, b scoredDoc) int { return cmp.Compare(b.score, a.score) })
	return hits, nil
}

func renderHit(h scoredDoc, req *core.SearchRequest) (core.Hit, error) {
	score := h.score
	hit := core.Hit{
		Index:   h.doc.Index,
		ID:      h.doc.ID,
		Score:   &score,
		Routing: h.doc.Routing,
	}
	if req.Version().UnwrapOr(false) {
		v := h.doc.Version
		hit.Version = &v
	}

	src := req.Source().UnwrapOr(types.SourceConfigFetch(true))
	if fetch, ok := src.Fetch(); ok && !fetch {
		return hit, nil
	}
	var includes, excludes []string
	if f, ok := src.Filter(); ok {
		includes, excludes = f.Includes, f.Excludes
	}
	filtered, err := filterSource(h.doc.Source, includes, excludes)
	if err != nil {
		return core.Hit{}, err
	}
	hit.Source = filtered
	return hit, nil
}

// totalHits applies track_total_hits: false omits the total, a count
// caps it with relation gte.
func totalHits(n int, track optional.Value[types.TrackHits]) *core.TotalHits {
	limit := defaultTrackTotalHits
	if th, ok := track.Get(); ok {
		if on, isFlag := th.Enabled(); isFlag {
			if !on {
				return nil
			}
			limit = -1
		}
		if c, isCount := th.Count(); isCount {
			limit = c
		}
	}
	if limit >= 0 && n > limit {
		return &core.TotalHits{Value: int64(limit), Relation: types.TotalHitsGte}
	}
	return &core.TotalHits{Value: int64(n), Relation: types.TotalHitsEq}
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

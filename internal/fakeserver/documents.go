package fakeserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/internal/docstore"
	logpkg "github.com/kailas-cloud/osclient/internal/logger"
	"github.com/kailas-cloud/osclient/types"
)

type lookupParams struct {
	Routing        string `schema:"routing"`
	Realtime       *bool  `schema:"realtime"`
	Source         string `schema:"_source"`
	SourceExcludes string `schema:"_source_excludes"`
	SourceIncludes string `schema:"_source_includes"`
	Version        *int64 `schema:"version"`
}

type writeParams struct {
	IfPrimaryTerm *int64 `schema:"if_primary_term"`
	IfSeqNo       *int64 `schema:"if_seq_no"`
	OpType        string `schema:"op_type"`
	Refresh       string `schema:"refresh"`
	Routing       string `schema:"routing"`
	Version       *int64 `schema:"version"`
	VersionType   string `schema:"version_type"`
}

func shards() types.ShardStatistics {
	return types.ShardStatistics{Total: 1, Successful: 1}
}

// lookup loads a document honouring routing. A document indexed with a
// routing value is only visible to lookups carrying the same value.
func (s *Server) lookup(r *http.Request, index, id, routing string) (docstore.Document, bool, error) {
	ok, err := s.store.IndexExists(r.Context(), index)
	if err != nil {
		return docstore.Document{}, false, err
	}
	if !ok {
		return docstore.Document{}, false, docstore.ErrIndexNotFound
	}
	doc, err := s.store.Get(r.Context(), index, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return docstore.Document{}, false, nil
	}
	if err != nil {
		return docstore.Document{}, false, err
	}
	if doc.Routing != routing {
		return docstore.Document{}, false, nil
	}
	return doc, true, nil
}

// ExistsDocument handles HEAD /{index}/_doc/{id}.
func (s *Server) ExistsDocument(w http.ResponseWriter, r *http.Request) {
	index, id := urlParam(r, "index"), urlParam(r, "id")
	var p lookupParams
	if err := s.decodeParams(&p, r); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	doc, found, err := s.lookup(r, index, id, p.Routing)
	switch {
	case errors.Is(err, docstore.ErrIndexNotFound):
		w.WriteHeader(http.StatusNotFound)
	case err != nil:
		logpkg.FromContext(r.Context()).Error("store error", zap.Error(err), zap.String("index", index))
		w.WriteHeader(http.StatusInternalServerError)
	case !found:
		w.WriteHeader(http.StatusNotFound)
	case p.Version != nil && *p.Version != doc.Version:
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// GetDocument handles GET /{index}/_doc/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	index, id := urlParam(r, "index"), urlParam(r, "id")
	var p lookupParams
	if err := s.decodeParams(&p, r); err != nil {
		writeError(w, http.StatusBadRequest, errIllegalArgument, err.Error(), index)
		return
	}

	doc, found, err := s.lookup(r, index, id, p.Routing)
	if err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, core.GetResponse{Index: index, ID: id, Found: false})
		return
	}
	if p.Version != nil && *p.Version != doc.Version {
		writeError(w, http.StatusConflict, errVersionConflict, fmt.Sprintf(
			"[%s]: version conflict, current version [%d] is different than the one provided [%d]",
			id, doc.Version, *p.Version), index)
		return
	}

	resp := core.GetResponse{
		Index:       index,
		ID:          id,
		Found:       true,
		Version:     &doc.Version,
		SeqNo:       &doc.SeqNo,
		PrimaryTerm: &doc.PrimaryTerm,
		Routing:     doc.Routing,
	}
	if src, ok := sourceForLookup(p); ok {
		filtered, err := filterSource(doc.Source, src.includes, src.excludes)
		if err != nil {
			s.handleStoreError(w, r, err, index)
			return
		}
		resp.Source = filtered
	}
	writeJSON(w, http.StatusOK, resp)
}

type sourceFilter struct {
	includes, excludes []string
}

// sourceForLookup resolves the _source parameters; false means no source.
func sourceForLookup(p lookupParams) (sourceFilter, bool) {
	switch p.Source {
	case "false":
		return sourceFilter{}, false
	case "", "true":
		return sourceFilter{includes: splitList(p.SourceIncludes), excludes: splitList(p.SourceExcludes)}, true
	}
	return sourceFilter{includes: splitList(p.Source), excludes: splitList(p.SourceExcludes)}, true
}

// IndexDocument handles PUT/POST /{index}/_doc/{id} and POST /{index}/_doc.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, id := urlParam(r, "index"), urlParam(r, "id")
	var p writeParams
	if err := s.decodeParams(&p, r); err != nil {
		writeError(w, http.StatusBadRequest, errIllegalArgument, err.Error(), index)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errParsing, "failed to read request body", index)
		return
	}
	if _, err := decodeSource(body); err != nil {
		writeError(w, http.StatusBadRequest, errParsing, "failed to parse document: "+err.Error(), index)
		return
	}

	if id == "" {
		id = uuid.NewString()
	}
	ctx = logpkg.With(ctx, zap.String("index", index), zap.String("id", id))
	r = r.WithContext(ctx)

	defer s.lockDoc(index, id)()
	current, err := s.store.Get(ctx, index, id)
	found := err == nil
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		s.handleStoreError(w, r, err, index)
		return
	}

	if reason, status := checkWrite(id, p, current, found); reason != "" {
		errType := errVersionConflict
		if status == http.StatusBadRequest {
			errType = errIllegalArgument
		}
		writeError(w, status, errType, reason, index)
		return
	}

	version := int64(1)
	if found {
		version = current.Version + 1
	}
	if p.Version != nil && isExternal(p.VersionType) {
		version = *p.Version
	}

	seq, err := s.store.NextSeqNo(ctx, index)
	if err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}
	doc := docstore.Document{
		Index:       index,
		ID:          id,
		Routing:     p.Routing,
		Version:     version,
		SeqNo:       seq,
		PrimaryTerm: primaryTerm,
		Source:      json.RawMessage(body),
	}
	if err := s.store.Put(ctx, doc); err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}

	logpkg.FromContext(ctx).Debug("document stored", zap.Int64("version", version), zap.Int64("seq_no", seq))

	status, result := http.StatusCreated, types.ResultCreated
	if found {
		status, result = http.StatusOK, types.ResultUpdated
	}
	writeJSON(w, status, core.IndexResponse{
		Index:         index,
		ID:            id,
		Version:       version,
		Result:        result,
		SeqNo:         seq,
		PrimaryTerm:   primaryTerm,
		Shards:        shards(),
		ForcedRefresh: p.Refresh == string(types.RefreshTrue),
	})
}

func isExternal(vt string) bool {
	return vt == string(types.VersionTypeExternal) || vt == string(types.VersionTypeExternalGte)
}

// checkWrite applies op_type, optimistic concurrency and external
// versioning rules. It returns a reason and status when the write must be
// rejected.
func checkWrite(id string, p writeParams, current docstore.Document, found bool) (string, int) {
	if p.OpType == string(types.OpTypeCreate) && found {
		return fmt.Sprintf("[%s]: version conflict, document already exists (current version [%d])",
			id, current.Version), http.StatusConflict
	}

	if p.IfSeqNo != nil || p.IfPrimaryTerm != nil {
		if p.IfSeqNo == nil || p.IfPrimaryTerm == nil {
			return "if_seq_no and if_primary_term must be set together", http.StatusBadRequest
		}
		if !found {
			return fmt.Sprintf("[%s]: version conflict, required seqNo [%d], primary term [%d]. but no document was found",
				id, *p.IfSeqNo, *p.IfPrimaryTerm), http.StatusConflict
		}
		if current.SeqNo != *p.IfSeqNo || current.PrimaryTerm != *p.IfPrimaryTerm {
			return fmt.Sprintf(
				"[%s]: version conflict, required seqNo [%d], primary term [%d]. current document has seqNo [%d] and primary term [%d]",
				id, *p.IfSeqNo, *p.IfPrimaryTerm, current.SeqNo, current.PrimaryTerm), http.StatusConflict
		}
	}

	switch p.VersionType {
	case "", string(types.VersionTypeInternal):
		if p.Version != nil {
			return "internal versioning can not be used for optimistic concurrency control. " +
				"Please use `if_seq_no` and `if_primary_term` instead", http.StatusBadRequest
		}
	case string(types.VersionTypeExternal), string(types.VersionTypeExternalGte):
		if p.Version == nil {
			return "[version] must be set when [version_type] is " + p.VersionType, http.StatusBadRequest
		}
		if !found {
			return "", 0
		}
		stale := *p.Version <= current.Version
		if p.VersionType == string(types.VersionTypeExternalGte) {
			stale = *p.Version < current.Version
		}
		if stale {
			return fmt.Sprintf("[%s]: version conflict, current version [%d] is higher or equal to the one provided [%d]",
				id, current.Version, *p.Version), http.StatusConflict
		}
	default:
		return "version type [" + p.VersionType + "] is not supported", http.StatusBadRequest
	}
	return "", 0
}

// DeleteDocument handles DELETE /{index}/_doc/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, id := urlParam(r, "index"), urlParam(r, "id")
	var p writeParams
	if err := s.decodeParams(&p, r); err != nil {
		writeError(w, http.StatusBadRequest, errIllegalArgument, err.Error(), index)
		return
	}

	defer s.lockDoc(index, id)()
	current, found, err := s.lookup(r, index, id, p.Routing)
	if err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}

	seq, err := s.store.NextSeqNo(ctx, index)
	if err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, core.DeleteResponse{
			Index: index, ID: id, Version: 1, Result: types.ResultNotFound,
			SeqNo: seq, PrimaryTerm: primaryTerm, Shards: shards(),
		})
		return
	}

	p.OpType = ""
	if reason, status := checkWrite(id, p, current, true); reason != "" {
		errType := errVersionConflict
		if status == http.StatusBadRequest {
			errType = errIllegalArgument
		}
		writeError(w, status, errType, reason, index)
		return
	}

	if err := s.store.Delete(ctx, index, id); err != nil {
		s.handleStoreError(w, r, err, index)
		return
	}
	logpkg.FromContext(ctx).Debug("document deleted", zap.String("index", index), zap.String("id", id))

	version := current.Version + 1
	if p.Version != nil && isExternal(p.VersionType) {
		version = *p.Version
	}
	writeJSON(w, http.StatusOK, core.DeleteResponse{
		Index:         index,
		ID:            id,
		Version:       version,
		Result:        types.ResultDeleted,
		SeqNo:         seq,
		PrimaryTerm:   primaryTerm,
		Shards:        shards(),
		ForcedRefresh: p.Refresh == string(types.RefreshTrue),
	})
}

// Package fakeserver is an in-memory stand-in for the search engine REST
// API. It serves the document and search endpoints of package core over a
// docstore.Store so the bindings can be exercised end to end.
package fakeserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient/internal/docstore"
	logpkg "github.com/kailas-cloud/osclient/internal/logger"
	"github.com/kailas-cloud/osclient/internal/metrics"
	"github.com/kailas-cloud/osclient/types"
)

// Error types written in error documents.
const (
	errIndexNotFound   = "index_not_found_exception"
	errVersionConflict = "version_conflict_engine_exception"
	errParsing         = "parsing_exception"
	errIllegalArgument = "illegal_argument_exception"
	errInternal        = "internal_error"
)

const primaryTerm = 1

// docLockStripes bounds the per-document write locks.
const docLockStripes = 64

// Server handles the REST routes.
type Server struct {
	store   docstore.Store
	metrics *metrics.Server
	logger  *zap.Logger
	params  *schema.Decoder

	// docLocks serialize the read-check-write of a single document so
	// op_type, if_seq_no and external version checks see the latest write.
	docLocks [docLockStripes]sync.Mutex
}

// NewServer creates a server over store. m may be nil.
func NewServer(store docstore.Store, m *metrics.Server, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{store: store, metrics: m, logger: logger, params: dec}
}

// Routes builds the chi router. When gatherer is non-nil its metrics are
// served on /metrics.
func (s *Server) Routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
	}

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/_search", s.Search)
	r.Post("/_search", s.Search)
	r.Get("/{index}/_search", s.Search)
	r.Post("/{index}/_search", s.Search)

	r.Post("/{index}/_doc", s.IndexDocument)
	r.Head("/{index}/_doc/{id}", s.ExistsDocument)
	r.Get("/{index}/_doc/{id}", s.GetDocument)
	r.Put("/{index}/_doc/{id}", s.IndexDocument)
	r.Post("/{index}/_doc/{id}", s.IndexDocument)
	r.Delete("/{index}/_doc/{id}", s.DeleteDocument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, errIllegalArgument,
			"no handler found for uri ["+r.URL.Path+"] and method ["+r.Method+"]", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errIllegalArgument,
			"method ["+r.Method+"] is not allowed for uri ["+r.URL.Path+"]", "")
	})
	return r
}

// lockDoc locks the stripe owning index/id and returns its unlock.
func (s *Server) lockDoc(index, id string) func() {
	h := xxhash.New()
	_, _ = h.WriteString(index)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(id)
	mu := &s.docLocks[h.Sum64()%docLockStripes]
	mu.Lock()
	return mu.Unlock
}

// urlParam returns a decoded route parameter. chi matches on the raw path
// when the request carries escaped characters.
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) decodeParams(dst any, r *http.Request) error {
	return s.params.Decode(dst, r.URL.Query())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an API error document. index, when set, is reported
// as cause metadata the way the engine does.
func writeError(w http.ResponseWriter, status int, errType, reason, index string) {
	cause := types.ErrorCause{Type: errType, Reason: reason}
	if index != "" {
		raw, _ := json.Marshal(index)
		cause.Metadata = map[string]json.RawMessage{"index": raw}
	}
	root := cause
	cause.RootCause = []types.ErrorCause{root}
	writeJSON(w, status, &types.ErrorResponse{Cause: cause, Status: status})
}

func writeIndexNotFound(w http.ResponseWriter, index string) {
	writeError(w, http.StatusNotFound, errIndexNotFound, "no such index ["+index+"]", index)
}

// handleStoreError maps storage failures to responses.
func (s *Server) handleStoreError(w http.ResponseWriter, r *http.Request, err error, index string) {
	if errors.Is(err, docstore.ErrIndexNotFound) {
		writeIndexNotFound(w, index)
		return
	}
	logpkg.FromContext(r.Context()).Error("store error", zap.Error(err), zap.String("index", index))
	writeError(w, http.StatusInternalServerError, errInternal, "internal error", "")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, errInternal, "internal error", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Debug("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/types"
)

func TestGetEndpoint(t *testing.T) {
	req, err := NewGetRequest().Index("books").ID("7").Source(types.SourceFields("title")).Build()
	if err != nil {
		t.Fatal(err)
	}
	httpReq, err := GetEndpoint.Prepare(req)
	if err != nil {
		t.Fatal(err)
	}
	if httpReq.Method != http.MethodGet || httpReq.Path != "/books/_doc/7" {
		t.Errorf("got %s %s", httpReq.Method, httpReq.Path)
	}
	if got := httpReq.Params.Encode(); got != "_source=title" {
		t.Errorf("query = %q", got)
	}

	res, err := GetEndpoint.Decode(&endpoint.Response{
		StatusCode: 200,
		Body:       []byte(`{"_index":"books","_id":"7","found":true,"_version":2,"_seq_no":5,"_primary_term":1,"_source":{"title":"Moby Dick"}}`),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Found || *res.Version != 2 || *res.SeqNo != 5 {
		t.Errorf("got %+v", res)
	}
	var doc struct {
		Title string `json:"title"`
	}
	if err := res.DecodeSource(&doc); err != nil || doc.Title != "Moby Dick" {
		t.Errorf("DecodeSource: %v, %+v", err, doc)
	}

	missing, err := GetEndpoint.Decode(&endpoint.Response{
		StatusCode: 404,
		Body:       []byte(`{"_index":"books","_id":"8","found":false}`),
	})
	if err != nil || missing.Found {
		t.Fatalf("missing doc: %+v, %v", missing, err)
	}
	if err := missing.DecodeSource(&doc); !errors.Is(err, ErrNoSource) {
		t.Errorf("DecodeSource on missing doc: %v", err)
	}

	_, err = GetEndpoint.Decode(&endpoint.Response{
		StatusCode: 404,
		Body:       []byte(`{"error":{"type":"index_not_found_exception","reason":"no such index [nope]"},"status":404}`),
	})
	var er *types.ErrorResponse
	if !errors.As(err, &er) || er.Cause.Type != "index_not_found_exception" {
		t.Errorf("missing index: %v", err)
	}
}

func TestIndexEndpoint(t *testing.T) {
	doc := map[string]any{"title": "Moby Dick"}
	tests := []struct {
		name       string
		build      func(*IndexRequestBuilder) *IndexRequestBuilder
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{
			name:       "with id",
			build:      func(b *IndexRequestBuilder) *IndexRequestBuilder { return b.Index("books").ID("1").Document(doc) },
			wantMethod: http.MethodPut,
			wantPath:   "/books/_doc/1",
		},
		{
			name:       "without id",
			build:      func(b *IndexRequestBuilder) *IndexRequestBuilder { return b.Index("books").Document(doc) },
			wantMethod: http.MethodPost,
			wantPath:   "/books/_doc",
		},
		{
			name: "params",
			build: func(b *IndexRequestBuilder) *IndexRequestBuilder {
				return b.Index("books").ID("1").Document(doc).
					WaitForActiveShards("all").
					Refresh(types.RefreshWaitFor).
					OpType(types.OpTypeCreate).
					IfSeqNo(4).
					IfPrimaryTerm(1)
			},
			wantMethod: http.MethodPut,
			wantPath:   "/books/_doc/1",
			wantQuery:  "if_primary_term=1&if_seq_no=4&op_type=create&refresh=wait_for&wait_for_active_shards=all",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := IndexRequestOf(tc.build)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			httpReq, err := IndexEndpoint.Prepare(req)
			if err != nil {
				t.Fatalf("prepare: %v", err)
			}
			if httpReq.Method != tc.wantMethod || httpReq.Path != tc.wantPath {
				t.Errorf("got %s %s, want %s %s", httpReq.Method, httpReq.Path, tc.wantMethod, tc.wantPath)
			}
			if string(httpReq.Body) != `{"title":"Moby Dick"}` {
				t.Errorf("body = %s", httpReq.Body)
			}
			if httpReq.ContentType != endpoint.ApplicationJSON {
				t.Errorf("content type = %q", httpReq.ContentType)
			}
			if got := httpReq.Params.Encode(); got != tc.wantQuery {
				t.Errorf("query = %q, want %q", got, tc.wantQuery)
			}
		})
	}
}

func TestIndexRequest_Errors(t *testing.T) {
	_, err := NewIndexRequest().Document(map[string]int{"a": 1}).Build()
	var mpe *endpoint.MissingPropertyError
	if !errors.As(err, &mpe) || mpe.Property != "index" {
		t.Errorf("missing index: %v", err)
	}

	_, err = NewIndexRequest().Index("i").Build()
	if !errors.As(err, &mpe) || mpe.Property != "document" {
		t.Errorf("missing document: %v", err)
	}

	_, err = NewIndexRequest().Index("i").Document(make(chan int)).Build()
	if err == nil || errors.Is(err, endpoint.ErrMissingProperty) {
		t.Errorf("unencodable document: %v", err)
	}
}

func TestIndexEndpoint_Decode(t *testing.T) {
	res, err := IndexEndpoint.Decode(&endpoint.Response{
		StatusCode: 201,
		Body: []byte(`{"_index":"books","_id":"1","_version":1,"result":"created","_seq_no":0,"_primary_term":1,` +
			`"_shards":{"total":2,"successful":1,"failed":0}}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != types.ResultCreated || res.Shards.Successful != 1 {
		t.Errorf("got %+v", res)
	}

	_, err = IndexEndpoint.Decode(&endpoint.Response{
		StatusCode: 409,
		Body:       []byte(`{"error":{"type":"version_conflict_engine_exception","reason":"[1]: version conflict"},"status":409}`),
	})
	var er *types.ErrorResponse
	if !errors.As(err, &er) || er.Status != 409 {
		t.Errorf("conflict: %v", err)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	req, err := DeleteRequestOf(func(b *DeleteRequestBuilder) *DeleteRequestBuilder {
		return b.ID("1").Index("books").Refresh(types.RefreshTrue).Routing("r1")
	})
	if err != nil {
		t.Fatal(err)
	}
	httpReq, err := DeleteEndpoint.Prepare(req)
	if err != nil {
		t.Fatal(err)
	}
	if httpReq.Method != http.MethodDelete || httpReq.Path != "/books/_doc/1" {
		t.Errorf("got %s %s", httpReq.Method, httpReq.Path)
	}
	if got := httpReq.Params.Encode(); got != "refresh=true&routing=r1" {
		t.Errorf("query = %q", got)
	}

	res, err := DeleteEndpoint.Decode(&endpoint.Response{
		StatusCode: 404,
		Body:       []byte(`{"_index":"books","_id":"1","_version":1,"result":"not_found","_seq_no":3,"_primary_term":1}`),
	})
	if err != nil || res.Result != types.ResultNotFound {
		t.Errorf("missing doc: %+v, %v", res, err)
	}

	if _, err := NewDeleteRequest().Index("books").Build(); !errors.Is(err, endpoint.ErrMissingProperty) {
		t.Errorf("missing id: %v", err)
	}
}

func TestDocumentEndpoints_EmptyID(t *testing.T) {
	getReq, err := NewGetRequest().Index("my-index").ID("").Build()
	if err != nil {
		t.Fatal(err)
	}
	delReq, err := NewDeleteRequest().Index("my-index").ID("").Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		prepare func() (*endpoint.Request, error)
	}{
		{"get", func() (*endpoint.Request, error) { return GetEndpoint.Prepare(getReq) }},
		{"delete", func() (*endpoint.Request, error) { return DeleteEndpoint.Prepare(delReq) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpReq, err := tc.prepare()
			if !errors.Is(err, endpoint.ErrNoPathTemplate) {
				t.Errorf("Prepare = %+v, %v, want ErrNoPathTemplate", httpReq, err)
			}
		})
	}
}

func TestIndexEndpoint_EmptyID(t *testing.T) {
	req, err := NewIndexRequest().Index("my-index").ID("").Document(map[string]int{"a": 1}).Build()
	if err != nil {
		t.Fatal(err)
	}
	httpReq, err := IndexEndpoint.Prepare(req)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if httpReq.Method != http.MethodPost || httpReq.Path != "/my-index/_doc" {
		t.Errorf("got %s %s, want POST /my-index/_doc", httpReq.Method, httpReq.Path)
	}
}

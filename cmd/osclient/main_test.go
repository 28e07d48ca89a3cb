package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/internal/config"
	"github.com/kailas-cloud/osclient/internal/docstore"
	"github.com/kailas-cloud/osclient/internal/fakeserver"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

func startServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(fakeserver.NewServer(docstore.NewMemory(), nil, zap.NewNop()).Routes(nil))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, url, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env", "test", "--url", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_DocumentLifecycle(t *testing.T) {
	url := startServer(t)

	out, err := run(t, url, "", "index", "books", "1", "--doc", `{"title":"The Blue Whale","year":1851}`)
	if err != nil {
		t.Fatalf("index: %v\n%s", err, out)
	}
	var idx core.IndexResponse
	if err := json.Unmarshal([]byte(out), &idx); err != nil {
		t.Fatalf("decode index output: %v\n%s", err, out)
	}
	if idx.Result != types.ResultCreated || idx.ID != "1" {
		t.Errorf("index result = %+v", idx)
	}

	if _, err := run(t, url, `{"title":"A blue and big whale"}`, "index", "books", "2"); err != nil {
		t.Fatalf("index from stdin: %v", err)
	}

	out, err = run(t, url, "", "exists", "books", "1")
	if err != nil || strings.TrimSpace(out) != "true" {
		t.Errorf("exists = %q, %v; want true", out, err)
	}

	out, err = run(t, url, "", "get", "books", "1", "--source-includes", "title")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got core.GetResponse
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode get output: %v\n%s", err, out)
	}
	var src map[string]any
	if err := got.DecodeSource(&src); err != nil {
		t.Fatalf("DecodeSource: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"title": "The Blue Whale"}, src); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}

	out, err = run(t, url, "", "search", "books", "--match-phrase", "title=blue whale", "--slop", "2")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var sr core.SearchResponse
	if err := json.Unmarshal([]byte(out), &sr); err != nil {
		t.Fatalf("decode search output: %v\n%s", err, out)
	}
	if sr.Hits.Total == nil || sr.Hits.Total.Value != 2 {
		t.Errorf("search total = %+v, want 2", sr.Hits.Total)
	}

	if _, err := run(t, url, "", "delete", "books", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	out, err = run(t, url, "", "exists", "books", "1")
	if err != nil || strings.TrimSpace(out) != "false" {
		t.Errorf("exists after delete = %q, %v; want false", out, err)
	}
}

func TestCLI_Errors(t *testing.T) {
	url := startServer(t)

	if _, err := run(t, url, "", "get", "nope", "1"); err == nil {
		t.Error("get on missing index: expected error")
	}
	if _, err := run(t, url, "", "index", "books", "1", "--doc", "{}", "--refresh", "sometimes"); err == nil {
		t.Error("invalid --refresh: expected error")
	}
	if _, err := run(t, "not a url", "", "exists", "books", "1"); err == nil {
		t.Error("invalid --url: expected error")
	}
}

func TestSearchFlags_Query(t *testing.T) {
	tests := []struct {
		name     string
		flags    searchFlags
		wantKind querydsl.Kind
		wantNone bool
		wantErr  bool
	}{
		{name: "none", wantNone: true},
		{name: "phrase", flags: searchFlags{matchPhrase: []string{"title=blue whale"}, slop: 1}, wantKind: querydsl.KindMatchPhrase},
		{name: "term only", flags: searchFlags{term: []string{"year=1851"}}, wantKind: querydsl.KindBool},
		{name: "phrase and term", flags: searchFlags{matchPhrase: []string{"title=x"}, term: []string{"a=b"}}, wantKind: querydsl.KindBool},
		{name: "raw json", flags: searchFlags{queryJSON: `{"match_all":{}}`}, wantKind: querydsl.KindMatchAll},
		{name: "raw json with clauses", flags: searchFlags{queryJSON: `{"match_all":{}}`, match: []string{"a=b"}}, wantErr: true},
		{name: "bad clause", flags: searchFlags{term: []string{"novalue"}}, wantErr: true},
		{name: "bad json", flags: searchFlags{queryJSON: `{"fuzzy":{}}`}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, ok, err := tc.flags.query()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if ok == tc.wantNone {
				t.Fatalf("has query = %v, want %v", ok, !tc.wantNone)
			}
			if !tc.wantNone && q.Kind() != tc.wantKind {
				t.Errorf("kind = %q, want %q", q.Kind(), tc.wantKind)
			}
		})
	}
}

func TestTermValue(t *testing.T) {
	tests := []struct {
		raw  string
		want types.FieldValueKind
	}{
		{"1851", types.FieldValueLong},
		{"1.5", types.FieldValueDouble},
		{"true", types.FieldValueBool},
		{"Melville", types.FieldValueString},
		{`"quoted"`, types.FieldValueString},
		{"null", types.FieldValueString},
	}
	for _, tc := range tests {
		if got := termValue(tc.raw).Kind(); got != tc.want {
			t.Errorf("termValue(%q).Kind() = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cfg := config.Default()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, zap.NewNop(), lis) }()

	base := "http://" + lis.Addr().String()
	resp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "osclient dev") {
		t.Errorf("version output = %q", out.String())
	}
}

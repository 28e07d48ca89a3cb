package endpoint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mode string

func (m mode) ParamValue() string { return string(m) }

type flagUnion struct {
	on     *bool
	fields []string
}

func (f flagUnion) IsZero() bool { return f.on == nil && len(f.fields) == 0 }

func (f flagUnion) ParamValue() string {
	if f.on != nil {
		if *f.on {
			return "true"
		}
		return "false"
	}
	out := ""
	for i, s := range f.fields {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

type sampleQuery struct {
	Routing  *string   `schema:"routing,omitempty"`
	Realtime *bool     `schema:"realtime,omitempty"`
	Mode     mode      `schema:"mode,omitempty"`
	Stored   []string  `schema:"stored_fields,omitempty"`
	Version  *int64    `schema:"version,omitempty"`
	Source   flagUnion `schema:"_source,omitempty"`
	Ignored  string    `schema:"-"`
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(i int64) *int64 { return &i }

func TestEncodeParams_Empty(t *testing.T) {
	p, err := EncodeParams(sampleQuery{Ignored: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected no params, got %v", p.Map())
	}
}

func TestEncodeParams_OrderAndForms(t *testing.T) {
	q := &sampleQuery{
		Version:  int64Ptr(42),
		Routing:  strPtr("shard-a"),
		Realtime: boolPtr(false),
		Mode:     "external",
		Stored:   []string{"a", "b"},
		Source:   flagUnion{fields: []string{"x", "y"}},
	}
	p, err := EncodeParams(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKeys := []string{"routing", "realtime", "mode", "stored_fields", "version", "_source"}
	if diff := cmp.Diff(wantKeys, p.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	wantMap := map[string]string{
		"routing":       "shard-a",
		"realtime":      "false",
		"mode":          "external",
		"stored_fields": "a,b",
		"version":       "42",
		"_source":       "x,y",
	}
	if diff := cmp.Diff(wantMap, p.Map()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if got := p.Encode(); got != "routing=shard-a&realtime=false&mode=external&stored_fields=a%2Cb&version=42&_source=x%2Cy" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestEncodeParams_NotStruct(t *testing.T) {
	if _, err := EncodeParams("nope"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParams_SetKeepsPosition(t *testing.T) {
	var p Params
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")
	if diff := cmp.Diff([]string{"a", "b"}, p.Keys()); diff != "" {
		t.Error(diff)
	}
	if v, _ := p.Get("a"); v != "3" {
		t.Errorf("a = %q, want 3", v)
	}
	var q Params
	q.Set("a", "3")
	q.Set("b", "2")
	if !p.Equal(q) {
		t.Error("expected equal params")
	}
	if got := p.Values().Get("b"); got != "2" {
		t.Errorf("Values() b = %q", got)
	}
}

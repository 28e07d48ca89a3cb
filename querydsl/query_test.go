package querydsl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/internal/codec"
	"github.com/kailas-cloud/osclient/types"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestMatchPhrase_Encode(t *testing.T) {
	q, err := MatchPhraseOf(func(b *MatchPhraseQueryBuilder) *MatchPhraseQueryBuilder {
		return b.Field("title").Query("blue whale").Slop(2)
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := mustJSON(t, q.ToQuery()); got != `{"match_phrase":{"title":{"query":"blue whale","slop":2}}}` {
		t.Errorf("query = %s", got)
	}
	body, err := q.encodeBody()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"title":{"query":"blue whale","slop":2}}` {
		t.Errorf("body = %s", body)
	}
}

func TestMatchPhrase_BaseFirst(t *testing.T) {
	q, err := NewMatchPhrase().
		ZeroTermsQuery(ZeroTermsQueryAll).
		Analyzer("standard").
		Query("x").
		QueryName("q1").
		Boost(2).
		Field("f").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := `{"f":{"boost":2,"_name":"q1","analyzer":"standard","query":"x","zero_terms_query":"all"}}`
	body, _ := q.encodeBody()
	if string(body) != want {
		t.Errorf("body = %s, want %s", body, want)
	}
}

func TestMatchPhrase_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		b    *MatchPhraseQueryBuilder
		want string
	}{
		{"nothing set", NewMatchPhrase(), "field"},
		{"no query", NewMatchPhrase().Field("title"), "query"},
		{"no field", NewMatchPhrase().Query("x").Slop(1), "field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.b.Build()
			var mpe *endpoint.MissingPropertyError
			if !errors.As(err, &mpe) {
				t.Fatalf("expected MissingPropertyError, got %v", err)
			}
			if mpe.Type != "MatchPhraseQuery" || mpe.Property != tc.want {
				t.Errorf("got %s.%s, want MatchPhraseQuery.%s", mpe.Type, mpe.Property, tc.want)
			}
		})
	}
}

func TestBuilderReuse(t *testing.T) {
	b := NewTerm().Field("status").Value(types.StringValue("active"))
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, endpoint.ErrBuilderReused) {
		t.Fatalf("second build: got %v, want ErrBuilderReused", err)
	}

	failing := NewExists()
	if _, err := failing.Build(); !errors.Is(err, endpoint.ErrMissingProperty) {
		t.Fatalf("got %v", err)
	}
	if _, err := failing.Field("x").Build(); !errors.Is(err, endpoint.ErrBuilderReused) {
		t.Fatalf("failed build must still consume the builder, got %v", err)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	docs := []string{
		`{"match_phrase":{"title":{"query":"blue whale","slop":2}}}`,
		`{"match_phrase":{"title":{"boost":1.5,"query":"a b","zero_terms_query":"none"}}}`,
		`{"match":{"body":{"operator":"and","query":"quick fox"}}}`,
		`{"match":{"n":{"fuzziness":"AUTO","lenient":true,"max_expansions":10,"prefix_length":1,"query":42}}}`,
		`{"term":{"status":{"value":"active","case_insensitive":true}}}`,
		`{"term":{"count":{"_name":"c","value":3}}}`,
		`{"exists":{"field":"user"}}`,
		`{"match_all":{}}`,
		`{"match_all":{"boost":0.5}}`,
		`{"bool":{"filter":[{"term":{"a":{"value":1}}}],"minimum_should_match":"1","must":[{"match_all":{}}],"must_not":[{"exists":{"field":"deleted"}}],"should":[{"match_phrase":{"t":{"query":"x"}}}]}}`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			q, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := mustJSON(t, q); got != doc {
				t.Errorf("round trip:\n got %s\nwant %s", got, doc)
			}
		})
	}
}

func TestParse_Shortcuts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"match_phrase":{"title":"blue whale"}}`, `{"match_phrase":{"title":{"query":"blue whale"}}}`},
		{`{"match":{"title":"whale"}}`, `{"match":{"title":{"query":"whale"}}}`},
		{`{"term":{"status":"active"}}`, `{"term":{"status":{"value":"active"}}}`},
		{`{"term":{"age":30}}`, `{"term":{"age":{"value":30}}}`},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			q, err := Parse([]byte(tc.in))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := mustJSON(t, q); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParse_Accessors(t *testing.T) {
	q, err := Parse([]byte(`{"match_phrase":{"title":{"query":"blue whale","slop":2}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Kind() != KindMatchPhrase {
		t.Fatalf("Kind() = %q", q.Kind())
	}
	mp, ok := q.MatchPhrase()
	if !ok {
		t.Fatal("MatchPhrase() not ok")
	}
	if mp.Field() != "title" || mp.Query() != "blue whale" || mp.Slop().UnwrapOr(0) != 2 {
		t.Errorf("got field=%q query=%q slop=%v", mp.Field(), mp.Query(), mp.Slop())
	}
	if _, ok := q.Term(); ok {
		t.Error("Term() should not match a match_phrase query")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		target error
		key    string
	}{
		{"unknown variant", `{"fuzzy":{"a":"b"}}`, ErrUnknownVariant, ""},
		{"two keys", `{"match_all":{},"exists":{"field":"a"}}`, codec.ErrShape, ""},
		{"not an object", `[]`, codec.ErrShape, ""},
		{"unknown member", `{"exists":{"field":"a","nope":1}}`, codec.ErrUnknownProperty, "nope"},
		{"missing required", `{"match_phrase":{"title":{"slop":2}}}`, endpoint.ErrMissingProperty, ""},
		{"bad enum", `{"match":{"t":{"query":"x","operator":"xor"}}}`, nil, "operator"},
		{"bad slop type", `{"match_phrase":{"t":{"query":"x","slop":"two"}}}`, nil, "slop"},
		{"exists shortcut", `{"exists":"a"}`, codec.ErrShape, ""},
		{"nested unknown", `{"bool":{"must":[{"wildcard":{}}]}}`, ErrUnknownVariant, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("error %v does not wrap %v", err, tc.target)
			}
			if tc.key != "" {
				var de *codec.DecodeError
				if !errors.As(err, &de) || de.Key != tc.key {
					t.Errorf("expected DecodeError on %q, got %v", tc.key, err)
				}
			}
		})
	}
}

func TestUnknownVariantError(t *testing.T) {
	_, err := Parse([]byte(`{"fuzzy":{}}`))
	var uve *UnknownVariantError
	if !errors.As(err, &uve) || uve.Kind != "fuzzy" {
		t.Fatalf("got %v", err)
	}
}

func TestQuery_ZeroValue(t *testing.T) {
	var q Query
	if !q.IsZero() || q.Kind() != "" {
		t.Error("zero Query should report no variant")
	}
	if _, err := json.Marshal(q); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("marshal zero query: %v", err)
	}
}

func TestKinds_AllRegistered(t *testing.T) {
	var got []Kind
	for _, k := range Kinds() {
		if _, ok := variantDecoders[k]; ok {
			got = append(got, k)
		}
	}
	if diff := cmp.Diff(Kinds(), got); diff != "" {
		t.Errorf("unregistered kinds (-want +got):\n%s", diff)
	}
	if len(variantDecoders) != len(Kinds()) {
		t.Errorf("%d decoders registered for %d kinds", len(variantDecoders), len(Kinds()))
	}
}

func TestBool_Build(t *testing.T) {
	term, err := TermOf(func(b *TermQueryBuilder) *TermQueryBuilder {
		return b.Field("tag").Value(types.StringValue("go"))
	})
	if err != nil {
		t.Fatal(err)
	}
	bq, err := BoolOf(func(b *BoolQueryBuilder) *BoolQueryBuilder {
		return b.Filter(term.ToQuery()).Should(MatchAll()).MinimumShouldMatch("1")
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"bool":{"filter":[{"term":{"tag":{"value":"go"}}}],"minimum_should_match":"1","should":[{"match_all":{}}]}}`
	if got := mustJSON(t, bq.ToQuery()); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMatch_Text(t *testing.T) {
	m, err := MatchOf(func(b *MatchQueryBuilder) *MatchQueryBuilder {
		return b.Field("body").Text("Quick Fox").Operator(OperatorAnd)
	})
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := m.Query().Str(); !ok || s != "Quick Fox" {
		t.Errorf("Query() = %v", m.Query())
	}
	if got := mustJSON(t, m.ToQuery()); got != `{"match":{"body":{"operator":"and","query":"Quick Fox"}}}` {
		t.Errorf("got %s", got)
	}
}

func TestEnums_CaseInsensitive(t *testing.T) {
	var op Operator
	if err := op.UnmarshalText([]byte("AND")); err != nil || op != OperatorAnd {
		t.Errorf("Operator = %q, %v", op, err)
	}
	var z ZeroTermsQuery
	if err := z.UnmarshalText([]byte("None")); err != nil || z != ZeroTermsQueryNone {
		t.Errorf("ZeroTermsQuery = %q, %v", z, err)
	}
	if err := z.UnmarshalText([]byte("some")); err == nil {
		t.Error("expected error")
	}
}

package osclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osclient/internal/docstore"
	"github.com/kailas-cloud/osclient/internal/fakeserver"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(fakeserver.NewServer(docstore.NewMemory(), nil, zap.NewNop()).Routes(nil))
	t.Cleanup(srv.Close)

	c, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func newBooks(t *testing.T) *TypedIndex[book] {
	t.Helper()
	idx, err := NewIndex[book](newTestClient(t), "books")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

func seed(t *testing.T, idx *TypedIndex[book]) {
	t.Helper()
	for _, b := range []book{
		{ID: "1", Title: "The Blue Whale", Author: "Melville", Year: 1851, Tags: []string{"ocean"}},
		{ID: "2", Title: "A blue and big whale", Author: "Unknown", Year: 1990},
		{ID: "3", Title: "Whale, blue", Author: "Melville", Year: 1852},
		{ID: "4", Title: "Desert Songs", Year: 2001},
	} {
		if _, err := idx.Upsert(context.Background(), b); err != nil {
			t.Fatalf("Upsert %s: %v", b.ID, err)
		}
	}
}

func TestNewIndex_InvalidStruct(t *testing.T) {
	if _, err := NewIndex[noID](nil, "bad"); err == nil {
		t.Fatal("expected error for struct without id tag")
	}
}

func TestTypedIndex_Lifecycle(t *testing.T) {
	idx := newBooks(t)
	ctx := context.Background()
	moby := book{ID: "moby", Title: "Moby Dick", Year: 1851}

	created, err := idx.Upsert(ctx, moby)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("first Upsert: created = false, want true")
	}
	moby.Title = "Moby-Dick"
	if created, err = idx.Upsert(ctx, moby); err != nil || created {
		t.Errorf("second Upsert = %v, %v; want false, nil", created, err)
	}

	got, err := idx.Get(ctx, "moby")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(moby, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	ok, err := idx.Exists(ctx, "moby")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}

	if err := idx.Delete(ctx, "moby"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := idx.Get(ctx, "moby"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrDocumentNotFound", err)
	}
	if err := idx.Delete(ctx, "moby"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("second Delete: err = %v, want ErrDocumentNotFound", err)
	}
}

func TestTypedIndex_GetMissingIndex(t *testing.T) {
	idx := newBooks(t)
	_, err := idx.Get(context.Background(), "x")
	er := AsErrorResponse(err)
	if er == nil || er.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 error response", err)
	}
}

func TestTypedIndex_Create(t *testing.T) {
	idx := newBooks(t)
	ctx := context.Background()
	b := book{ID: "1", Title: "first"}

	if err := idx.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := idx.Create(ctx, b)
	er := AsErrorResponse(err)
	if er == nil || er.Status != http.StatusConflict {
		t.Fatalf("second Create: err = %v, want 409", err)
	}
}

func TestTypedIndex_Routing(t *testing.T) {
	idx := newBooks(t)
	ctx := context.Background()
	if _, err := idx.Upsert(ctx, book{ID: "r1", Shelf: "east", Title: "routed"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	// lookups by id alone carry no routing and so miss the document
	ok, err := idx.Exists(ctx, "r1")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("Exists without routing = true, want false")
	}

	page, err := idx.Search().Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Hits) != 1 || page.Hits[0].Item.Shelf != "east" {
		t.Errorf("hits = %+v, want the routed document", page.Hits)
	}
}

func TestTypedIndex_Count(t *testing.T) {
	idx := newBooks(t)
	seed(t, idx)
	n, err := idx.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("Count = %d, want 4", n)
	}
}

func TestSearchBuilder_Do(t *testing.T) {
	idx := newBooks(t)
	seed(t, idx)
	ctx := context.Background()

	tests := []struct {
		name      string
		build     func(*SearchBuilder[book]) *SearchBuilder[book]
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "all",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b },
			wantIDs:   []string{"1", "2", "3", "4"},
			wantTotal: 4,
		},
		{
			name:      "exact phrase",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b.Phrase("title", "blue whale", 0) },
			wantIDs:   []string{"1"},
			wantTotal: 1,
		},
		{
			name:      "phrase with slop",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b.Phrase("title", "blue whale", 2) },
			wantIDs:   []string{"1", "2"},
			wantTotal: 2,
		},
		{
			name: "match and where",
			build: func(b *SearchBuilder[book]) *SearchBuilder[book] {
				return b.Match("title", "whale").Where("author", "Melville")
			},
			wantIDs:   []string{"1", "3"},
			wantTotal: 2,
		},
		{
			name:      "numeric where",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b.Where("year", 1990) },
			wantIDs:   []string{"2"},
			wantTotal: 1,
		},
		{
			name:      "has",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b.Has("tags") },
			wantIDs:   []string{"1"},
			wantTotal: 1,
		},
		{
			name:      "paging",
			build:     func(b *SearchBuilder[book]) *SearchBuilder[book] { return b.From(1).Limit(2) },
			wantIDs:   []string{"2", "3"},
			wantTotal: 4,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := tc.build(idx.Search()).Do(ctx)
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			ids := make([]string, len(page.Hits))
			for i, h := range page.Hits {
				ids[i] = h.ID
				if h.Item.ID != h.ID {
					t.Errorf("hit %s decoded with ID %q", h.ID, h.Item.ID)
				}
			}
			if diff := cmp.Diff(tc.wantIDs, ids); diff != "" {
				t.Errorf("hits mismatch (-want +got):\n%s", diff)
			}
			if page.Total != tc.wantTotal || page.TotalIsLowerBound {
				t.Errorf("total = %d (lower bound %v), want %d", page.Total, page.TotalIsLowerBound, tc.wantTotal)
			}
		})
	}
}

func TestSearchBuilder_Query(t *testing.T) {
	idx, err := NewIndex[book](nil, "books")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	q, err := idx.Search().Query()
	if err != nil || q.Kind() != querydsl.KindMatchAll {
		t.Errorf("empty builder query = %v, %v; want match_all", q, err)
	}

	q, err = idx.Search().Phrase("title", "blue whale", 1).Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	mp, ok := q.MatchPhrase()
	if !ok || mp.Field() != "title" || mp.Slop().UnwrapOr(0) != 1 {
		t.Errorf("single clause query = %v, want match_phrase with slop 1", q)
	}

	q, err = idx.Search().Match("title", "whale").Where("year", 1851).Has("tags").Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	bq, ok := q.Bool()
	if !ok || len(bq.Must()) != 1 || len(bq.Filter()) != 2 {
		t.Errorf("combined query = %v, want bool with 1 must and 2 filters", q)
	}

	if _, err := idx.Search().Where("year", []int{1}).Query(); err == nil {
		t.Error("expected error for slice term value")
	}
}

func TestFieldValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want types.FieldValue
	}{
		{"x", types.StringValue("x")},
		{true, types.BoolValue(true)},
		{int32(5), types.LongValue(5)},
		{uint8(7), types.LongValue(7)},
		{1.5, types.DoubleValue(1.5)},
		{types.LongValue(9), types.LongValue(9)},
	}
	for _, tc := range tests {
		got, err := fieldValueOf(tc.in)
		if err != nil {
			t.Errorf("fieldValueOf(%v): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want.String() || got.Kind() != tc.want.Kind() {
			t.Errorf("fieldValueOf(%v) = %v (%v), want %v (%v)", tc.in, got, got.Kind(), tc.want, tc.want.Kind())
		}
	}
}

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemory_PutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	doc := Document{Index: "books", ID: "1", Version: 1, Source: json.RawMessage(`{"title":"a"}`)}
	if err := m.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := m.Get(ctx, "books", "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	// Stored sources are isolated from caller mutation.
	got.Source[2] = 'X'
	again, _ := m.Get(ctx, "books", "1")
	if string(again.Source) != `{"title":"a"}` {
		t.Errorf("source = %s, want unchanged", again.Source)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "books", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing index: err = %v, want ErrNotFound", err)
	}
	_ = m.Put(ctx, Document{Index: "books", ID: "1"})
	if _, err := m.Get(ctx, "books", "2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Put(ctx, Document{Index: "books", ID: "1"})

	if err := m.Delete(ctx, "books", "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "books", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, "nope", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete on missing index: err = %v, want ErrNotFound", err)
	}

	ok, _ := m.IndexExists(ctx, "books")
	if !ok {
		t.Error("index should outlive its documents")
	}
}

func TestMemory_ListSorted(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, id := range []string{"c", "a", "b"} {
		_ = m.Put(ctx, Document{Index: "books", ID: id})
	}

	docs, err := m.List(ctx, "books")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	if _, err := m.List(ctx, "nope"); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("List missing: err = %v, want ErrIndexNotFound", err)
	}
}

func TestMemory_Indices(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Put(ctx, Document{Index: "movies", ID: "1"})
	_ = m.Put(ctx, Document{Index: "books", ID: "1"})

	got, _ := m.Indices(ctx)
	if diff := cmp.Diff([]string{"books", "movies"}, got); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_NextSeqNo(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for want := int64(0); want < 3; want++ {
		got, err := m.NextSeqNo(ctx, "books")
		if err != nil {
			t.Fatalf("NextSeqNo: %v", err)
		}
		if got != want {
			t.Errorf("NextSeqNo = %d, want %d", got, want)
		}
	}
	if got, _ := m.NextSeqNo(ctx, "movies"); got != 0 {
		t.Errorf("NextSeqNo(movies) = %d, want 0", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&Error{Op: OpGet, Err: inner})

	if err.Error() != "GET: boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "GET: boom")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

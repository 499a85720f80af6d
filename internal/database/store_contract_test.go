package database

import (
	"context"
	"strings"
	"testing"

	"github.com/go-while/go-pugtodo/internal/models"
	"github.com/google/go-cmp/cmp"
)

// runStoreContract exercises the Store behaviour every backend must share.
// missingID must be well formed for the backend but match no record.
func runStoreContract(t *testing.T, store Store, missingID string) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		items, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty store, got %d items", len(items))
		}
	})

	t.Run("create then list once", func(t *testing.T) {
		created, err := store.Create(ctx, "Buy milk")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.ID == "" {
			t.Fatal("Create returned an item without id")
		}
		items, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		count := 0
		for _, it := range items {
			if it.ID == created.ID {
				count++
				if it.Text != "Buy milk" {
					t.Errorf("stored text = %q", it.Text)
				}
			}
		}
		if count != 1 {
			t.Errorf("created item listed %d times, want 1", count)
		}
		mustDelete(t, store, created.ID)
	})

	t.Run("create rejects invalid text", func(t *testing.T) {
		for _, text := range []string{"", "   ", strings.Repeat("x", models.MaxTextLength+1)} {
			if _, err := store.Create(ctx, text); models.KindOf(err) != models.KindInvalidInput {
				t.Errorf("Create(%d chars) err = %v, want KindInvalidInput", len(text), err)
			}
		}
		items, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("rejected creates stored %d items", len(items))
		}
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		var want []*models.Item
		for _, text := range []string{"first", "second", "third"} {
			it, err := store.Create(ctx, text)
			if err != nil {
				t.Fatalf("Create(%q): %v", text, err)
			}
			want = append(want, it)
		}
		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("List mismatch (-want +got):\n%s", diff)
		}
		for _, it := range want {
			mustDelete(t, store, it.ID)
		}
	})

	t.Run("update replaces only its text", func(t *testing.T) {
		a, err := store.Create(ctx, "a")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		b, err := store.Create(ctx, "b")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := store.Update(ctx, a.ID, "a2"); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := []*models.Item{{ID: a.ID, Text: "a2"}, {ID: b.ID, Text: "b"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("after update (-want +got):\n%s", diff)
		}
		if err := store.Update(ctx, a.ID, ""); models.KindOf(err) != models.KindInvalidInput {
			t.Errorf("Update with blank text err = %v, want KindInvalidInput", err)
		}
		mustDelete(t, store, a.ID)
		mustDelete(t, store, b.ID)
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		kept, err := store.Create(ctx, "keep me")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := store.Delete(ctx, missingID); err != nil {
			t.Errorf("Delete(missing) = %v, want nil", err)
		}
		if err := store.Update(ctx, missingID, "ghost"); err != nil {
			t.Errorf("Update(missing) = %v, want nil", err)
		}
		item, err := store.Get(ctx, missingID)
		if err != nil || item != nil {
			t.Errorf("Get(missing) = %v, %v, want nil, nil", item, err)
		}
		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if diff := cmp.Diff([]*models.Item{kept}, got); diff != "" {
			t.Errorf("collection changed (-want +got):\n%s", diff)
		}
		mustDelete(t, store, kept.ID)
	})

	t.Run("malformed id", func(t *testing.T) {
		if _, err := store.Get(ctx, "not-an-id"); models.KindOf(err) != models.KindInvalidID {
			t.Errorf("Get err = %v, want KindInvalidID", err)
		}
		if err := store.Delete(ctx, "not-an-id"); models.KindOf(err) != models.KindInvalidID {
			t.Errorf("Delete err = %v, want KindInvalidID", err)
		}
		if err := store.Update(ctx, "not-an-id", "x"); models.KindOf(err) != models.KindInvalidID {
			t.Errorf("Update err = %v, want KindInvalidID", err)
		}
	})

	t.Run("end to end", func(t *testing.T) {
		created, err := store.Create(ctx, "Buy milk")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := store.Update(ctx, created.ID, "Buy bread"); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := store.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if diff := cmp.Diff(&models.Item{ID: created.ID, Text: "Buy bread"}, got); diff != "" {
			t.Errorf("Get after update (-want +got):\n%s", diff)
		}
		mustDelete(t, store, created.ID)
		items, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected empty list after delete, got %d", len(items))
		}
	})
}

func mustDelete(t *testing.T, store Store, id string) {
	t.Helper()
	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete(%s): %v", id, err)
	}
}

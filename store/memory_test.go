package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if _, err := st.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.Save(ctx, "a", `{"id":"a"}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, "b", `{"id":"b"}`); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := st.Load(ctx, "a")
	if err != nil || snap != `{"id":"a"}` {
		t.Fatalf("load: %q %v", snap, err)
	}

	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := st.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Load(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting an absent key is fine.
	if err := st.Delete(ctx, "a"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	data := []byte(`{"version":1}`)
	if err := s.Put(ctx, LatestSnapshotPath(), data); err != nil {
		t.Fatalf("put: %v", err)
	}
	data[0] = 'x'
	got, err := s.Get(ctx, LatestSnapshotPath())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"version":1}` {
		t.Fatalf("expected stored copy to be independent, got %s", got)
	}

	s.Put(ctx, SnapshotPath("2025-01-01"), nil)
	s.Put(ctx, "other/key", nil)
	keys, _ := s.List(ctx, "catalog/snapshots/")
	if len(keys) != 2 || keys[0] != "catalog/snapshots/2025-01-01.json" {
		t.Fatalf("unexpected keys %v", keys)
	}

	s.Delete(ctx, "other/key")
	if keys, _ = s.List(ctx, "other/"); len(keys) != 0 {
		t.Fatalf("expected key deleted, got %v", keys)
	}
}

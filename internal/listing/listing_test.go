package listing

import (
	"context"
	"errors"
	"testing"
)

var (
	_ Store   = (*MemoryStore)(nil)
	_ Store   = (*PostgresStore)(nil)
	_ Catalog = (*SQLiteStore)(nil)
	_ Catalog = (*SnapshotStore)(nil)
)

func f64(v float64) *float64 { return &v }

func sample() []Listing {
	return []Listing{
		{
			ID:             "board-1",
			Name:           "Burton Custom",
			Description:    "All-mountain camber board",
			Category:       "snowboards",
			Specifications: Specifications{Size: "158cm", Material: "poplar"},
			PricePerDay:    45,
			PricePerWeek:   f64(250),
			Rating:         4.6,
			ReviewCount:    12,
			Location:       Location{Latitude: f64(39.6403), Longitude: f64(-106.3742), PostalCode: "81657"},
			Owner:          Owner{ID: "u-1", Name: "Sam"},
			Featured:       true,
			Status:         StatusActive,
		},
		{
			ID:          "kayak-1",
			Name:        "Sea kayak",
			Category:    "kayaks",
			PricePerDay: 60,
			Owner:       Owner{ID: "u-2", Name: "Ari"},
			Status:      StatusSuspended,
		},
	}
}

func TestSearchText(t *testing.T) {
	l := sample()[0]
	want := "Burton Custom snowboards All-mountain camber board 158cm poplar"
	if got := l.SearchText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLocationPoint(t *testing.T) {
	if _, ok := (Location{Latitude: f64(10)}).Point(); ok {
		t.Fatal("expected missing longitude to be invalid")
	}
	if _, ok := (Location{Latitude: f64(95), Longitude: f64(0)}).Point(); ok {
		t.Fatal("expected out-of-range latitude to be invalid")
	}
	p, ok := (Location{Latitude: f64(1), Longitude: f64(2)}).Point()
	if !ok || p.Lat != 1 || p.Lng != 2 {
		t.Fatalf("expected (1,2), got %+v %v", p, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(sample()...)

	active, _ := s.List(ctx)
	if len(active) != 1 || active[0].ID != "board-1" {
		t.Fatalf("expected only the active listing, got %v", active)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.SetStatus(ctx, "kayak-1", StatusActive); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := s.SetStatus(ctx, "kayak-1", "archived"); err == nil {
		t.Fatal("expected invalid status to fail")
	}
	if err := s.SetFeatured(ctx, "nope", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	active, _ = s.List(ctx)
	if len(active) != 2 {
		t.Fatalf("expected 2 active listings, got %d", len(active))
	}

	created, err := s.Create(ctx, Listing{Name: "Tent", PricePerDay: 15, Owner: Owner{ID: "u-1"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Status != StatusActive || created.CreatedAt.IsZero() {
		t.Fatalf("expected defaults to be filled, got %+v", created)
	}
	mine, _ := s.ListByOwner(ctx, "u-1")
	if len(mine) != 2 || mine[0].ID != created.ID {
		t.Fatalf("expected newest listing first, got %v", mine)
	}
}

func TestMemoryStoreFavorites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(sample()...)

	favs, _ := s.FavoriteIDs(ctx, "u-9")
	if favs == nil || len(favs) != 0 {
		t.Fatalf("expected empty non-nil set, got %v", favs)
	}
	s.AddFavorite(ctx, "u-9", "board-1")
	s.AddFavorite(ctx, "u-9", "board-1")
	favs, _ = s.FavoriteIDs(ctx, "u-9")
	if _, ok := favs["board-1"]; !ok || len(favs) != 1 {
		t.Fatalf("expected {board-1}, got %v", favs)
	}
	s.RemoveFavorite(ctx, "u-9", "board-1")
	favs, _ = s.FavoriteIDs(ctx, "u-9")
	if len(favs) != 0 {
		t.Fatalf("expected favorite removed, got %v", favs)
	}
}

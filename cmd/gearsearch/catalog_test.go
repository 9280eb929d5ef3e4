package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/search"
)

func ptr(v float64) *float64 { return &v }

func writeCatalogCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gear.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()

	err = listing.WriteCSV(f, []listing.Listing{
		{
			ID: "kayak-1", Name: "Touring Kayak", Category: "kayaks", PricePerDay: 45,
			Rating: 4.6, ReviewCount: 12, Status: listing.StatusActive,
			Location: listing.Location{Latitude: ptr(40.0150), Longitude: ptr(-105.2705)},
		},
		{
			ID: "kayak-2", Name: "River Kayak", Category: "kayaks", PricePerDay: 30,
			Status:   listing.StatusActive,
			Location: listing.Location{Latitude: ptr(34.0522), Longitude: ptr(-118.2437)},
		},
		{ID: "stove-1", Name: "Camp Stove", Category: "camping", PricePerDay: 8, Status: listing.StatusActive},
	})
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestImportAndSearchSQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := listing.OpenSQLite(filepath.Join(dir, "gearhub.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer store.Close()

	n, err := importCSV(ctx, store, writeCatalogCSV(t, dir))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 imported, got %d", n)
	}

	boulder := geo.Point{Lat: 40.0150, Lng: -105.2705}
	engine := search.NewEngine(store, nil, search.Options{})
	resp, err := engine.Search(ctx, search.SearchRequest{
		Query:   "kayak",
		Filters: search.FilterSet{Category: "kayaks"},
		Sort:    search.SortDistance,
		Origin:  &boulder,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.TotalHits != 2 {
		t.Fatalf("expected 2 hits, got %d", resp.TotalHits)
	}
	if got := resp.Results[0].Listing.ID; got != "kayak-1" {
		t.Fatalf("expected kayak-1 nearest, got %s", got)
	}
}

func TestFavoritesFlagOverSQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := listing.OpenSQLite(filepath.Join(dir, "gearhub.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer store.Close()
	if _, err := importCSV(ctx, store, writeCatalogCSV(t, dir)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := store.AddFavorite(ctx, "u-1", "stove-1"); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	engine := search.NewEngine(store, nil, search.Options{})
	resp, err := engine.Search(ctx, search.SearchRequest{
		Filters: search.FilterSet{FavoritesOnly: true},
		UserID:  "u-1",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.TotalHits != 1 || resp.Results[0].Listing.ID != "stove-1" {
		t.Fatalf("expected only stove-1, got %d hits", resp.TotalHits)
	}
}

package search

import (
	"errors"
	"testing"

	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

func TestPriceFacetBuckets(t *testing.T) {
	listings := []listing.Listing{gear("a", 10), gear("b", 30), gear("c", 200)}
	buckets, err := DefaultPriceBuckets().Resolve([]string{"under-25", "over-150"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got := ids(ApplyFacet(listings, PriceFacet{Buckets: buckets}))
	if want := []string{"a", "c"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRatingFacetExcludesUnrated(t *testing.T) {
	rated := gear("rated", 20)
	rated.Rating = 4.5
	unrated := gear("unrated", 20)
	low := gear("low", 20)
	low.Rating = 3.2

	buckets, err := DefaultRatingBuckets().Resolve([]string{"4-star"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := ids(ApplyFacet([]listing.Listing{unrated, rated, low}, RatingFacet{Buckets: buckets}))
	if want := []string{"rated"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// A bucket that starts at zero still skips unrated listings.
	zero := MustBucketTable(Bucket{ID: "any", Min: 0, Max: f64(5)}).Buckets()
	got = ids(ApplyFacet([]listing.Listing{unrated, rated}, RatingFacet{Buckets: zero}))
	if want := []string{"rated"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRatingBucketGap(t *testing.T) {
	l := gear("x", 10)
	l.Rating = 4.995
	all := DefaultRatingBuckets().Buckets()
	if got := ApplyFacet([]listing.Listing{l}, RatingFacet{Buckets: all}); len(got) != 0 {
		t.Fatalf("expected 4.995 to fall between buckets, got %v", ids(got))
	}
}

func TestCategoryAndFeaturedFacets(t *testing.T) {
	a := gear("a", 10)
	a.Category = "skis"
	a.Featured = true
	b := gear("b", 10)
	b.Category = "kayaks"
	c := gear("c", 10)
	c.Category = "skis"
	listings := []listing.Listing{a, b, c}

	if got := ids(ApplyFacet(listings, CategoryFacet{Category: "skis"})); !equal(got, []string{"a", "c"}) {
		t.Fatalf("expected [a c], got %v", got)
	}
	if got := ids(ApplyFacet(listings, CategoryFacet{})); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected empty category to pass all, got %v", got)
	}
	if got := ids(ApplyFacet(listings, FeaturedFacet{})); !equal(got, []string{"a"}) {
		t.Fatalf("expected [a], got %v", got)
	}
}

func TestRadiusFacet(t *testing.T) {
	denver := geo.Point{Lat: 39.7392, Lng: -104.9903}
	near := located(gear("boulder", 10), 40.0150, -105.2705)
	far := located(gear("la", 10), 34.0522, -118.2437)
	nowhere := gear("nowhere", 10)
	listings := []listing.Listing{near, far, nowhere}

	got := ids(ApplyFacet(listings, RadiusFacet{Miles: 50, Origin: denver}))
	if want := []string{"boulder"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	bad := geo.Point{Lat: 200, Lng: 0}
	got = ids(ApplyFacet(listings, RadiusFacet{Miles: 50, Origin: bad}))
	if want := []string{"boulder", "la", "nowhere"}; !equal(got, want) {
		t.Fatalf("expected invalid origin to pass all, got %v", got)
	}
}

func TestFavoritesFacet(t *testing.T) {
	listings := []listing.Listing{gear("a", 1), gear("b", 1), gear("c", 1)}

	got := ids(ApplyFacet(listings, FavoritesFacet{IDs: map[string]struct{}{"b": {}}}))
	if !equal(got, []string{"b"}) {
		t.Fatalf("expected [b], got %v", got)
	}
	got = ids(ApplyFacet(listings, FavoritesFacet{}))
	if !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected nil favorites to pass all, got %v", got)
	}
}

func TestFilterSetFacetsOrder(t *testing.T) {
	origin := geo.Point{Lat: 1, Lng: 1}
	fs := FilterSet{
		Category:      "skis",
		PriceBuckets:  []string{"25-50"},
		RatingBuckets: []string{"5-star"},
		RadiusMiles:   10,
		FeaturedOnly:  true,
		FavoritesOnly: true,
	}
	facets, err := fs.Facets(DefaultPriceBuckets(), DefaultRatingBuckets(), &origin, map[string]struct{}{})
	if err != nil {
		t.Fatalf("facets: %v", err)
	}
	want := []FacetKind{FacetFavorites, FacetPrice, FacetRating, FacetFeatured, FacetCategory, FacetRadius}
	if len(facets) != len(want) {
		t.Fatalf("expected %d facets, got %d", len(want), len(facets))
	}
	for i, f := range facets {
		if f.Kind() != want[i] {
			t.Fatalf("facet %d: expected %v, got %v", i, want[i], f.Kind())
		}
	}

	// No origin and no favorites set: both facets drop out.
	facets, err = fs.Facets(DefaultPriceBuckets(), DefaultRatingBuckets(), nil, nil)
	if err != nil {
		t.Fatalf("facets: %v", err)
	}
	if len(facets) != 4 {
		t.Fatalf("expected 4 facets, got %d", len(facets))
	}
}

func TestFilterSetUnknownBucket(t *testing.T) {
	fs := FilterSet{PriceBuckets: []string{"free"}}
	_, err := fs.Facets(DefaultPriceBuckets(), DefaultRatingBuckets(), nil, nil)
	if !errors.Is(err, ErrUnknownBucket) {
		t.Fatalf("expected ErrUnknownBucket, got %v", err)
	}
}

func TestApplyFacetsDoesNotModifyInput(t *testing.T) {
	listings := []listing.Listing{gear("a", 10), gear("b", 30)}
	out := ApplyFacets(listings, nil)
	out[0].ID = "changed"
	if listings[0].ID != "a" {
		t.Fatal("expected input to be untouched")
	}
}

func TestNewBucketTableRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		buckets []Bucket
	}{
		{"empty id", []Bucket{{Min: 0}}},
		{"duplicate id", []Bucket{{ID: "a", Min: 0}, {ID: "a", Min: 5}}},
		{"max below min", []Bucket{{ID: "a", Min: 10, Max: f64(5)}}},
		{"negative min", []Bucket{{ID: "a", Min: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBucketTable(tt.buckets...); !errors.Is(err, ErrInvalidBucket) {
				t.Fatalf("expected ErrInvalidBucket, got %v", err)
			}
		})
	}
}

package search

import (
	"fmt"
	"math"

	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// FacetKind identifies one filter dimension.
type FacetKind int

// Facet kinds in the order FilterSet applies them.
const (
	FacetFavorites FacetKind = iota
	FacetPrice
	FacetRating
	FacetFeatured
	FacetCategory
	FacetRadius
)

func (k FacetKind) String() string {
	switch k {
	case FacetFavorites:
		return "favorites"
	case FacetPrice:
		return "price"
	case FacetRating:
		return "rating"
	case FacetFeatured:
		return "featured"
	case FacetCategory:
		return "category"
	case FacetRadius:
		return "radius"
	default:
		return fmt.Sprintf("FacetKind(%d)", int(k))
	}
}

// Facet is one active filter. The concrete types below are the only
// implementations.
type Facet interface {
	Kind() FacetKind
	facet()
}

// CategoryFacet keeps listings in one category.
type CategoryFacet struct{ Category string }

// PriceFacet keeps listings whose day price falls in any of the buckets.
type PriceFacet struct{ Buckets []Bucket }

// RatingFacet keeps rated listings whose rating falls in any of the buckets.
type RatingFacet struct{ Buckets []Bucket }

// RadiusFacet keeps listings within Miles of Origin.
type RadiusFacet struct {
	Miles  float64
	Origin geo.Point
}

// FeaturedFacet keeps featured listings.
type FeaturedFacet struct{}

// FavoritesFacet keeps listings whose ID is in IDs.
type FavoritesFacet struct{ IDs map[string]struct{} }

func (CategoryFacet) Kind() FacetKind  { return FacetCategory }
func (PriceFacet) Kind() FacetKind     { return FacetPrice }
func (RatingFacet) Kind() FacetKind    { return FacetRating }
func (RadiusFacet) Kind() FacetKind    { return FacetRadius }
func (FeaturedFacet) Kind() FacetKind  { return FacetFeatured }
func (FavoritesFacet) Kind() FacetKind { return FacetFavorites }

func (CategoryFacet) facet()  {}
func (PriceFacet) facet()     {}
func (RatingFacet) facet()    {}
func (RadiusFacet) facet()    {}
func (FeaturedFacet) facet()  {}
func (FavoritesFacet) facet() {}

// FilterSet holds the facet selections of a search. The zero value passes
// every listing through.
type FilterSet struct {
	Category      string   `json:"category,omitempty"`
	PriceBuckets  []string `json:"price_buckets,omitempty"`
	RatingBuckets []string `json:"rating_buckets,omitempty"`
	RadiusMiles   float64  `json:"radius_miles,omitempty"`
	FeaturedOnly  bool     `json:"featured_only,omitempty"`
	FavoritesOnly bool     `json:"favorites_only,omitempty"`
}

// Facets builds the active facets in application order:
// favorites, price, rating, featured, category, proximity.
// Selections that cannot apply are left out: a radius without a valid origin,
// or favorites without a favorites set.
func (fs FilterSet) Facets(prices, ratings *BucketTable, origin *geo.Point, favorites map[string]struct{}) ([]Facet, error) {
	var out []Facet

	if fs.FavoritesOnly && favorites != nil {
		out = append(out, FavoritesFacet{IDs: favorites})
	}
	if len(fs.PriceBuckets) > 0 {
		b, err := prices.Resolve(fs.PriceBuckets)
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		out = append(out, PriceFacet{Buckets: b})
	}
	if len(fs.RatingBuckets) > 0 {
		b, err := ratings.Resolve(fs.RatingBuckets)
		if err != nil {
			return nil, fmt.Errorf("rating: %w", err)
		}
		out = append(out, RatingFacet{Buckets: b})
	}
	if fs.FeaturedOnly {
		out = append(out, FeaturedFacet{})
	}
	if fs.Category != "" {
		out = append(out, CategoryFacet{Category: fs.Category})
	}
	if fs.RadiusMiles > 0 && !math.IsInf(fs.RadiusMiles, 0) && origin != nil && origin.Valid() {
		out = append(out, RadiusFacet{Miles: fs.RadiusMiles, Origin: *origin})
	}
	return out, nil
}

// ApplyFacets runs each facet in turn. The input is never modified.
func ApplyFacets(listings []listing.Listing, facets []Facet) []listing.Listing {
	out := listings
	for _, f := range facets {
		out = ApplyFacet(out, f)
	}
	if len(facets) == 0 {
		out = append([]listing.Listing(nil), listings...)
	}
	return out
}

// ApplyFacet returns the listings matching f, in their original order.
func ApplyFacet(listings []listing.Listing, f Facet) []listing.Listing {
	switch f := f.(type) {
	case CategoryFacet:
		if f.Category == "" {
			return keep(listings, func(listing.Listing) bool { return true })
		}
		return keep(listings, func(l listing.Listing) bool { return l.Category == f.Category })
	case PriceFacet:
		if len(f.Buckets) == 0 {
			return keep(listings, func(listing.Listing) bool { return true })
		}
		return keep(listings, func(l listing.Listing) bool { return inAny(f.Buckets, l.PricePerDay) })
	case RatingFacet:
		if len(f.Buckets) == 0 {
			return keep(listings, func(listing.Listing) bool { return true })
		}
		return keep(listings, func(l listing.Listing) bool { return l.Rated() && inAny(f.Buckets, l.Rating) })
	case RadiusFacet:
		if !f.Origin.Valid() {
			return keep(listings, func(listing.Listing) bool { return true })
		}
		return keep(listings, func(l listing.Listing) bool {
			p, ok := l.Location.Point()
			return ok && f.Origin.MilesTo(p) <= f.Miles
		})
	case FeaturedFacet:
		return keep(listings, func(l listing.Listing) bool { return l.Featured })
	case FavoritesFacet:
		if f.IDs == nil {
			return keep(listings, func(listing.Listing) bool { return true })
		}
		return keep(listings, func(l listing.Listing) bool {
			_, ok := f.IDs[l.ID]
			return ok
		})
	default:
		panic(fmt.Sprintf("search: unhandled facet %T", f))
	}
}

func inAny(buckets []Bucket, v float64) bool {
	for _, b := range buckets {
		if b.Contains(v) {
			return true
		}
	}
	return false
}

func keep(in []listing.Listing, pred func(listing.Listing) bool) []listing.Listing {
	out := make([]listing.Listing, 0, len(in))
	for _, l := range in {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}

package search

import (
	"sort"
	"strings"

	"github.com/sudo-init-do/gearhub/internal/listing"
)

// SortMode defines how results are ordered.
type SortMode string

const (
	SortDistance  SortMode = "distance"
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortRating    SortMode = "rating"
)

// ParseSortMode parses a sort mode string.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "nearest":
		return SortDistance
	case "relevance":
		return SortRelevance
	case "price_asc":
		return SortPriceAsc
	case "price_desc":
		return SortPriceDesc
	case "rating", "rating_desc":
		return SortRating
	default:
		return SortDistance // Matches the "Nearest" default
	}
}

// ScoredListing pairs a listing with its relevance score and, when an origin
// was known, its distance.
type ScoredListing struct {
	Listing       listing.Listing `json:"listing"`
	Score         float64         `json:"score"`
	DistanceMiles *float64        `json:"distance_miles,omitempty"`
}

// Sort returns items ordered by mode in a new slice. Equal keys keep their
// input order. Relevance only reorders when hasQuery is set.
func Sort(items []ScoredListing, mode SortMode, hasQuery bool) []ScoredListing {
	out := make([]ScoredListing, len(items))
	copy(out, items)

	var less func(a, b ScoredListing) bool
	switch mode {
	case SortRelevance:
		if !hasQuery {
			return out
		}
		less = func(a, b ScoredListing) bool { return a.Score > b.Score }
	case SortPriceAsc:
		less = func(a, b ScoredListing) bool { return a.Listing.PricePerDay < b.Listing.PricePerDay }
	case SortPriceDesc:
		less = func(a, b ScoredListing) bool { return a.Listing.PricePerDay > b.Listing.PricePerDay }
	case SortRating:
		less = byRating
	default:
		less = byDistance
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// byDistance orders nearest first; listings without a distance go last.
func byDistance(a, b ScoredListing) bool {
	switch {
	case a.DistanceMiles == nil:
		return false
	case b.DistanceMiles == nil:
		return true
	default:
		return *a.DistanceMiles < *b.DistanceMiles
	}
}

// byRating orders highest first; unrated listings go last rather than
// counting as a low score.
func byRating(a, b ScoredListing) bool {
	switch {
	case !a.Listing.Rated():
		return false
	case !b.Listing.Rated():
		return true
	default:
		return a.Listing.Rating > b.Listing.Rating
	}
}

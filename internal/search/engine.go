package search

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/geocode"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// Engine runs searches against a catalog.
type Engine struct {
	catalog   listing.Catalog
	favorites listing.FavoriteSource
	geocoder  geocode.Geocoder
	opts      Options
}

// NewEngine creates an engine. geocoder may be nil, in which case
// "in <place>" phrases only narrow the text query.
func NewEngine(catalog listing.Catalog, geocoder geocode.Geocoder, opts Options) *Engine {
	return &Engine{
		catalog:   catalog,
		favorites: catalog,
		geocoder:  geocoder,
		opts:      opts.withDefaults(),
	}
}

// WithFavorites reads favorites from src instead of the catalog. Use it when
// the catalog is a read-only copy and favorites live in the primary store.
func (e *Engine) WithFavorites(src listing.FavoriteSource) *Engine {
	e.favorites = src
	return e
}

// PriceBuckets returns the configured price table.
func (e *Engine) PriceBuckets() *BucketTable { return e.opts.PriceBuckets }

// RatingBuckets returns the configured rating table.
func (e *Engine) RatingBuckets() *BucketTable { return e.opts.RatingBuckets }

// SearchRequest is a search as received from a caller.
type SearchRequest struct {
	Query   string
	Filters FilterSet
	Sort    SortMode
	Origin  *geo.Point
	// UserID identifies the searcher for the favorites facet.
	UserID string
	Limit  int
	Offset int
}

// Response is the result of a search.
type Response struct {
	Results   []ScoredListing `json:"results"`
	TotalHits int             `json:"total_hits"`
	TookMs    int64           `json:"took_ms"`
	Query     string          `json:"query"`
	Parsed    ParsedQuery     `json:"parsed"`
	// Origin is the point distances were measured from, if any.
	Origin *geo.Point `json:"origin,omitempty"`
}

// Search loads the catalog and runs the pipeline over it.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*Response, error) {
	start := time.Now()

	listings, err := e.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	var favorites map[string]struct{}
	if req.Filters.FavoritesOnly && req.UserID != "" {
		favorites, err = e.favorites.FavoriteIDs(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load favorites: %w", err)
		}
	}

	origin := req.Origin
	parsed := ParseQueryForLocation(req.Query)
	if parsed.HasLocation && e.geocoder != nil {
		p, err := e.geocoder.Geocode(ctx, parsed.Location)
		if err != nil {
			log.Printf("[search] geocode %q failed: %v", parsed.Location, err)
		} else {
			origin = &p
		}
	}
	if origin != nil && !origin.Valid() {
		origin = nil
	}

	res, err := Run(listings, Request{
		Query:     req.Query,
		Filters:   req.Filters,
		Sort:      req.Sort,
		Origin:    origin,
		Favorites: favorites,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}, e.opts)
	if err != nil {
		return nil, err
	}

	return &Response{
		Results:   res.Items,
		TotalHits: res.Total,
		TookMs:    time.Since(start).Milliseconds(),
		Query:     req.Query,
		Parsed:    res.Parsed,
		Origin:    origin,
	}, nil
}

package search

import (
	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// Request is one search over a listing snapshot.
type Request struct {
	Query   string
	Filters FilterSet
	Sort    SortMode
	// Origin is the searcher's position, if known.
	Origin *geo.Point
	// Favorites is the searcher's favorite listing IDs. Nil disables the
	// favorites facet.
	Favorites map[string]struct{}
	Limit     int
	Offset    int
}

// Options carries the static configuration of the pipeline.
type Options struct {
	PriceBuckets  *BucketTable
	RatingBuckets *BucketTable
	Scorer        *Scorer
}

func (o Options) withDefaults() Options {
	if o.PriceBuckets == nil {
		o.PriceBuckets = DefaultPriceBuckets()
	}
	if o.RatingBuckets == nil {
		o.RatingBuckets = DefaultRatingBuckets()
	}
	return o
}

// Result is the outcome of Run.
type Result struct {
	Items []ScoredListing
	// Total is the number of matches before paging.
	Total  int
	Parsed ParsedQuery
}

// Run filters, scores, sorts and pages listings. The only error it returns
// is ErrUnknownBucket for a bucket ID the tables do not define.
func Run(listings []listing.Listing, req Request, opts Options) (Result, error) {
	opts = opts.withDefaults()
	parsed := ParseQueryForLocation(req.Query)

	facets, err := req.Filters.Facets(opts.PriceBuckets, opts.RatingBuckets, req.Origin, req.Favorites)
	if err != nil {
		return Result{}, err
	}
	filtered := ApplyFacets(listings, facets)

	var origin *geo.Point
	if req.Origin != nil && req.Origin.Valid() {
		origin = req.Origin
	}

	hasQuery := parsed.BaseQuery != ""
	items := make([]ScoredListing, 0, len(filtered))
	for _, l := range filtered {
		item := ScoredListing{Listing: l}
		if hasQuery {
			item.Score = opts.Scorer.Score(parsed.BaseQuery, l.SearchText())
			if item.Score <= 0 {
				continue
			}
		}
		if origin != nil {
			if p, ok := l.Location.Point(); ok {
				d := origin.MilesTo(p)
				item.DistanceMiles = &d
			}
		}
		items = append(items, item)
	}

	sorted := Sort(items, req.Sort, hasQuery)
	return Result{
		Items:  Page(sorted, req.Offset, req.Limit),
		Total:  len(sorted),
		Parsed: parsed,
	}, nil
}

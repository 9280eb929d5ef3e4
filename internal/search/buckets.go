package search

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidBucket means a bucket table is misconfigured.
	ErrInvalidBucket = errors.New("invalid bucket definition")
	// ErrUnknownBucket means a request named a bucket the table does not have.
	ErrUnknownBucket = errors.New("unknown bucket")
)

// Bucket is a named sub-range of a facet. A nil Max means no upper bound.
type Bucket struct {
	ID    string   `json:"id" mapstructure:"id"`
	Label string   `json:"label" mapstructure:"label"`
	Min   float64  `json:"min" mapstructure:"min"`
	Max   *float64 `json:"max,omitempty" mapstructure:"max"`
}

// Contains reports whether v falls inside the bucket, bounds inclusive.
func (b Bucket) Contains(v float64) bool {
	if v < b.Min {
		return false
	}
	return b.Max == nil || v <= *b.Max
}

// BucketTable is an ordered set of buckets indexed by ID.
type BucketTable struct {
	buckets []Bucket
	byID    map[string]int
}

// NewBucketTable validates buckets and builds a table.
func NewBucketTable(buckets ...Bucket) (*BucketTable, error) {
	t := &BucketTable{
		buckets: make([]Bucket, 0, len(buckets)),
		byID:    make(map[string]int, len(buckets)),
	}
	for _, b := range buckets {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidBucket)
		}
		if _, dup := t.byID[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidBucket, b.ID)
		}
		if math.IsNaN(b.Min) || b.Min < 0 {
			return nil, fmt.Errorf("%w: %q has bad min %v", ErrInvalidBucket, b.ID, b.Min)
		}
		if b.Max != nil {
			if math.IsNaN(*b.Max) || *b.Max < b.Min {
				return nil, fmt.Errorf("%w: %q has max %v below min %v", ErrInvalidBucket, b.ID, *b.Max, b.Min)
			}
		}
		t.byID[b.ID] = len(t.buckets)
		t.buckets = append(t.buckets, b)
	}
	return t, nil
}

// MustBucketTable is NewBucketTable for static definitions; it panics on error.
func MustBucketTable(buckets ...Bucket) *BucketTable {
	t, err := NewBucketTable(buckets...)
	if err != nil {
		panic(err)
	}
	return t
}

// Buckets returns the buckets in definition order.
func (t *BucketTable) Buckets() []Bucket {
	out := make([]Bucket, len(t.buckets))
	copy(out, t.buckets)
	return out
}

// Resolve maps bucket IDs to buckets.
func (t *BucketTable) Resolve(ids []string) ([]Bucket, error) {
	out := make([]Bucket, 0, len(ids))
	for _, id := range ids {
		i, ok := t.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, id)
		}
		out = append(out, t.buckets[i])
	}
	return out, nil
}

func upTo(v float64) *float64 { return &v }

// DefaultPriceBuckets are day-price bands in dollars.
func DefaultPriceBuckets() *BucketTable {
	return MustBucketTable(
		Bucket{ID: "under-25", Label: "Under $25", Min: 0, Max: upTo(24.99)},
		Bucket{ID: "25-50", Label: "$25 to $50", Min: 25, Max: upTo(49.99)},
		Bucket{ID: "50-100", Label: "$50 to $100", Min: 50, Max: upTo(99.99)},
		Bucket{ID: "100-150", Label: "$100 to $150", Min: 100, Max: upTo(149.99)},
		Bucket{ID: "over-150", Label: "More than $150", Min: 150},
	)
}

// DefaultRatingBuckets are star bands. Each ends just below the next one's
// start, so a rating such as 4.995 falls in none of them.
func DefaultRatingBuckets() *BucketTable {
	return MustBucketTable(
		Bucket{ID: "1-star", Label: "1 star", Min: 1, Max: upTo(1.99)},
		Bucket{ID: "2-star", Label: "2 stars", Min: 2, Max: upTo(2.99)},
		Bucket{ID: "3-star", Label: "3 stars", Min: 3, Max: upTo(3.99)},
		Bucket{ID: "4-star", Label: "4 stars", Min: 4, Max: upTo(4.99)},
		Bucket{ID: "5-star", Label: "5 stars", Min: 5, Max: upTo(5)},
	)
}

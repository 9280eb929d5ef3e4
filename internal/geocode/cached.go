package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/sudo-init-do/gearhub/internal/geo"
)

// Cached remembers successful lookups for a while. Failures are not cached.
type Cached struct {
	next  Geocoder
	cache *expirable.LRU[string, geo.Point]
}

// NewCached wraps next with an LRU of size entries that expire after ttl.
func NewCached(next Geocoder, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = 1
	}
	return &Cached{
		next:  next,
		cache: expirable.NewLRU[string, geo.Point](size, nil, ttl),
	}
}

// Geocode returns a cached point or asks the wrapped geocoder.
func (c *Cached) Geocode(ctx context.Context, place string) (geo.Point, error) {
	key := strings.Join(strings.Fields(strings.ToLower(place)), " ")
	if p, ok := c.cache.Get(key); ok {
		return p, nil
	}
	p, err := c.next.Geocode(ctx, place)
	if err != nil {
		return geo.Point{}, err
	}
	c.cache.Add(key, p)
	return p, nil
}

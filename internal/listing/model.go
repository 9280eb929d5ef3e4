// Package listing defines rentable gear listings and the catalogs that serve them.
package listing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sudo-init-do/gearhub/internal/geo"
)

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

// Listing statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Categories accepted when creating a listing.
var Categories = []string{
	"snowboards",
	"skis",
	"surfboards",
	"mountain-bikes",
	"paddleboards",
	"kayaks",
	"climbing",
	"camping",
}

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Specifications holds free-text equipment details.
type Specifications struct {
	Size        string `json:"size,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Material    string `json:"material,omitempty"`
	Suitability string `json:"suitability,omitempty"`
}

// Location is where the gear can be picked up.
type Location struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Address    string   `json:"address,omitempty"`
}

// Point returns the coordinates, or false when they are missing or invalid.
func (l Location) Point() (geo.Point, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return geo.Point{}, false
	}
	if !geo.IsValidCoordinate(*l.Latitude, *l.Longitude) {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *l.Latitude, Lng: *l.Longitude}, true
}

// Owner is the person renting the gear out.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Email receives booking notifications. It is never served publicly.
	Email string `json:"-"`
}

// Listing represents a rentable piece of equipment
type Listing struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Specifications Specifications `json:"specifications"`
	PricePerDay    float64        `json:"price_per_day"`
	PricePerHour   *float64       `json:"price_per_hour,omitempty"`
	PricePerWeek   *float64       `json:"price_per_week,omitempty"`
	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"review_count"`
	Location       Location       `json:"location"`
	Owner          Owner          `json:"owner"`
	Featured       bool           `json:"featured"`
	Status         string         `json:"status,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Rated reports whether the listing has a real rating. Zero means unrated.
func (l Listing) Rated() bool {
	return l.Rating > 0
}

// SearchText joins the fields that text search matches against.
func (l Listing) SearchText() string {
	parts := []string{
		l.Name,
		l.Category,
		l.Description,
		l.Specifications.Size,
		l.Specifications.Weight,
		l.Specifications.Material,
		l.Specifications.Suitability,
	}
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Catalog is a read source of listings for search.
type Catalog interface {
	FavoriteSource
	// List returns active listings.
	List(ctx context.Context) ([]Listing, error)
	Get(ctx context.Context, id string) (Listing, error)
}

// FavoriteSource reports which listings a user has favorited.
type FavoriteSource interface {
	// FavoriteIDs returns the listing IDs a user has favorited. Sources
	// that do not track favorites return a nil map.
	FavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// Store is a Catalog that can also be written to by the API.
type Store interface {
	Catalog
	ListAll(ctx context.Context) ([]Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	Create(ctx context.Context, l Listing) (Listing, error)
	SetFeatured(ctx context.Context, id string, featured bool) error
	SetStatus(ctx context.Context, id, status string) error
	AddFavorite(ctx context.Context, userID, listingID string) error
	RemoveFavorite(ctx context.Context, userID, listingID string) error
}

func activeOnly(in []Listing) []Listing {
	out := make([]Listing, 0, len(in))
	for _, l := range in {
		if l.Status == "" || l.Status == StatusActive {
			out = append(out, l)
		}
	}
	return out
}

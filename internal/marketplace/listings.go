package marketplace

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/middleware"
	"github.com/sudo-init-do/gearhub/internal/search"
)

// Owners may list up to this many items; admins are not limited.
const maxListingsPerOwner = 50

// ListingHandler serves listing search and management.
type ListingHandler struct {
	engine       *search.Engine
	store        listing.Store
	defaultLimit int
	maxLimit     int
}

// NewListingHandler creates a handler. Limits fall back to 20 and 100.
func NewListingHandler(engine *search.Engine, store listing.Store, defaultLimit, maxLimit int) *ListingHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = min(20, maxLimit)
	}
	return &ListingHandler{engine: engine, store: store, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Search runs a faceted, ranked search over active listings
func (h *ListingHandler) Search(c echo.Context) error {
	req := h.searchRequest(c)

	resp, err := h.engine.Search(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrUnknownBucket) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Printf("[search][ERROR] %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not search listings"})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) searchRequest(c echo.Context) search.SearchRequest {
	req := search.SearchRequest{
		Query: c.QueryParam("q"),
		Filters: search.FilterSet{
			Category:      strings.TrimSpace(c.QueryParam("category")),
			PriceBuckets:  splitList(c.QueryParam("price")),
			RatingBuckets: splitList(c.QueryParam("rating")),
		},
		Sort:   search.ParseSortMode(c.QueryParam("sort")),
		UserID: middleware.UserID(c),
		Limit:  h.defaultLimit,
	}

	if r := c.QueryParam("radius"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil && v > 0 {
			req.Filters.RadiusMiles = v
		}
	}
	if v, err := strconv.ParseBool(c.QueryParam("featured")); err == nil {
		req.Filters.FeaturedOnly = v
	}
	if v, err := strconv.ParseBool(c.QueryParam("favorites")); err == nil {
		req.Filters.FavoritesOnly = v && req.UserID != ""
	}

	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr == nil && lngErr == nil && geo.IsValidCoordinate(lat, lng) {
		req.Origin = &geo.Point{Lat: lat, Lng: lng}
	}

	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= h.maxLimit {
			req.Limit = v
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			req.Offset = v
		}
	}
	return req
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Facets describes the filters a search accepts
func (h *ListingHandler) Facets(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"price_buckets":  h.engine.PriceBuckets().Buckets(),
		"rating_buckets": h.engine.RatingBuckets().Buckets(),
		"categories":     listing.Categories,
		"sort_modes": []search.SortMode{
			search.SortDistance, search.SortRelevance, search.SortPriceAsc, search.SortPriceDesc, search.SortRating,
		},
	})
}

// Get returns one active listing
func (h *ListingHandler) Get(c echo.Context) error {
	l, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, listing.ErrNotFound) || (err == nil && l.Status == listing.StatusSuspended) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch listing"})
	}
	return c.JSON(http.StatusOK, l)
}

// CreateListingRequest is the payload for listing a piece of gear.
type CreateListingRequest struct {
	Name           string                 `json:"name" validate:"required,max=200"`
	Description    string                 `json:"description" validate:"max=5000"`
	Category       string                 `json:"category" validate:"required"`
	Specifications listing.Specifications `json:"specifications"`
	PricePerDay    float64                `json:"price_per_day" validate:"gt=0"`
	PricePerHour   *float64               `json:"price_per_hour" validate:"omitempty,gt=0"`
	PricePerWeek   *float64               `json:"price_per_week" validate:"omitempty,gt=0"`
	Latitude       *float64               `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64               `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	PostalCode     string                 `json:"postal_code"`
	Address        string                 `json:"address"`
}

// Create allows an owner to list a new piece of gear
func (h *ListingHandler) Create(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, category and a positive day price are required", "details": err.Error()})
	}
	if !listing.IsKnownCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category", "categories": listing.Categories})
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "latitude and longitude go together"})
	}

	ctx := c.Request().Context()
	if middleware.Role(c) != middleware.RoleAdmin {
		existing, err := h.store.ListByOwner(ctx, uid)
		if err == nil && len(existing) >= maxListingsPerOwner {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":   "listing limit reached",
				"max":     maxListingsPerOwner,
				"current": len(existing),
			})
		}
	}

	l, err := h.store.Create(ctx, listing.Listing{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       req.Category,
		Specifications: req.Specifications,
		PricePerDay:    req.PricePerDay,
		PricePerHour:   req.PricePerHour,
		PricePerWeek:   req.PricePerWeek,
		Location: listing.Location{
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			PostalCode: req.PostalCode,
			Address:    req.Address,
		},
		Owner: listing.Owner{ID: uid, Name: middleware.Name(c), Email: middleware.Email(c)},
	})
	if err != nil {
		log.Printf("[listing][ERROR] create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create listing"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"listing": l,
		"message": "listing created successfully",
	})
}

// Mine returns all listings created by the authenticated owner
func (h *ListingHandler) Mine(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listings, err := h.store.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch your listings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

// Quote prices a rental of the listing for ?start=&end=
func (h *ListingHandler) Quote(c echo.Context) error {
	l, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, listing.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch listing"})
	}

	start, end, err := ParseRange(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	q, err := Quote(l, start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, q)
}

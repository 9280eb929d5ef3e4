// Package user serves public profiles of gear owners.
package user

import (
	"math"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// ProfileHandler builds owner profiles from their listings.
type ProfileHandler struct {
	listings listing.Store
}

// NewProfileHandler creates a handler.
func NewProfileHandler(listings listing.Store) *ProfileHandler {
	return &ProfileHandler{listings: listings}
}

// GET /owners/:id/profile
func (h *ProfileHandler) GetPublicProfile(c echo.Context) error {
	ownerID := c.Param("id")
	if ownerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing owner id"})
	}

	all, err := h.listings.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch owner"})
	}
	profile, ok := BuildProfile(ownerID, all)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
	}
	return c.JSON(http.StatusOK, profile)
}

// BuildProfile summarises an owner's active listings. It reports false when
// the owner has none.
func BuildProfile(ownerID string, listings []listing.Listing) (OwnerProfile, bool) {
	p := OwnerProfile{ID: ownerID, Categories: []string{}}
	seen := make(map[string]bool)
	var ratingSum float64
	var rated int

	for _, l := range listings {
		if l.Owner.ID != ownerID || l.Status == listing.StatusSuspended {
			continue
		}
		p.ListingCount++
		p.ReviewCount += l.ReviewCount
		if p.Name == "" {
			p.Name = l.Owner.Name
		}
		if p.MemberSince.IsZero() || (!l.CreatedAt.IsZero() && l.CreatedAt.Before(p.MemberSince)) {
			p.MemberSince = l.CreatedAt
		}
		if l.Category != "" && !seen[l.Category] {
			seen[l.Category] = true
			p.Categories = append(p.Categories, l.Category)
		}
		if l.Rated() {
			ratingSum += l.Rating
			rated++
		}
	}
	if p.ListingCount == 0 {
		return OwnerProfile{}, false
	}
	if rated > 0 {
		p.AverageRating = math.Round(ratingSum/float64(rated)*100) / 100
	}
	sort.Strings(p.Categories)
	return p, true
}

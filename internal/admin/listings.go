package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// POST /admin/listings/:id/feature
func (h *Handler) FeatureListing(c echo.Context) error {
	return h.moderate(c, "featured", func(id string) error {
		return h.listings.SetFeatured(c.Request().Context(), id, true)
	})
}

// POST /admin/listings/:id/unfeature
func (h *Handler) UnfeatureListing(c echo.Context) error {
	return h.moderate(c, "unfeatured", func(id string) error {
		return h.listings.SetFeatured(c.Request().Context(), id, false)
	})
}

// POST /admin/listings/:id/suspend
func (h *Handler) SuspendListing(c echo.Context) error {
	return h.moderate(c, "suspended", func(id string) error {
		return h.listings.SetStatus(c.Request().Context(), id, listing.StatusSuspended)
	})
}

// POST /admin/listings/:id/activate
func (h *Handler) ActivateListing(c echo.Context) error {
	return h.moderate(c, "activated", func(id string) error {
		return h.listings.SetStatus(c.Request().Context(), id, listing.StatusActive)
	})
}

func (h *Handler) moderate(c echo.Context, action string, apply func(id string) error) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing id required"})
	}
	if err := apply(id); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update listing"})
	}
	log.Printf("[admin] listing %s %s", id, action)
	return c.JSON(http.StatusOK, echo.Map{"message": "listing " + action, "listing_id": id})
}

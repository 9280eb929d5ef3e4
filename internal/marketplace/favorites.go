package marketplace

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/middleware"
)

// FavoriteHandler manages a user's saved listings.
type FavoriteHandler struct {
	store listing.Store
}

// NewFavoriteHandler creates a handler.
func NewFavoriteHandler(store listing.Store) *FavoriteHandler {
	return &FavoriteHandler{store: store}
}

// Add saves a listing for the caller
func (h *FavoriteHandler) Add(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	listingID := c.Param("id")
	if _, err := h.store.Get(ctx, listingID); err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch listing"})
	}
	if err := h.store.AddFavorite(ctx, uid, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save favorite"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite saved", "listing_id": listingID})
}

// Remove forgets a saved listing
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID := c.Param("id")
	if err := h.store.RemoveFavorite(c.Request().Context(), uid, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not remove favorite"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed", "listing_id": listingID})
}

// List returns the caller's saved listings that are still active
func (h *FavoriteHandler) List(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	ids, err := h.store.FavoriteIDs(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch favorites"})
	}
	active, err := h.store.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch favorites"})
	}

	out := make([]listing.Listing, 0, len(ids))
	for _, l := range active {
		if _, ok := ids[l.ID]; ok {
			out = append(out, l)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": out})
}

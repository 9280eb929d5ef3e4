package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GET /admin/stats
func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	listings, err := h.listings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch listings"})
	}
	bookings, err := h.bookings.ListBookings(ctx, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch bookings"})
	}

	byStatus := make(map[string]int)
	for _, b := range bookings {
		byStatus[b.Status]++
	}

	return c.JSON(http.StatusOK, echo.Map{
		"listings":           ComputeInsights(listings),
		"bookings":           len(bookings),
		"bookings_by_status": byStatus,
	})
}

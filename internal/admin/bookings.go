package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GET /admin/bookings
func (h *Handler) ListBookings(c echo.Context) error {
	bookings, err := h.bookings.ListBookings(c.Request().Context(), "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

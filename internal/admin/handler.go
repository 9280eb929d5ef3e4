// Package admin serves moderation and reporting endpoints for admins.
package admin

import (
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/marketplace"
)

// Handler holds the stores admin endpoints read and moderate.
type Handler struct {
	listings listing.Store
	bookings marketplace.BookingStore
}

// NewHandler creates a handler.
func NewHandler(listings listing.Store, bookings marketplace.BookingStore) *Handler {
	return &Handler{listings: listings, bookings: bookings}
}

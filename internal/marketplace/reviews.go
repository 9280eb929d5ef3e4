package marketplace

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/alerts"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/middleware"
)

// ratingRecomputer is implemented by stores that keep listing ratings in
// step with the reviews table.
type ratingRecomputer interface {
	ApplyReview(ctx context.Context, listingID string) error
}

// ReviewHandler lets renters rate completed bookings.
type ReviewHandler struct {
	store    BookingStore
	listings listing.Catalog
	enq      alerts.Enqueuer
}

// NewReviewHandler creates a handler. enq may be nil.
func NewReviewHandler(store BookingStore, listings listing.Catalog, enq alerts.Enqueuer) *ReviewHandler {
	return &ReviewHandler{store: store, listings: listings, enq: enq}
}

// Create allows a renter to rate and review a completed booking
func (h *ReviewHandler) Create(c echo.Context) error {
	renterID := middleware.UserID(c)
	if renterID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	if len(req.Comment) > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment too long (max 1000 characters)"})
	}

	ctx := c.Request().Context()
	b, err := h.store.GetBooking(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) || (err == nil && b.RenterID != renterID) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found or not yours"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}

	// Only allow reviews for completed bookings
	if b.Status != StatusCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":          "can only review completed bookings",
			"booking_status": b.Status,
		})
	}

	r, err := h.store.CreateReview(ctx, Review{
		BookingID:    b.ID,
		ListingID:    b.ListingID,
		ReviewerID:   renterID,
		ReviewerName: middleware.Name(c),
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	})
	if errors.Is(err, ErrAlreadyReviewed) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "review already exists for this booking"})
	}
	if err != nil {
		log.Printf("[review][ERROR] create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}

	if rc, ok := h.listings.(ratingRecomputer); ok {
		if err := rc.ApplyReview(ctx, b.ListingID); err != nil {
			log.Printf("[review][ERROR] recompute rating for %s: %v", b.ListingID, err)
		}
	}
	if l, err := h.listings.Get(ctx, b.ListingID); err == nil && l.Owner.Email != "" {
		task, err := alerts.NewReviewPostedTask(b.ID, l.ID, l.Name, l.Owner.Email, r.Rating)
		alerts.Send(ctx, h.enq, task, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"review_id": r.ID,
		"message":   "review submitted successfully",
	})
}

// ForListing returns a listing's reviews, newest first
func (h *ReviewHandler) ForListing(c echo.Context) error {
	reviews, err := h.store.ListReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews, "total_reviews": len(reviews)})
}

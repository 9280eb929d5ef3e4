package marketplace

import (
	"errors"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/alerts"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/messaging"
	"github.com/sudo-init-do/gearhub/internal/middleware"
)

// BookingHandler serves the demo booking flow.
type BookingHandler struct {
	store    BookingStore
	listings listing.Catalog
	enq      alerts.Enqueuer
	hub      *messaging.Hub
	appURL   string
}

// NewBookingHandler creates a handler. enq and hub may be nil.
func NewBookingHandler(store BookingStore, listings listing.Catalog, enq alerts.Enqueuer, hub *messaging.Hub, appURL string) *BookingHandler {
	return &BookingHandler{store: store, listings: listings, enq: enq, hub: hub, appURL: appURL}
}

// Create - Renter requests a booking for a date range
func (h *BookingHandler) Create(c echo.Context) error {
	renterID := middleware.UserID(c)
	if renterID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing_id, start_date and end_date are required"})
	}

	ctx := c.Request().Context()
	l, err := h.listings.Get(ctx, req.ListingID)
	if errors.Is(err, listing.ErrNotFound) || (err == nil && l.Status == listing.StatusSuspended) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch listing"})
	}
	if l.Owner.ID == renterID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot book your own listing"})
	}

	start, end, err := ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	q, err := Quote(l, start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b, err := h.store.CreateBooking(ctx, Booking{
		ListingID:   l.ID,
		ListingName: l.Name,
		RenterID:    renterID,
		RenterEmail: middleware.Email(c),
		OwnerID:     l.Owner.ID,
		StartDate:   start,
		EndDate:     end,
		Days:        q.Days,
		Total:       q.Total,
	})
	if err != nil {
		log.Printf("[booking][ERROR] create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	if l.Owner.Email != "" {
		task, err := alerts.NewBookingRequestedTask(notice(b, l.Owner.Email), h.appURL)
		alerts.Send(ctx, h.enq, task, err)
	}
	h.broadcast(b.ID, b.Status)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking": b,
		"message": "booking requested",
	})
}

// Accept - Owner accepts a pending booking
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.transition(c, StatusAccepted, ownerOnly, alerts.NewBookingAcceptedTask)
}

// Decline - Owner declines a pending booking
func (h *BookingHandler) Decline(c echo.Context) error {
	return h.transition(c, StatusDeclined, ownerOnly, alerts.NewBookingDeclinedTask)
}

// Cancel - Renter cancels a pending or accepted booking
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, StatusCancelled, renterOnly, alerts.NewBookingCancelledTask)
}

// Complete - Owner marks an accepted booking as returned
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, StatusCompleted, ownerOnly, nil)
}

type actor int

const (
	ownerOnly actor = iota
	renterOnly
)

type taskBuilder func(alerts.BookingNotice, string) (*asynq.Task, error)

func (h *BookingHandler) transition(c echo.Context, to string, who actor, build taskBuilder) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking id in URL"})
	}

	ctx := c.Request().Context()
	b, err := h.store.GetBooking(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}

	allowed := b.OwnerID == uid
	if who == renterOnly {
		allowed = b.RenterID == uid
	}
	if !allowed {
		// Don't reveal bookings to strangers
		if !b.Participant(uid) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed for this booking"})
	}

	if err := h.store.TransitionBooking(ctx, b.ID, b.Status, to); err != nil {
		if errors.Is(err, ErrIllegalTransition) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "booking cannot become " + to,
				"status": b.Status,
			})
		}
		log.Printf("[booking][ERROR] %s -> %s: %v", b.Status, to, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
	}
	b.Status = to

	if build != nil {
		recipient := b.RenterEmail
		if who == renterOnly {
			recipient = h.ownerEmail(c, b.ListingID)
		}
		if recipient != "" {
			task, err := build(notice(b, recipient), h.appURL)
			alerts.Send(ctx, h.enq, task, err)
		}
	}
	h.broadcast(b.ID, to)

	return c.JSON(http.StatusOK, echo.Map{"message": "booking " + to, "booking_id": b.ID, "status": to})
}

func (h *BookingHandler) ownerEmail(c echo.Context, listingID string) string {
	l, err := h.listings.Get(c.Request().Context(), listingID)
	if err != nil {
		return ""
	}
	return l.Owner.Email
}

func (h *BookingHandler) broadcast(bookingID, status string) {
	if h.hub != nil {
		h.hub.BroadcastStatus(bookingID, status)
	}
}

// Mine lists bookings where the caller is renter or owner
func (h *BookingHandler) Mine(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.store.ListBookings(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bookings"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Stream upgrades to a websocket carrying the booking's status events
func (h *BookingHandler) Stream(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.hub == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "live events disabled"})
	}
	b, err := h.store.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil || !b.Participant(uid) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return h.hub.Serve(c, b.ID, uid)
}

func notice(b Booking, email string) alerts.BookingNotice {
	return alerts.BookingNotice{
		BookingID:   b.ID,
		ListingID:   b.ListingID,
		ListingName: b.ListingName,
		RenterID:    b.RenterID,
		OwnerID:     b.OwnerID,
		Email:       email,
		StartDate:   b.StartDate.Format(dateLayout),
		EndDate:     b.EndDate.Format(dateLayout),
		Total:       b.Total,
	}
}

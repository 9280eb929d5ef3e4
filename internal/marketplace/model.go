package marketplace

import (
	"errors"
	"time"
)

// Booking statuses
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

var (
	// ErrIllegalTransition means a booking cannot move to the requested status.
	ErrIllegalTransition = errors.New("illegal booking transition")
	// ErrBookingNotFound is returned when a booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyReviewed is returned for a second review of the same booking.
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)

var transitions = map[string][]string{
	StatusPending:  {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is a demo rental of one listing for an inclusive date range.
type Booking struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	ListingName string    `json:"listing_name,omitempty"`
	RenterID    string    `json:"renter_id"`
	RenterEmail string    `json:"-"`
	OwnerID     string    `json:"owner_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Days        int       `json:"days"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Participant reports whether userID is the renter or the owner.
func (b Booking) Participant(userID string) bool {
	return userID != "" && (userID == b.RenterID || userID == b.OwnerID)
}

// CreateBookingRequest is the payload for requesting a booking.
type CreateBookingRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// Review is a renter's rating of a completed booking.
type Review struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	ListingID    string    `json:"listing_id"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateReviewRequest represents the request payload for creating a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

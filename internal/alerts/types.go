package alerts

import "time"

// Task type constants
const (
	TaskBookingRequested = "email:booking_requested"
	TaskBookingAccepted  = "email:booking_accepted"
	TaskBookingDeclined  = "email:booking_declined"
	TaskBookingCancelled = "email:booking_cancelled"
	TaskReviewPosted     = "email:review_posted"
)

// Queues
const (
	QueueEmails = "emails"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// BookingNotice describes a booking for notification purposes.
type BookingNotice struct {
	BookingID   string
	ListingID   string
	ListingName string
	RenterID    string
	OwnerID     string
	Email       string // recipient
	StartDate   string
	EndDate     string
	Total       float64
}

// BookingPayload is shared by every booking status task
type BookingPayload struct {
	BookingID   string        `json:"booking_id"`
	ListingID   string        `json:"listing_id"`
	ListingName string        `json:"listing_name"`
	RenterID    string        `json:"renter_id"`
	OwnerID     string        `json:"owner_id"`
	Email       string        `json:"email"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Total       float64       `json:"total"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

// Review posted payload (sent to owner)
type ReviewPostedPayload struct {
	BookingID   string        `json:"booking_id"`
	ListingID   string        `json:"listing_id"`
	ListingName string        `json:"listing_name"`
	Rating      int           `json:"rating"`
	Email       string        `json:"email"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

package alerts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

func bookingTask(taskType string, n BookingNotice, subject, body string) (*asynq.Task, error) {
	if n.Email == "" {
		return nil, fmt.Errorf("%s: missing recipient", taskType)
	}
	payload := BookingPayload{
		BookingID:   n.BookingID,
		ListingID:   n.ListingID,
		ListingName: n.ListingName,
		RenterID:    n.RenterID,
		OwnerID:     n.OwnerID,
		Email:       n.Email,
		StartDate:   n.StartDate,
		EndDate:     n.EndDate,
		Total:       n.Total,
		Envelope:    EmailEnvelope{To: n.Email, Subject: subject, Body: body},
		SentAt:      time.Now(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, b, asynq.Queue(QueueEmails), asynq.MaxRetry(5)), nil
}

func bookingLink(appURL, bookingID string) string {
	base := strings.TrimRight(appURL, "/")
	if base == "" {
		base = "http://localhost:5173"
	}
	return base + "/bookings/" + bookingID
}

// NewBookingRequestedTask tells the owner a renter asked for their gear.
func NewBookingRequestedTask(n BookingNotice, appURL string) (*asynq.Task, error) {
	subject := fmt.Sprintf("New booking request for %s", n.ListingName)
	body := fmt.Sprintf("You have a new request for %s from %s to %s (total %.2f).\n\nReview it: %s",
		n.ListingName, n.StartDate, n.EndDate, n.Total, bookingLink(appURL, n.BookingID))
	return bookingTask(TaskBookingRequested, n, subject, body)
}

// NewBookingAcceptedTask tells the renter the owner accepted.
func NewBookingAcceptedTask(n BookingNotice, appURL string) (*asynq.Task, error) {
	subject := fmt.Sprintf("Your booking for %s is confirmed", n.ListingName)
	body := fmt.Sprintf("Good news! %s is yours from %s to %s. Total %.2f.\n\nDetails: %s",
		n.ListingName, n.StartDate, n.EndDate, n.Total, bookingLink(appURL, n.BookingID))
	return bookingTask(TaskBookingAccepted, n, subject, body)
}

// NewBookingDeclinedTask tells the renter the owner declined.
func NewBookingDeclinedTask(n BookingNotice, appURL string) (*asynq.Task, error) {
	subject := fmt.Sprintf("Your booking for %s was declined", n.ListingName)
	body := fmt.Sprintf("The owner couldn't take your booking of %s from %s to %s.\n\nFind similar gear: %s",
		n.ListingName, n.StartDate, n.EndDate, strings.TrimRight(appURL, "/")+"/search")
	return bookingTask(TaskBookingDeclined, n, subject, body)
}

// NewBookingCancelledTask tells the other party a booking was cancelled.
func NewBookingCancelledTask(n BookingNotice, appURL string) (*asynq.Task, error) {
	subject := fmt.Sprintf("Booking for %s cancelled", n.ListingName)
	body := fmt.Sprintf("The booking of %s from %s to %s was cancelled.\n\nDetails: %s",
		n.ListingName, n.StartDate, n.EndDate, bookingLink(appURL, n.BookingID))
	return bookingTask(TaskBookingCancelled, n, subject, body)
}

// NewReviewPostedTask tells the owner their listing got a review.
func NewReviewPostedTask(bookingID, listingID, listingName, ownerEmail string, rating int) (*asynq.Task, error) {
	if ownerEmail == "" {
		return nil, fmt.Errorf("%s: missing recipient", TaskReviewPosted)
	}
	payload := ReviewPostedPayload{
		BookingID:   bookingID,
		ListingID:   listingID,
		ListingName: listingName,
		Rating:      rating,
		Email:       ownerEmail,
		Envelope: EmailEnvelope{
			To:      ownerEmail,
			Subject: fmt.Sprintf("%s got a %d-star review", listingName, rating),
			Body:    fmt.Sprintf("A renter left a %d-star review on %s.", rating, listingName),
		},
		SentAt: time.Now(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReviewPosted, b, asynq.Queue(QueueEmails)), nil
}

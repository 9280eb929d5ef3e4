package marketplace

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sudo-init-do/gearhub/internal/listing"
)

// MaxRentalDays is the longest range a quote or booking may cover.
const MaxRentalDays = 60

const dateLayout = "2006-01-02"

// ErrInvalidRange is returned for an end date before the start date or a
// range longer than MaxRentalDays.
var ErrInvalidRange = errors.New("invalid rental range")

// PriceQuote is the cost of renting a listing for a date range.
type PriceQuote struct {
	ListingID string  `json:"listing_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Days      int     `json:"days"`
	Weeks     int     `json:"weeks"`
	ExtraDays int     `json:"extra_days"`
	Total     float64 `json:"total"`
}

// ParseRange parses two YYYY-MM-DD dates.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", ErrInvalidRange, start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", ErrInvalidRange, end)
	}
	return s, e, nil
}

// RentalDays counts the days in an inclusive range.
func RentalDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end before start", ErrInvalidRange)
	}
	n := int(end.Sub(start).Hours()/24) + 1
	if n > MaxRentalDays {
		return 0, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidRange, n, MaxRentalDays)
	}
	return n, nil
}

// Quote prices l for the inclusive range start..end. With a weekly price,
// full weeks are charged weekly and the remainder daily, never more than
// rounding up to whole weeks.
func Quote(l listing.Listing, start, end time.Time) (PriceQuote, error) {
	n, err := RentalDays(start, end)
	if err != nil {
		return PriceQuote{}, err
	}
	q := PriceQuote{
		ListingID: l.ID,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Days:      n,
	}
	if l.PricePerWeek == nil || *l.PricePerWeek <= 0 {
		q.ExtraDays = n
		q.Total = roundCents(float64(n) * l.PricePerDay)
		return q, nil
	}

	weekly := *l.PricePerWeek
	q.Weeks = n / 7
	q.ExtraDays = n % 7
	total := float64(q.Weeks)*weekly + float64(q.ExtraDays)*l.PricePerDay
	ceiling := math.Ceil(float64(n)/7) * weekly
	if total > ceiling {
		total = ceiling
	}
	q.Total = roundCents(total)
	return q, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

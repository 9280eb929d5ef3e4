package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingStore persists bookings and their reviews.
type BookingStore interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	// ListBookings returns bookings where userID is renter or owner, newest
	// first. An empty userID lists every booking.
	ListBookings(ctx context.Context, userID string) ([]Booking, error)
	// TransitionBooking moves a booking from one status to another. It fails
	// with ErrIllegalTransition when the booking is no longer in from.
	TransitionBooking(ctx context.Context, id, from, to string) error
	CreateReview(ctx context.Context, r Review) (Review, error)
	ListReviews(ctx context.Context, listingID string) ([]Review, error)
}

// PostgresBookings stores bookings in the bookings and reviews tables.
type PostgresBookings struct {
	pool *pgxpool.Pool
}

// NewPostgresBookings creates a store on an open pool.
func NewPostgresBookings(pool *pgxpool.Pool) *PostgresBookings {
	return &PostgresBookings{pool: pool}
}

const bookingSelect = `SELECT b.id, b.listing_id, COALESCE(l.name, ''), b.renter_id, b.renter_email, b.owner_id,
	b.start_date, b.end_date, b.days, b.total, b.status, b.created_at, b.updated_at
	FROM bookings b LEFT JOIN listings l ON l.id = b.listing_id`

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.ListingID, &b.ListingName, &b.RenterID, &b.RenterEmail, &b.OwnerID,
		&b.StartDate, &b.EndDate, &b.Days, &b.Total, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *PostgresBookings) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	b = newBooking(b)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bookings (id, listing_id, renter_id, renter_email, owner_id, start_date, end_date, days, total, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.ListingID, b.RenterID, b.RenterEmail, b.OwnerID,
		b.StartDate, b.EndDate, b.Days, b.Total, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}
	return b, nil
}

func (s *PostgresBookings) GetBooking(ctx context.Context, id string) (Booking, error) {
	b, err := scanBooking(s.pool.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return Booking{}, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return b, nil
}

func (s *PostgresBookings) ListBookings(ctx context.Context, userID string) ([]Booking, error) {
	var rows pgx.Rows
	var err error
	if userID == "" {
		rows, err = s.pool.Query(ctx, bookingSelect+` ORDER BY b.created_at DESC`)
	} else {
		rows, err = s.pool.Query(ctx, bookingSelect+` WHERE b.renter_id = $1 OR b.owner_id = $1 ORDER BY b.created_at DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	out := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to parse booking record: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return out, nil
}

func (s *PostgresBookings) TransitionBooking(ctx context.Context, id, from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking is no longer %s", ErrIllegalTransition, from)
	}
	return nil
}

func (s *PostgresBookings) CreateReview(ctx context.Context, r Review) (Review, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reviews (id, booking_id, listing_id, reviewer_id, reviewer_name, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.BookingID, r.ListingID, r.ReviewerID, r.ReviewerName, r.Rating, r.Comment, r.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return r, nil
}

func (s *PostgresBookings) ListReviews(ctx context.Context, listingID string) ([]Review, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, booking_id, listing_id, reviewer_id, reviewer_name, rating, comment, created_at
		 FROM reviews WHERE listing_id = $1 ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.BookingID, &r.ListingID, &r.ReviewerID, &r.ReviewerName, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse review record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func newBooking(b Booking) Booking {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt
	return b
}

// MemoryBookings is a BookingStore kept in process memory.
type MemoryBookings struct {
	mu       sync.RWMutex
	bookings map[string]Booking
	reviews  []Review
}

// NewMemoryBookings creates an empty store.
func NewMemoryBookings() *MemoryBookings {
	return &MemoryBookings{bookings: make(map[string]Booking)}
}

func (m *MemoryBookings) CreateBooking(_ context.Context, b Booking) (Booking, error) {
	b = newBooking(b)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return b, nil
}

func (m *MemoryBookings) GetBooking(_ context.Context, id string) (Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (m *MemoryBookings) ListBookings(_ context.Context, userID string) ([]Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if userID == "" || b.Participant(userID) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryBookings) TransitionBooking(_ context.Context, id, from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != from {
		return fmt.Errorf("%w: booking is no longer %s", ErrIllegalTransition, from)
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	m.bookings[id] = b
	return nil
}

func (m *MemoryBookings) CreateReview(_ context.Context, r Review) (Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.BookingID == r.BookingID {
			return Review{}, ErrAlreadyReviewed
		}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.reviews = append(m.reviews, r)
	return r, nil
}

func (m *MemoryBookings) ListReviews(_ context.Context, listingID string) ([]Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Review, 0)
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].ListingID == listingID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `id, name, description, category, size, weight, material, suitability,
	price_per_day, price_per_hour, price_per_week, rating, review_count,
	latitude, longitude, postal_code, address, owner_id, owner_name, owner_email,
	featured, status, created_at`

// PostgresStore is the primary listing store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.Name, &l.Description, &l.Category,
		&l.Specifications.Size, &l.Specifications.Weight, &l.Specifications.Material, &l.Specifications.Suitability,
		&l.PricePerDay, &l.PricePerHour, &l.PricePerWeek, &l.Rating, &l.ReviewCount,
		&l.Location.Latitude, &l.Location.Longitude, &l.Location.PostalCode, &l.Location.Address,
		&l.Owner.ID, &l.Owner.Name, &l.Owner.Email,
		&l.Featured, &l.Status, &l.CreatedAt,
	)
	return l, err
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Listing, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	out := make([]Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to parse listing record: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return out, nil
}

// List returns active listings, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Listing, error) {
	return s.query(ctx, `SELECT `+listingColumns+` FROM listings WHERE status = 'active' ORDER BY created_at DESC`)
}

// ListAll returns every listing regardless of status.
func (s *PostgresStore) ListAll(ctx context.Context) ([]Listing, error) {
	return s.query(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
}

// ListByOwner returns an owner's listings including suspended ones.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	return s.query(ctx, `SELECT `+listingColumns+` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

// Get looks up a listing by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (Listing, error) {
	l, err := scanListing(s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	if err != nil {
		return Listing{}, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// Create inserts l, assigning an ID and creation time when missing.
func (s *PostgresStore) Create(ctx context.Context, l Listing) (Listing, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`,
		l.ID, l.Name, l.Description, l.Category,
		l.Specifications.Size, l.Specifications.Weight, l.Specifications.Material, l.Specifications.Suitability,
		l.PricePerDay, l.PricePerHour, l.PricePerWeek, l.Rating, l.ReviewCount,
		l.Location.Latitude, l.Location.Longitude, l.Location.PostalCode, l.Location.Address,
		l.Owner.ID, l.Owner.Name, l.Owner.Email,
		l.Featured, l.Status, l.CreatedAt,
	)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to create listing: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) update(ctx context.Context, sql string, args ...any) error {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeatured flags or unflags a listing as featured.
func (s *PostgresStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	return s.update(ctx, `UPDATE listings SET featured = $1 WHERE id = $2`, featured, id)
}

// SetStatus moves a listing between active and suspended.
func (s *PostgresStore) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusSuspended {
		return fmt.Errorf("invalid listing status %q", status)
	}
	return s.update(ctx, `UPDATE listings SET status = $1 WHERE id = $2`, status, id)
}

// ApplyReview recomputes a listing's rating and review count from its reviews.
func (s *PostgresStore) ApplyReview(ctx context.Context, id string) error {
	return s.update(ctx, `
		UPDATE listings l SET
			rating = COALESCE((SELECT ROUND(AVG(r.rating)::numeric, 2)::float FROM reviews r WHERE r.listing_id = l.id), 0),
			review_count = (SELECT COUNT(*) FROM reviews r WHERE r.listing_id = l.id)
		WHERE l.id = $1`, id)
}

// AddFavorite records a favorite. Adding twice is a no-op.
func (s *PostgresStore) AddFavorite(ctx context.Context, userID, listingID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, listing_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite if present.
func (s *PostgresStore) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// FavoriteIDs returns the user's favorite listing IDs.
func (s *PostgresStore) FavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT listing_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to parse favorite: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

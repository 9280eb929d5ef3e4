package listing

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStore is a file-backed catalog for the CLI and local runs.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite catalog at path and initializes
// the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := ensureSQLiteColumns(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// ensureSQLiteColumns adds columns introduced after a catalog file was
// first created.
func ensureSQLiteColumns(db *sql.DB) error {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('listings') WHERE name = 'owner_email'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect listings columns: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE listings ADD COLUMN owner_email TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("failed to add owner_email column: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteListing(scan func(dest ...any) error) (Listing, error) {
	var l Listing
	var hour, week, lat, lng sql.NullFloat64
	var featured int
	var createdAt string
	err := scan(
		&l.ID, &l.Name, &l.Description, &l.Category,
		&l.Specifications.Size, &l.Specifications.Weight, &l.Specifications.Material, &l.Specifications.Suitability,
		&l.PricePerDay, &hour, &week, &l.Rating, &l.ReviewCount,
		&lat, &lng, &l.Location.PostalCode, &l.Location.Address,
		&l.Owner.ID, &l.Owner.Name, &l.Owner.Email,
		&featured, &l.Status, &createdAt,
	)
	if err != nil {
		return Listing{}, err
	}
	if hour.Valid {
		l.PricePerHour = &hour.Float64
	}
	if week.Valid {
		l.PricePerWeek = &week.Float64
	}
	if lat.Valid {
		l.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		l.Location.Longitude = &lng.Float64
	}
	l.Featured = featured == 1
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		l.CreatedAt = t
	}
	return l, nil
}

// List returns active listings, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE status = 'active' ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	out := make([]Listing, 0)
	for rows.Next() {
		l, err := scanSQLiteListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}
	return out, nil
}

// Get retrieves a single listing by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Listing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanSQLiteListing(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	if err != nil {
		return Listing{}, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// Create inserts or replaces l, assigning an ID when missing.
func (s *SQLiteStore) Create(ctx context.Context, l Listing) (Listing, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	featured := 0
	if l.Featured {
		featured = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO listings (`+listingColumns+`)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.Name, l.Description, l.Category,
		l.Specifications.Size, l.Specifications.Weight, l.Specifications.Material, l.Specifications.Suitability,
		l.PricePerDay, l.PricePerHour, l.PricePerWeek, l.Rating, l.ReviewCount,
		l.Location.Latitude, l.Location.Longitude, l.Location.PostalCode, l.Location.Address,
		l.Owner.ID, l.Owner.Name, l.Owner.Email,
		featured, l.Status, l.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to insert listing: %w", err)
	}
	return l, nil
}

// AddFavorite records a favorite. Adding twice is a no-op.
func (s *SQLiteStore) AddFavorite(ctx context.Context, userID, listingID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, listing_id) VALUES (?, ?)`, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// FavoriteIDs returns the user's favorite listing IDs.
func (s *SQLiteStore) FavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT listing_id FROM favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

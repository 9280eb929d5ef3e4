package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to Postgres and makes sure the tables GearHub uses exist.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("[db] connected to Postgres")

	ensureListingsTable(ctx, pool)

	// Older deployments created listings before moderation existed
	ensureListingsColumns(ctx, pool)

	ensureFavoritesTable(ctx, pool)

	// Bookings must exist before reviews reference them
	ensureBookingsTable(ctx, pool)
	ensureReviewsTable(ctx, pool)

	return pool, nil
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, table string) bool {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.tables
            WHERE table_schema = 'public' AND table_name = $1
        )`, table).Scan(&exists)
	if err != nil {
		log.Printf("[db] schema check for %s failed: %v", table, err)
	}
	return exists
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, table, column string) bool {
	var exists bool
	_ = pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM information_schema.columns
            WHERE table_schema = 'public' AND table_name = $1 AND column_name = $2
        )`, table, column).Scan(&exists)
	return exists
}

// ensureListingsTable creates the listings table if it doesn't exist
func ensureListingsTable(ctx context.Context, pool *pgxpool.Pool) {
	if tableExists(ctx, pool, "listings") {
		return
	}
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS listings (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            size TEXT NOT NULL DEFAULT '',
            weight TEXT NOT NULL DEFAULT '',
            material TEXT NOT NULL DEFAULT '',
            suitability TEXT NOT NULL DEFAULT '',
            price_per_day DOUBLE PRECISION NOT NULL CHECK (price_per_day >= 0),
            price_per_hour DOUBLE PRECISION NULL,
            price_per_week DOUBLE PRECISION NULL,
            rating DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
            review_count INTEGER NOT NULL DEFAULT 0 CHECK (review_count >= 0),
            latitude DOUBLE PRECISION NULL,
            longitude DOUBLE PRECISION NULL,
            postal_code TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            owner_id TEXT NOT NULL,
            owner_name TEXT NOT NULL DEFAULT '',
            owner_email TEXT NOT NULL DEFAULT '',
            featured BOOLEAN NOT NULL DEFAULT FALSE,
            status TEXT NOT NULL DEFAULT 'active',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
        CREATE INDEX IF NOT EXISTS idx_listings_owner ON listings(owner_id);
    `)
	if err != nil {
		log.Printf("[db] failed to create listings table: %v", err)
	}
}

// ensureListingsColumns adds listings.owner_email, listings.featured and listings.status if missing
func ensureListingsColumns(ctx context.Context, pool *pgxpool.Pool) {
	if !columnExists(ctx, pool, "listings", "owner_email") {
		if _, err := pool.Exec(ctx, `ALTER TABLE listings ADD COLUMN IF NOT EXISTS owner_email TEXT NOT NULL DEFAULT ''`); err != nil {
			log.Printf("[db] failed to add listings.owner_email: %v", err)
		}
	}
	if !columnExists(ctx, pool, "listings", "featured") {
		if _, err := pool.Exec(ctx, `ALTER TABLE listings ADD COLUMN IF NOT EXISTS featured BOOLEAN NOT NULL DEFAULT FALSE`); err != nil {
			log.Printf("[db] failed to add listings.featured: %v", err)
		}
	}
	if !columnExists(ctx, pool, "listings", "status") {
		if _, err := pool.Exec(ctx, `ALTER TABLE listings ADD COLUMN IF NOT EXISTS status TEXT DEFAULT 'active'`); err != nil {
			log.Printf("[db] failed to add listings.status: %v", err)
		} else {
			// Backfill any NULLs
			_, _ = pool.Exec(ctx, `UPDATE listings SET status = 'active' WHERE status IS NULL`)
		}
	}

	// Relax or update status CHECK constraint to the moderation statuses
	_, _ = pool.Exec(ctx, `ALTER TABLE listings DROP CONSTRAINT IF EXISTS listings_status_check`)
	_, err := pool.Exec(ctx, `
        ALTER TABLE listings
        ADD CONSTRAINT listings_status_check
        CHECK (status IN ('active', 'suspended'))`)
	if err != nil {
		log.Printf("[db] failed to update listings status constraint: %v", err)
	}
}

// ensureFavoritesTable creates favorites table if it doesn't exist
func ensureFavoritesTable(ctx context.Context, pool *pgxpool.Pool) {
	if tableExists(ctx, pool, "favorites") {
		return
	}
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS favorites (
            user_id TEXT NOT NULL,
            listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (user_id, listing_id)
        );
    `)
	if err != nil {
		log.Printf("[db] failed to create favorites table: %v", err)
	}
}

// ensureBookingsTable creates bookings table if it doesn't exist
func ensureBookingsTable(ctx context.Context, pool *pgxpool.Pool) {
	if tableExists(ctx, pool, "bookings") {
		return
	}
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            renter_id TEXT NOT NULL,
            renter_email TEXT NOT NULL DEFAULT '',
            owner_id TEXT NOT NULL,
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            days INTEGER NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending','accepted','declined','cancelled','completed')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_bookings_renter ON bookings(renter_id);
        CREATE INDEX IF NOT EXISTS idx_bookings_owner ON bookings(owner_id);
        CREATE INDEX IF NOT EXISTS idx_bookings_listing ON bookings(listing_id);
    `)
	if err != nil {
		log.Printf("[db] failed to create bookings table: %v", err)
	}
}

// ensureReviewsTable creates reviews table if it doesn't exist
func ensureReviewsTable(ctx context.Context, pool *pgxpool.Pool) {
	if tableExists(ctx, pool, "reviews") {
		return
	}
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS reviews (
            id TEXT PRIMARY KEY,
            booking_id TEXT NOT NULL UNIQUE REFERENCES bookings(id) ON DELETE CASCADE,
            listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            reviewer_id TEXT NOT NULL,
            reviewer_name TEXT NOT NULL DEFAULT '',
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id);
    `)
	if err != nil {
		log.Printf("[db] failed to create reviews table: %v", err)
	}
}

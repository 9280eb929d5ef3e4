package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sudo-init-do/gearhub/internal/config"
	"github.com/sudo-init-do/gearhub/internal/db"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/storage"
)

// export_snapshot writes the active listings to S3 for the s3 catalog source.
// A dated copy is kept next to the key the server reads.
func main() {
	key := flag.String("key", "", "Object key to write (defaults to CATALOG_SNAPSHOT_KEY or the latest snapshot path)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateS3(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	client, err := storage.NewClient(ctx, storage.Options(cfg.S3))
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	listings, err := listing.NewPostgresStore(pool).List(ctx)
	if err != nil {
		log.Fatalf("failed to load listings: %v", err)
	}

	now := time.Now().UTC()
	data, err := listing.EncodeSnapshot(listings, now)
	if err != nil {
		log.Fatalf("failed to encode snapshot: %v", err)
	}

	target := *key
	if target == "" {
		target = cfg.Catalog.SnapshotKey
	}
	if target == "" {
		target = storage.LatestSnapshotPath()
	}
	for _, k := range []string{storage.SnapshotPath(now.Format("20060102T150405Z")), target} {
		if err := client.Put(ctx, k, data); err != nil {
			log.Fatalf("failed to upload %s: %v", k, err)
		}
	}

	fmt.Printf("Exported %d listings to s3://%s/%s.\n", len(listings), cfg.S3.Bucket, target)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sudo-init-do/gearhub/internal/config"
	"github.com/sudo-init-do/gearhub/internal/db"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

// import_listings loads listings from a CSV file into Postgres.
// Usage:
//
//	go run cmd/adminutil/import_listings/main.go -file listings.csv [-owner id -owner-name name]
func main() {
	file := flag.String("file", "", "CSV file to import")
	ownerID := flag.String("owner", "", "Owner ID for rows without one")
	ownerName := flag.String("owner-name", "", "Owner name for rows without one")
	flag.Parse()

	if *file == "" {
		log.Fatalf("usage: go run cmd/adminutil/import_listings/main.go -file listings.csv")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *file, err)
	}
	defer f.Close()

	listings, err := listing.ReadCSV(f)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *file, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	store := listing.NewPostgresStore(pool)
	imported := 0
	for _, l := range listings {
		if l.Owner.ID == "" {
			l.Owner = listing.Owner{ID: *ownerID, Name: *ownerName}
		}
		if l.Owner.ID == "" {
			log.Printf("[import] skipping %q: no owner", l.Name)
			continue
		}
		if _, err := store.Create(ctx, l); err != nil {
			log.Printf("[import] skipping %q: %v", l.Name, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d listings from %s.\n", imported, len(listings), *file)
}

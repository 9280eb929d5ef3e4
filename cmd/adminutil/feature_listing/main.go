package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sudo-init-do/gearhub/internal/config"
	"github.com/sudo-init-do/gearhub/internal/db"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

func main() {
	id := flag.String("id", "", "ID of the listing to feature")
	off := flag.Bool("off", false, "Remove the featured flag instead")
	flag.Parse()

	if *id == "" {
		log.Fatalf("usage: go run cmd/adminutil/feature_listing/main.go -id <listing> [-off]")
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

	if err := listing.NewPostgresStore(pool).SetFeatured(ctx, *id, !*off); err != nil {
		log.Fatalf("failed to update listing %s: %v", *id, err)
	}

	if *off {
		fmt.Printf("Listing %s is no longer featured.\n", *id)
	} else {
		fmt.Printf("Listing %s is now featured.\n", *id)
	}
}

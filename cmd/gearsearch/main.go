// Command gearsearch runs the search pipeline over a local SQLite catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sudo-init-do/gearhub/internal/geo"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/search"
)

func main() {
	dbPath := flag.String("db", "gearhub.db", "SQLite catalog path")
	query := flag.String("q", "", "Search text, optionally ending in \"in <place>\"")
	category := flag.String("category", "", "Category filter")
	price := flag.String("price", "", "Comma-separated price bucket IDs")
	rating := flag.String("rating", "", "Comma-separated rating bucket IDs")
	radius := flag.Float64("radius", 0, "Radius in miles around -lat/-lng")
	lat := flag.Float64("lat", 0, "Origin latitude")
	lng := flag.Float64("lng", 0, "Origin longitude")
	featured := flag.Bool("featured", false, "Only featured listings")
	sortMode := flag.String("sort", "distance", "distance, relevance, price_asc, price_desc or rating")
	limit := flag.Int("limit", 20, "Maximum results")
	importFile := flag.String("import", "", "CSV file to load into the catalog before searching")
	userID := flag.String("user", "", "Searcher ID for -favorite and -favorites")
	favorite := flag.String("favorite", "", "Listing ID to save as a favorite of -user before searching")
	favoritesOnly := flag.Bool("favorites", false, "Only listings -user has favorited")
	flag.Parse()

	store, err := listing.OpenSQLite(*dbPath)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if *importFile != "" {
		n, err := importCSV(ctx, store, *importFile)
		if err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Println(mutedStyle.Render(fmt.Sprintf("imported %d listings from %s", n, *importFile)))
	}

	if *favorite != "" {
		if *userID == "" {
			log.Fatalf("-favorite needs -user")
		}
		if err := store.AddFavorite(ctx, *userID, *favorite); err != nil {
			log.Fatalf("favorite: %v", err)
		}
	}

	var origin *geo.Point
	if flagSet("lat") && flagSet("lng") {
		p := geo.Point{Lat: *lat, Lng: *lng}
		if !p.Valid() {
			log.Fatalf("invalid origin %v,%v", *lat, *lng)
		}
		origin = &p
	}

	engine := search.NewEngine(store, nil, search.Options{})
	resp, err := engine.Search(ctx, search.SearchRequest{
		Query: *query,
		Filters: search.FilterSet{
			Category:      *category,
			PriceBuckets:  splitList(*price),
			RatingBuckets: splitList(*rating),
			RadiusMiles:   *radius,
			FeaturedOnly:  *featured,
			FavoritesOnly: *favoritesOnly,
		},
		Sort:   search.ParseSortMode(*sortMode),
		Origin: origin,
		UserID: *userID,
		Limit:  *limit,
	})
	if errors.Is(err, search.ErrUnknownBucket) {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		printBuckets(engine)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("search: %v", err)
	}

	fmt.Println(render(resp))
}

func importCSV(ctx context.Context, store *listing.SQLiteStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	listings, err := listing.ReadCSV(f)
	if err != nil {
		return 0, err
	}
	for _, l := range listings {
		if _, err := store.Create(ctx, l); err != nil {
			return 0, fmt.Errorf("%q: %w", l.Name, err)
		}
	}
	return len(listings), nil
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/gearhub/internal/alerts"
	"github.com/sudo-init-do/gearhub/internal/config"
	"github.com/sudo-init-do/gearhub/internal/db"
	"github.com/sudo-init-do/gearhub/internal/geocode"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/messaging"
	mware "github.com/sudo-init-do/gearhub/internal/middleware"
	"github.com/sudo-init-do/gearhub/internal/search"
	"github.com/sudo-init-do/gearhub/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	pool, err := db.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	store := listing.NewPostgresStore(pool)
	catalog, closeCatalog := openCatalog(ctx, cfg, store)
	defer closeCatalog()

	engine := newEngine(cfg, catalog).WithFavorites(store)

	var enq alerts.Enqueuer = alerts.NopEnqueuer{}
	if cfg.RedisAddr != "" {
		client := alerts.NewClient(cfg.RedisAddr)
		defer client.Close()
		enq = client

		worker := alerts.NewWorker(cfg.RedisAddr, alerts.NewMailer(cfg.Plunk))
		if err := worker.Start(); err != nil {
			log.Printf("[notify][ERROR] %v", err)
		} else {
			defer worker.Shutdown()
		}
	} else {
		log.Printf("[notify] REDIS_ADDR not set, notifications are dropped")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = mware.NewValidator()
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSAllowOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	registerRoutes(e, routeDeps{
		cfg:    cfg,
		pool:   pool,
		store:  store,
		engine: engine,
		enq:    enq,
		hub:    messaging.NewHub(),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("[server] listening on :%s (catalog=%s)", cfg.Port, cfg.Catalog.Source)

	<-ctx.Done()
	log.Printf("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}

// openCatalog picks the listing source search reads from. Writes and
// favorites always go to Postgres.
func openCatalog(ctx context.Context, cfg *config.Config, store *listing.PostgresStore) (listing.Catalog, func()) {
	switch cfg.Catalog.Source {
	case config.SourceSQLite:
		sq, err := listing.OpenSQLite(cfg.Catalog.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite catalog: %v", err)
		}
		return sq, func() { _ = sq.Close() }
	case config.SourceS3:
		client, err := storage.NewClient(ctx, storage.Options(cfg.S3))
		if err != nil {
			log.Fatalf("s3 catalog: %v", err)
		}
		return listing.NewSnapshotStore(client, cfg.Catalog.SnapshotKey, cfg.Catalog.SnapshotTTL), func() {}
	default:
		return store, func() {}
	}
}

func newEngine(cfg *config.Config, catalog listing.Catalog) *search.Engine {
	prices, err := cfg.PriceTable()
	if err != nil {
		log.Fatalf("price buckets: %v", err)
	}
	ratings, err := cfg.RatingTable()
	if err != nil {
		log.Fatalf("rating buckets: %v", err)
	}
	scorer, err := search.NewScorer(cfg.Search.SimilarityCache)
	if err != nil {
		log.Fatalf("scorer: %v", err)
	}

	var geocoder geocode.Geocoder
	if cfg.Geocode.URL != "" {
		geocoder = geocode.NewCached(geocode.NewClient(cfg.Geocode.URL, cfg.Geocode.APIKey), cfg.Geocode.CacheSize, cfg.Geocode.CacheTTL)
	} else {
		log.Printf("[search] GEOCODE_URL not set, place names only narrow the text query")
	}

	return search.NewEngine(catalog, geocoder, search.Options{
		PriceBuckets:  prices,
		RatingBuckets: ratings,
		Scorer:        scorer,
	})
}

type routeDeps struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	store  *listing.PostgresStore
	engine *search.Engine
	enq    alerts.Enqueuer
	hub    *messaging.Hub
}

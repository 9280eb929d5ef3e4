package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Catalog.Source != SourcePostgres {
		t.Fatalf("expected postgres catalog, got %q", cfg.Catalog.Source)
	}
	if cfg.Search.SimilarityCache != 4096 {
		t.Fatalf("expected similarity cache 4096, got %d", cfg.Search.SimilarityCache)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("expected read timeout 30s, got %v", cfg.ReadTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "gear")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_NAME", "gearhub")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("CATALOG_SOURCE", "SQLite")
	t.Setenv("SEARCH_MAX_LIMIT", "50")
	t.Setenv("GEOCODE_CACHE_TTL", "10m")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected redis:6379, got %q", cfg.RedisAddr)
	}
	if cfg.Catalog.Source != SourceSQLite {
		t.Fatalf("expected sqlite, got %q", cfg.Catalog.Source)
	}
	if cfg.Search.MaxLimit != 50 {
		t.Fatalf("expected max limit 50, got %d", cfg.Search.MaxLimit)
	}
	if cfg.Geocode.CacheTTL != 10*time.Minute {
		t.Fatalf("expected 10m, got %v", cfg.Geocode.CacheTTL)
	}
	want := "postgres://gear:p%40ss@db:5432/gearhub"
	if got := cfg.Database.DSN(); got != want {
		t.Fatalf("expected dsn %q, got %q", want, got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDatabaseURLWins(t *testing.T) {
	d := DatabaseConfig{URL: "postgres://x/y", Host: "db", Name: "n"}
	if d.DSN() != "postgres://x/y" {
		t.Fatalf("expected URL to win, got %q", d.DSN())
	}
	if (DatabaseConfig{}).DSN() != "" {
		t.Fatal("expected empty dsn without host")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"missing secret", Config{Catalog: CatalogConfig{Source: SourcePostgres}, Search: SearchConfig{MaxLimit: 10}}, "JWT_SECRET"},
		{"s3 without keys", Config{JWTSecret: "s", Catalog: CatalogConfig{Source: SourceS3}, Search: SearchConfig{MaxLimit: 10}}, "AWS_ACCESS_KEY_ID"},
		{"unknown source", Config{JWTSecret: "s", Catalog: CatalogConfig{Source: "mongo"}, Search: SearchConfig{MaxLimit: 10}}, "CATALOG_SOURCE (postgres, sqlite or s3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, ce.Field)
			}
		})
	}
}

func TestBucketTablesFallBackToDefaults(t *testing.T) {
	cfg := &Config{}
	prices, err := cfg.PriceTable()
	if err != nil {
		t.Fatalf("price table: %v", err)
	}
	if len(prices.Buckets()) != 5 {
		t.Fatalf("expected 5 default price buckets, got %d", len(prices.Buckets()))
	}
	ratings, err := cfg.RatingTable()
	if err != nil {
		t.Fatalf("rating table: %v", err)
	}
	if len(ratings.Buckets()) != 5 {
		t.Fatalf("expected 5 default rating buckets, got %d", len(ratings.Buckets()))
	}
}

// Package config loads GearHub settings from .env files, an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sudo-init-do/gearhub/internal/search"
)

// Catalog sources
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceS3       = "s3"
)

// Config holds all configuration values for GearHub services.
type Config struct {
	Port            string
	AppURL          string
	JWTSecret       string
	RedisAddr       string
	CORSAllowOrigin string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration

	Database DatabaseConfig
	Plunk    PlunkConfig
	Catalog  CatalogConfig
	S3       S3Config
	Geocode  GeocodeConfig
	Search   SearchConfig
}

// DatabaseConfig locates Postgres. URL wins over the individual fields.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string for pgx.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" || d.Name == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(d.SSLMode)
	}
	return u.String()
}

// PlunkConfig configures transactional mail.
type PlunkConfig struct {
	APIKey  string
	From    string
	APIURL  string
	ReplyTo string
}

// CatalogConfig picks where search reads listings from.
type CatalogConfig struct {
	Source      string
	SQLitePath  string
	SnapshotKey string
	SnapshotTTL time.Duration
}

// S3Config locates the snapshot bucket.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// GeocodeConfig configures the maps proxy used for "in <place>" queries.
type GeocodeConfig struct {
	URL       string
	APIKey    string
	CacheSize int
	CacheTTL  time.Duration
}

// SearchConfig tunes the search pipeline.
type SearchConfig struct {
	SimilarityCache int
	DefaultLimit    int
	MaxLimit        int
	PriceBuckets    []search.Bucket
	RatingBuckets   []search.Bucket
}

// envAliases maps config keys to the environment names already used by
// deployments. The nested form (DATABASE_HOST) also works via AutomaticEnv.
var envAliases = map[string][]string{
	"port":                    {"PORT"},
	"app_url":                 {"APP_URL"},
	"jwt_secret":              {"JWT_SECRET"},
	"cors_allow_origin":       {"CORS_ALLOW_ORIGIN"},
	"read_timeout":            {"READ_TIMEOUT"},
	"write_timeout":           {"WRITE_TIMEOUT"},
	"database.url":            {"DATABASE_URL"},
	"database.host":           {"DB_HOST", "DATABASE_HOST"},
	"database.port":           {"DB_PORT", "DATABASE_PORT"},
	"database.user":           {"DB_USER", "DATABASE_USER"},
	"database.password":       {"DB_PASSWORD", "DATABASE_PASSWORD"},
	"database.name":           {"DB_NAME", "DATABASE_NAME"},
	"database.sslmode":        {"DB_SSLMODE", "DATABASE_SSLMODE"},
	"plunk.api_key":           {"PLUNK_API_KEY"},
	"plunk.from":              {"PLUNK_FROM"},
	"plunk.api_url":           {"PLUNK_API_URL"},
	"plunk.reply_to":          {"MAIL_REPLY_TO"},
	"catalog.source":          {"CATALOG_SOURCE"},
	"catalog.sqlite_path":     {"CATALOG_SQLITE_PATH"},
	"catalog.snapshot_key":    {"CATALOG_SNAPSHOT_KEY"},
	"catalog.snapshot_ttl":    {"CATALOG_SNAPSHOT_TTL"},
	"s3.endpoint":             {"AWS_ENDPOINT_URL"},
	"s3.region":               {"AWS_DEFAULT_REGION", "AWS_REGION"},
	"s3.bucket":               {"AWS_S3_BUCKET_NAME", "BUCKET_NAME"},
	"s3.access_key_id":        {"AWS_ACCESS_KEY_ID"},
	"s3.secret_access_key":    {"AWS_SECRET_ACCESS_KEY"},
	"geocode.url":             {"GEOCODE_URL"},
	"geocode.api_key":         {"GEOCODE_API_KEY"},
	"geocode.cache_size":      {"GEOCODE_CACHE_SIZE"},
	"geocode.cache_ttl":       {"GEOCODE_CACHE_TTL"},
	"search.similarity_cache": {"SEARCH_SIMILARITY_CACHE"},
	"search.default_limit":    {"SEARCH_DEFAULT_LIMIT"},
	"search.max_limit":        {"SEARCH_MAX_LIMIT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_url", "http://localhost:5173")
	v.SetDefault("cors_allow_origin", "*")
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 60*time.Second)
	v.SetDefault("database.port", "5432")
	v.SetDefault("plunk.api_url", "https://api.useplunk.com/v1/send")
	v.SetDefault("catalog.source", SourcePostgres)
	v.SetDefault("catalog.sqlite_path", "gearhub.db")
	v.SetDefault("catalog.snapshot_ttl", time.Minute)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("geocode.cache_size", 1024)
	v.SetDefault("geocode.cache_ttl", 24*time.Hour)
	v.SetDefault("search.similarity_cache", 4096)
	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.max_limit", 100)
}

// Load reads configuration. Missing .env and config files are not errors.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("gearhub")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.Printf("[config] using config file %s", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		AppURL:          v.GetString("app_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		RedisAddr:       redisAddr(v),
		CORSAllowOrigin: v.GetString("cors_allow_origin"),
		ReadTimeout:     v.GetDuration("read_timeout"),
		WriteTimeout:    v.GetDuration("write_timeout"),
		Database: DatabaseConfig{
			URL:      v.GetString("database.url"),
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Plunk: PlunkConfig{
			APIKey:  v.GetString("plunk.api_key"),
			From:    v.GetString("plunk.from"),
			APIURL:  v.GetString("plunk.api_url"),
			ReplyTo: v.GetString("plunk.reply_to"),
		},
		Catalog: CatalogConfig{
			Source:      strings.ToLower(v.GetString("catalog.source")),
			SQLitePath:  v.GetString("catalog.sqlite_path"),
			SnapshotKey: v.GetString("catalog.snapshot_key"),
			SnapshotTTL: v.GetDuration("catalog.snapshot_ttl"),
		},
		S3: S3Config{
			Endpoint:        v.GetString("s3.endpoint"),
			Region:          v.GetString("s3.region"),
			Bucket:          v.GetString("s3.bucket"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
		},
		Geocode: GeocodeConfig{
			URL:       v.GetString("geocode.url"),
			APIKey:    v.GetString("geocode.api_key"),
			CacheSize: v.GetInt("geocode.cache_size"),
			CacheTTL:  v.GetDuration("geocode.cache_ttl"),
		},
		Search: SearchConfig{
			SimilarityCache: v.GetInt("search.similarity_cache"),
			DefaultLimit:    v.GetInt("search.default_limit"),
			MaxLimit:        v.GetInt("search.max_limit"),
		},
	}

	if err := v.UnmarshalKey("search.price_buckets", &cfg.Search.PriceBuckets); err != nil {
		return nil, fmt.Errorf("search.price_buckets: %w", err)
	}
	if err := v.UnmarshalKey("search.rating_buckets", &cfg.Search.RatingBuckets); err != nil {
		return nil, fmt.Errorf("search.rating_buckets: %w", err)
	}
	return cfg, nil
}

// redisAddr prefers REDIS_ADDR, then REDIS_HOST and REDIS_PORT.
func redisAddr(v *viper.Viper) string {
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_host", "REDIS_HOST")
	_ = v.BindEnv("redis_port", "REDIS_PORT")
	if addr := v.GetString("redis_addr"); addr != "" {
		return addr
	}
	host := v.GetString("redis_host")
	if host == "" {
		return ""
	}
	port := v.GetString("redis_port")
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

// Validate checks values every service needs.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return &ConfigError{Field: "JWT_SECRET"}
	}
	switch c.Catalog.Source {
	case SourcePostgres, SourceSQLite:
	case SourceS3:
		if err := c.ValidateS3(); err != nil {
			return err
		}
	default:
		return &ConfigError{Field: "CATALOG_SOURCE (postgres, sqlite or s3)"}
	}
	if c.Search.MaxLimit <= 0 {
		return &ConfigError{Field: "SEARCH_MAX_LIMIT"}
	}
	return nil
}

// ValidateDatabase checks the Postgres location.
func (c *Config) ValidateDatabase() error {
	if c.Database.DSN() == "" {
		return &ConfigError{Field: "DATABASE_URL or DB_HOST/DB_NAME"}
	}
	return nil
}

// ValidateS3 checks the snapshot bucket settings.
func (c *Config) ValidateS3() error {
	if c.S3.AccessKeyID == "" {
		return &ConfigError{Field: "AWS_ACCESS_KEY_ID"}
	}
	if c.S3.SecretAccessKey == "" {
		return &ConfigError{Field: "AWS_SECRET_ACCESS_KEY"}
	}
	if c.S3.Bucket == "" {
		return &ConfigError{Field: "AWS_S3_BUCKET_NAME or BUCKET_NAME"}
	}
	return nil
}

// PriceTable builds the price bucket table, falling back to the defaults.
func (c *Config) PriceTable() (*search.BucketTable, error) {
	if len(c.Search.PriceBuckets) == 0 {
		return search.DefaultPriceBuckets(), nil
	}
	return search.NewBucketTable(c.Search.PriceBuckets...)
}

// RatingTable builds the rating bucket table, falling back to the defaults.
func (c *Config) RatingTable() (*search.BucketTable, error) {
	if len(c.Search.RatingBuckets) == 0 {
		return search.DefaultRatingBuckets(), nil
	}
	return search.NewBucketTable(c.Search.RatingBuckets...)
}

// ConfigError represents a missing configuration value.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + e.Field
}

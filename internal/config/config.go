// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	SiteBaseURL   string        `mapstructure:"SITE_BASE_URL"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Listing rules
	MaxListingImages        int    `mapstructure:"MAX_LISTING_IMAGES"`
	MaxListingImageBytes    int64  `mapstructure:"MAX_LISTING_IMAGE_BYTES"`
	PaidPlacementDays       int    `mapstructure:"PAID_PLACEMENT_DAYS"`
	PlacementExpirySchedule string `mapstructure:"PLACEMENT_EXPIRY_JOB_SCHEDULE"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Object storage (MinIO / S3 compatible)
	StorageEndpoint      string `mapstructure:"STORAGE_ENDPOINT"`
	StorageAccessKey     string `mapstructure:"STORAGE_ACCESS_KEY"`
	StorageSecretKey     string `mapstructure:"STORAGE_SECRET_KEY"`
	StorageBucket        string `mapstructure:"STORAGE_BUCKET"`
	StorageUseSSL        bool   `mapstructure:"STORAGE_USE_SSL"`
	StoragePublicBaseURL string `mapstructure:"STORAGE_PUBLIC_BASE_URL"`

	// Stripe Configuration
	StripeSecretKey       string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeBasicPriceID    string `mapstructure:"STRIPE_BASIC_PRICE_ID"`
	StripePremiumPriceID  string `mapstructure:"STRIPE_PREMIUM_PRICE_ID"`
	StripeBusinessPriceID string `mapstructure:"STRIPE_BUSINESS_PRICE_ID"`

	// Elasticsearch Configuration (optional; DB search is the fallback)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
}

// Load attempts to load configuration from a .env file (if present) and
// environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("SITE_BASE_URL", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "kuwait_portal_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("MAX_LISTING_IMAGES", 5)
	v.SetDefault("MAX_LISTING_IMAGE_BYTES", 5*1024*1024)
	v.SetDefault("PAID_PLACEMENT_DAYS", 30)
	v.SetDefault("PLACEMENT_EXPIRY_JOB_SCHEDULE", "@daily")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "images")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:9000/images")

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_BASIC_PRICE_ID", "")
	v.SetDefault("STRIPE_PREMIUM_PRICE_ID", "")
	v.SetDefault("STRIPE_BUSINESS_PRICE_ID", "")

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: STRIPE_SECRET_KEY is not set. Paid placements cannot be initiated without it")
	}

	return &cfg, nil
}

// DSN returns the GORM PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Document backend
	MongodbURL  string `envconfig:"MONGODB_URL" required:"true"`
	MongodbName string `envconfig:"MONGODB_NAME" default:"tunevault"`

	// Relational backend
	DatabaseType string `envconfig:"DATABASE_TYPE" default:"sqlite"`
	SQLitePath   string `envconfig:"SQLITE_PATH" default:"data/tunevault.db"`
	PostgresHost string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser string `envconfig:"POSTGRES_USER"`
	PostgresPass string `envconfig:"POSTGRES_PASSWORD"`
	PostgresDB   string `envconfig:"POSTGRES_DB"`

	// Optional cache in front of the document backend
	ValkeyURL string `envconfig:"VALKEY_URL"`

	// Auth
	JWTSecret        string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiryMinutes int    `envconfig:"JWT_EXPIRY_MINUTES" default:"120"`

	// Bootstrap admin account, created on startup when missing
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin"`

	// File storage root for media files, artwork and avatars
	MediaRoot string `envconfig:"MEDIA_ROOT" default:"data/media"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	// envconfig's required tag accepts set-but-empty variables
	if cfg.MongodbURL == "" {
		return nil, fmt.Errorf("MONGODB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.DatabaseType {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_TYPE: %s", cfg.DatabaseType)
	}

	return &cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.PostgresHost, c.PostgresUser, c.PostgresPass, c.PostgresDB, c.PostgresPort)
}

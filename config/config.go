// Package config loads server configuration from the environment. A .env
// file next to the binary is honored when present so deployments on the
// front-desk machine don't need a process manager to inject variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBSqlite   = "sqlite"
	DBPostgres = "postgres"

	MediaLocal = "local"
	MediaS3    = "s3"
)

const defaultMaxUploadBytes = 500 << 20 // 500 MB, matches the admin UI hint

type Config struct {
	Addr     string
	RootPath string

	DBEngine string
	DBDSN    string

	MediaBackend string
	S3Bucket     string
	AWSProfile   string

	// PublicURL is the externally reachable base URL of this server, used to
	// build video references the displays can resolve.
	PublicURL string

	JWTSecret string
	TokenTTL  time.Duration

	MaxUploadBytes int64

	// SeedAdminPassword provisions the initial admin account when the user
	// table is empty. Ignored once any user exists.
	SeedAdminPassword string
}

// Load reads configuration from the environment, after merging in a .env
// file when one exists in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Addr:              envOr("HTV_ADDR", "0.0.0.0:5000"),
		RootPath:          envOr("HTV_ROOT_PATH", "."),
		DBEngine:          envOr("HTV_DB", DBSqlite),
		DBDSN:             os.Getenv("HTV_DB_DSN"),
		MediaBackend:      envOr("HTV_MEDIA", MediaLocal),
		S3Bucket:          os.Getenv("HTV_S3_BUCKET"),
		AWSProfile:        os.Getenv("HTV_AWS_PROFILE"),
		PublicURL:         envOr("HTV_PUBLIC_URL", "http://localhost:5000"),
		JWTSecret:         os.Getenv("HTV_JWT_SECRET"),
		TokenTTL:          8 * time.Hour,
		MaxUploadBytes:    defaultMaxUploadBytes,
		SeedAdminPassword: os.Getenv("HTV_SEED_ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("HTV_JWT_SECRET environment variable is required")
	}

	if ttlStr := os.Getenv("HTV_TOKEN_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid HTV_TOKEN_TTL %q", ttlStr)
		}
		cfg.TokenTTL = ttl
	}

	if maxStr := os.Getenv("HTV_MAX_UPLOAD_BYTES"); maxStr != "" {
		maxBytes, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || maxBytes <= 0 {
			return nil, fmt.Errorf("invalid HTV_MAX_UPLOAD_BYTES %q", maxStr)
		}
		cfg.MaxUploadBytes = maxBytes
	}

	return cfg, nil
}

func (c *Config) SqlitePath() string {
	return filepath.Join(c.RootPath, "hoteltv.db")
}

func (c *Config) UploadsDir() string {
	return filepath.Join(c.RootPath, "uploads")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTV_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr)
	assert.Equal(t, ".", cfg.RootPath)
	assert.Equal(t, DBSqlite, cfg.DBEngine)
	assert.Equal(t, MediaLocal, cfg.MediaBackend)
	assert.Equal(t, "http://localhost:5000", cfg.PublicURL)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(500<<20), cfg.MaxUploadBytes)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("HTV_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTV_JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTV_JWT_SECRET", "test-secret")
	t.Setenv("HTV_ADDR", "127.0.0.1:8080")
	t.Setenv("HTV_ROOT_PATH", "/var/lib/hoteltv")
	t.Setenv("HTV_DB", DBPostgres)
	t.Setenv("HTV_DB_DSN", "host=localhost user=hoteltv")
	t.Setenv("HTV_MEDIA", MediaS3)
	t.Setenv("HTV_S3_BUCKET", "hotel-videos")
	t.Setenv("HTV_TOKEN_TTL", "30m")
	t.Setenv("HTV_MAX_UPLOAD_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, DBPostgres, cfg.DBEngine)
	assert.Equal(t, "host=localhost user=hoteltv", cfg.DBDSN)
	assert.Equal(t, MediaS3, cfg.MediaBackend)
	assert.Equal(t, "hotel-videos", cfg.S3Bucket)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HTV_JWT_SECRET", "test-secret")

	t.Setenv("HTV_TOKEN_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
	t.Setenv("HTV_TOKEN_TTL", "")

	t.Setenv("HTV_MAX_UPLOAD_BYTES", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{RootPath: "/var/lib/hoteltv"}
	assert.Equal(t, filepath.Join("/var/lib/hoteltv", "hoteltv.db"), cfg.SqlitePath())
	assert.Equal(t, filepath.Join("/var/lib/hoteltv", "uploads"), cfg.UploadsDir())
}

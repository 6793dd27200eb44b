package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseEnv_MapsAllSections verifies that environment variables with the
// documented prefixes land in the right StructuredConfig fields.
func TestParseEnv_MapsAllSections(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "https://catalog.test")
	t.Setenv("REMOTE_CATALOG_MANIFEST_PATH", "/api/cards/manifest")
	t.Setenv("REMOTE_REQUEST_TIMEOUT", "45s")
	t.Setenv("STORAGE_DATABASE_PATH", "/tmp/cards.db")
	t.Setenv("STORAGE_IMAGES_DIR", "/tmp/images")
	t.Setenv("SYNC_WORKERS", "4")
	t.Setenv("SYNC_RETRY_ATTEMPTS", "5")
	t.Setenv("SYNC_CHECK_ON_STARTUP", "true")
	t.Setenv("SYNC_AUTO_SYNC_INTERVAL", "10m")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://catalog.test", cfg.Remote.BaseURL)
	assert.Equal(t, "/api/cards/manifest", cfg.Remote.CatalogManifestPath)
	assert.Equal(t, 45*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/tmp/cards.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "/tmp/images", cfg.Storage.ImagesDir)
	assert.Equal(t, 4, cfg.Sync.Workers)
	assert.Equal(t, 5, cfg.Sync.RetryAttempts)
	assert.True(t, cfg.Sync.CheckOnStartup)
	assert.Equal(t, 10*time.Minute, cfg.Sync.AutoSyncInterval)
}

// TestParseEnv_InvalidDuration verifies that a malformed duration value is
// reported as an error instead of being silently ignored.
func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("REMOTE_REQUEST_TIMEOUT", "not-a-duration")

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.Error(t, err)
}

// TestParseEnv_EmptyEnvironment verifies that an empty environment leaves
// the zero config untouched.
func TestParseEnv_EmptyEnvironment(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

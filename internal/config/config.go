package config

import (
	"fmt"
	"time"
)

// StructuredConfig is the top-level configuration container for
// cardmirror. It aggregates all sub-configurations and is populated by
// merging values from command-line flags, environment variables, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Remote holds the remote catalog endpoints and request timeout.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds the local mirror locations: the SQLite database file
	// and the image asset directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds reconciliation tuning: worker count, retry budget, and
	// the optional background sync schedule.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and used to fill any fields left
	// empty by flags and environment variables.
	// Populated via the CONFIG environment variable or the -c/-config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Remote holds the remote catalog endpoints consumed by the sync engine.
// All paths are relative to BaseURL.
type Remote struct {
	// BaseURL is the scheme://host root of the catalog API.
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// CatalogManifestPath is the catalog version descriptor endpoint.
	// Env: REMOTE_CATALOG_MANIFEST_PATH
	CatalogManifestPath string `env:"CATALOG_MANIFEST_PATH"`

	// CatalogBlobPath is the catalog snapshot download endpoint.
	// Env: REMOTE_CATALOG_BLOB_PATH
	CatalogBlobPath string `env:"CATALOG_BLOB_PATH"`

	// ImageManifestPath is the image manifest endpoint.
	// Env: REMOTE_IMAGE_MANIFEST_PATH
	ImageManifestPath string `env:"IMAGE_MANIFEST_PATH"`

	// ImageBlobPath is the base path for individual image downloads; the
	// manifest-relative path of each asset is appended to it.
	// Env: REMOTE_IMAGE_BLOB_PATH
	ImageBlobPath string `env:"IMAGE_BLOB_PATH"`

	// RequestTimeout is the per-request timeout applied to every network
	// call (manifest fetch, blob fetch). A timeout is classified as a
	// network error and handled by the caller's retry policy.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the locations of the persisted local mirror.
type Storage struct {
	// DatabasePath is the path of the local SQLite catalog database.
	// Env: STORAGE_DATABASE_PATH
	DatabasePath string `env:"DATABASE_PATH"`

	// ImagesDir is the root of the sharded image asset directory.
	// Env: STORAGE_IMAGES_DIR
	ImagesDir string `env:"IMAGES_DIR"`
}

// Sync holds reconciliation and scheduling settings.
type Sync struct {
	// Workers is the number of concurrent image download workers. Bounded
	// to respect remote rate limits; defaults to 6.
	// Env: SYNC_WORKERS
	Workers int `env:"WORKERS"`

	// RetryAttempts is the per-asset fetch budget before an asset is
	// reported as failed. Defaults to 3.
	// Env: SYNC_RETRY_ATTEMPTS
	RetryAttempts int `env:"RETRY_ATTEMPTS"`

	// CheckOnStartup makes the CLI run a sync status check before doing
	// anything else.
	// Env: SYNC_CHECK_ON_STARTUP
	CheckOnStartup bool `env:"CHECK_ON_STARTUP"`

	// AutoSyncInterval, when non-zero, enables the background sync job at
	// the given period.
	// Env: SYNC_AUTO_SYNC_INTERVAL
	AutoSyncInterval time.Duration `env:"AUTO_SYNC_INTERVAL"`
}

// GetConfig loads, merges, validates and defaults the cardmirror
// configuration from flags, environment variables, and the optional JSON
// file named by them.
func GetConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withFlags().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error building config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills any still-empty fields with the shipped defaults for
// the get-diced catalog service.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = "https://get-diced.com"
	}
	if cfg.Remote.CatalogManifestPath == "" {
		cfg.Remote.CatalogManifestPath = "/api/cards/manifest"
	}
	if cfg.Remote.CatalogBlobPath == "" {
		cfg.Remote.CatalogBlobPath = "/api/cards/database"
	}
	if cfg.Remote.ImageManifestPath == "" {
		cfg.Remote.ImageManifestPath = "/api/images/manifest"
	}
	if cfg.Remote.ImageBlobPath == "" {
		cfg.Remote.ImageBlobPath = "/images"
	}
	if cfg.Remote.RequestTimeout <= 0 {
		cfg.Remote.RequestTimeout = 5 * time.Minute
	}
	if cfg.Sync.Workers <= 0 {
		cfg.Sync.Workers = 6
	}
	if cfg.Sync.RetryAttempts <= 0 {
		cfg.Sync.RetryAttempts = 3
	}
}

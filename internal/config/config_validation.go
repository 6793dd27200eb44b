package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate checks that the final merged and defaulted [StructuredConfig]
// satisfies all invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error
// (wrapped with detail) otherwise.
func (cfg *StructuredConfig) validate() error {
	u, err := url.Parse(cfg.Remote.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q must include scheme and host", ErrInvalidRemoteConfigs, cfg.Remote.BaseURL)
	}

	for _, p := range []string{
		cfg.Remote.CatalogManifestPath,
		cfg.Remote.CatalogBlobPath,
		cfg.Remote.ImageManifestPath,
		cfg.Remote.ImageBlobPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: endpoint path %q must start with /", ErrInvalidRemoteConfigs, p)
		}
	}

	if cfg.Storage.DatabasePath == "" || strings.Contains(cfg.Storage.DatabasePath, "memory") {
		return fmt.Errorf("%w: database path must name a file", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.ImagesDir == "" {
		return fmt.Errorf("%w: images dir must be set", ErrInvalidStorageConfigs)
	}

	if cfg.Sync.Workers < 1 || cfg.Sync.RetryAttempts < 1 {
		return fmt.Errorf("%w: workers and retry attempts must be positive", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.AutoSyncInterval < 0 {
		return fmt.Errorf("%w: auto-sync interval must not be negative", ErrInvalidSyncConfigs)
	}

	return nil
}

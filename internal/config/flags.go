package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-base-url remote catalog base URL (scheme://host)
//	-d local SQLite database path
//	-images local image directory root
//	-c/-config json file path with configs
//	-workers image download worker count
//	-retry-attempts per-asset download attempts
//	-request-timeout per-request timeout (e.g., "30s", "5m")
//	-auto-sync background sync interval (0 disables)
//	-check-on-startup run a status check before syncing
func ParseFlags() *StructuredConfig {
	var baseURL string
	var databasePath string
	var imagesDir string
	var jsonConfigPath string
	var workers int
	var retryAttempts int
	var requestTimeout time.Duration
	var autoSyncInterval time.Duration
	var checkOnStartup bool

	flag.StringVar(&baseURL, "base-url", "", "Remote catalog base URL")
	flag.StringVar(&databasePath, "d", "", "Local SQLite database path")
	flag.StringVar(&imagesDir, "images", "", "Local image directory root")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&workers, "workers", 0, "Image download worker count")
	flag.IntVar(&retryAttempts, "retry-attempts", 0, "Per-asset download attempts")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 5m)")
	flag.DurationVar(&autoSyncInterval, "auto-sync", 0, "Background sync interval (0 disables)")
	flag.BoolVar(&checkOnStartup, "check-on-startup", false, "Run a status check before syncing")

	flag.Parse()

	return &StructuredConfig{
		Remote: Remote{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DatabasePath: databasePath,
			ImagesDir:    imagesDir,
		},
		Sync: Sync{
			Workers:          workers,
			RetryAttempts:    retryAttempts,
			CheckOnStartup:   checkOnStartup,
			AutoSyncInterval: autoSyncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

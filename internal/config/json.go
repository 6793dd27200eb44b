package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for the optional config file.
type StructuredJSONConfig struct {
	Remote struct {
		BaseURL             string   `json:"base_url"`
		CatalogManifestPath string   `json:"catalog_manifest_path"`
		CatalogBlobPath     string   `json:"catalog_blob_path"`
		ImageManifestPath   string   `json:"image_manifest_path"`
		ImageBlobPath       string   `json:"image_blob_path"`
		RequestTimeout      Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		DatabasePath string `json:"database_path"`
		ImagesDir    string `json:"images_dir"`
	} `json:"storage,omitempty"`

	Sync struct {
		Workers          int      `json:"workers"`
		RetryAttempts    int      `json:"retry_attempts"`
		CheckOnStartup   bool     `json:"check_on_startup"`
		AutoSyncInterval Duration `json:"auto_sync_interval"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Remote: Remote{
			BaseURL:             jsonCfg.Remote.BaseURL,
			CatalogManifestPath: jsonCfg.Remote.CatalogManifestPath,
			CatalogBlobPath:     jsonCfg.Remote.CatalogBlobPath,
			ImageManifestPath:   jsonCfg.Remote.ImageManifestPath,
			ImageBlobPath:       jsonCfg.Remote.ImageBlobPath,
			RequestTimeout:      time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Storage: Storage{
			DatabasePath: jsonCfg.Storage.DatabasePath,
			ImagesDir:    jsonCfg.Storage.ImagesDir,
		},
		Sync: Sync{
			Workers:          jsonCfg.Sync.Workers,
			RetryAttempts:    jsonCfg.Sync.RetryAttempts,
			CheckOnStartup:   jsonCfg.Sync.CheckOnStartup,
			AutoSyncInterval: time.Duration(jsonCfg.Sync.AutoSyncInterval),
		},
	}

	return cfg, nil
}

// Duration accepts either a JSON number of nanoseconds or a Go duration
// string (e.g. "30s").
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

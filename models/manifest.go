package models

import "time"

// CatalogManifest describes the latest catalog snapshot available on the
// server. It is immutable and fetched fresh on every check.
type CatalogManifest struct {
	// Version is the monotonically increasing catalog version number.
	Version int64 `json:"version"`

	// Filename is the name of the snapshot blob to download.
	Filename string `json:"filename"`

	// SizeBytes is the exact size of the snapshot blob. A downloaded blob
	// whose byte count differs is rejected before any local mutation.
	SizeBytes int64 `json:"size_bytes"`

	// Generated is the server-side generation timestamp, passed through
	// as sent (RFC 3339).
	Generated string `json:"generated"`
}

// ImageEntry is a single asset in the remote image manifest.
type ImageEntry struct {
	// Hash is the hex-encoded SHA-256 digest of the image content.
	Hash string `json:"hash"`

	// Path is the download path relative to the image blob endpoint.
	Path string `json:"path"`
}

// ImageManifest is the full remote image manifest: a map of asset id to
// the hash and path of its current content.
type ImageManifest struct {
	Version    int64                 `json:"version"`
	Generated  string                `json:"generated"`
	ImageCount int                   `json:"image_count"`
	Images     map[string]ImageEntry `json:"images"`
}

// LocalImageEntry records the hash of an asset as last written to local
// storage. The set of entries is the local image manifest; it is the
// source of truth for which assets need re-downloading.
type LocalImageEntry struct {
	AssetID  string
	Hash     string
	SyncedAt time.Time
}

// CatalogState is the single source of truth for which catalog version is
// installed locally. It is mutated only as the last step of a successful
// swap, inside the same transaction as the row replacement, so the version
// number and the row contents can never disagree.
type CatalogState struct {
	CurrentVersion int64
	LastSyncedAt   time.Time
}

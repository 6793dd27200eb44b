package models

// SyncPhase identifies the step of a sync run a progress event belongs to.
type SyncPhase string

const (
	PhaseChecking           SyncPhase = "checking"
	PhaseDownloadingCatalog SyncPhase = "downloading_catalog"
	PhaseSwapping           SyncPhase = "swapping"
	PhaseCheckingImages     SyncPhase = "checking_images"
	PhaseDownloadingImages  SyncPhase = "downloading_images"
	PhaseDone               SyncPhase = "done"
	PhaseFailed             SyncPhase = "failed"
)

// SyncProgress is a transient progress event delivered to the caller's
// progress sink during a sync run. It is never persisted.
type SyncProgress struct {
	Phase     SyncPhase `json:"phase"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Message   string    `json:"message"`
}

// ProgressFunc receives progress events during a sync run. A nil
// ProgressFunc is always valid and means the caller does not care.
type ProgressFunc func(SyncProgress)

// SyncResult summarizes a completed sync run.
type SyncResult struct {
	// NewVersion is the installed catalog version after the run.
	NewVersion int64 `json:"new_version"`

	// CatalogUpdated reports whether a swap was performed. False means the
	// local catalog was already at the remote version.
	CatalogUpdated bool `json:"catalog_updated"`

	// Image counters for the reconciliation pass.
	ImagesDownloaded int `json:"images_downloaded"`
	ImagesSkipped    int `json:"images_skipped"`
	ImagesFailed     int `json:"images_failed"`

	// FailedAssets lists the asset ids that exhausted their retry budget.
	FailedAssets []string `json:"failed_assets,omitempty"`
}

// SyncStatus reports what a sync run would do, without downloading
// anything beyond the two manifests.
type SyncStatus struct {
	// CatalogStale is true when the remote catalog version is greater
	// than the locally installed one.
	CatalogStale bool `json:"catalog_stale"`

	// RemoteVersion and LocalVersion are the compared catalog versions.
	RemoteVersion int64 `json:"remote_version"`
	LocalVersion  int64 `json:"local_version"`

	// ImagesNeeded is the number of assets that are missing locally or
	// whose local hash differs from the remote manifest.
	ImagesNeeded int `json:"images_needed"`

	// ImagesTotal is the total asset count in the remote manifest.
	ImagesTotal int `json:"images_total"`
}

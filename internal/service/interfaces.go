package service

import (
	"context"

	"github.com/getdiced/cardmirror/internal/images"
	"github.com/getdiced/cardmirror/models"
)

// SyncService orchestrates a full catalog sync: version check, snapshot
// download and swap, then image reconciliation.
type SyncService interface {
	// Sync runs the full pipeline. Only one run may be active at a time;
	// a second concurrent call returns ErrSyncInProgress. A run against an
	// already-current catalog is a cheap no-op for the catalog phase and
	// still reconciles images.
	Sync(ctx context.Context, opts SyncOptions) (models.SyncResult, error)

	// Status reports what Sync would do, fetching only the two manifests.
	Status(ctx context.Context) (models.SyncStatus, error)
}

// SyncOptions tunes a single sync run.
type SyncOptions struct {
	// Force reinstalls the catalog snapshot even when the remote version
	// is not newer than the local one.
	Force bool

	// Progress, when non-nil, receives phase and per-asset progress
	// events for the duration of the run.
	Progress models.ProgressFunc
}

// ImageReconciler is the slice of the image reconciler the orchestrator
// needs. Satisfied by *images.Reconciler.
type ImageReconciler interface {
	Plan(ctx context.Context, remoteManifest models.ImageManifest) ([]string, error)
	Reconcile(ctx context.Context, remoteManifest models.ImageManifest, progress models.ProgressFunc) (images.Result, error)
}

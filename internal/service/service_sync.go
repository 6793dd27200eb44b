// Package service contains the sync orchestrator: the state machine that
// drives a catalog check, an atomic snapshot swap, and an image
// reconciliation pass as one run with progress reporting.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/internal/remote"
	"github.com/getdiced/cardmirror/internal/store"
	"github.com/getdiced/cardmirror/models"
)

type syncService struct {
	remote     remote.Client
	state      store.CatalogStateRepository
	swap       store.SwapEngine
	reconciler ImageReconciler
	logger     *logger.Logger

	// single-flight guard; held for the whole run
	mu sync.Mutex
}

// NewSyncService wires the orchestrator from its collaborators.
func NewSyncService(client remote.Client, state store.CatalogStateRepository, swap store.SwapEngine, reconciler ImageReconciler, logger *logger.Logger) SyncService {
	return &syncService{
		remote:     client,
		state:      state,
		swap:       swap,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (s *syncService) Sync(ctx context.Context, opts SyncOptions) (models.SyncResult, error) {
	if !s.mu.TryLock() {
		return models.SyncResult{}, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	result, err := s.run(ctx, opts)
	if err != nil {
		emit(opts.Progress, models.SyncProgress{Phase: models.PhaseFailed, Message: err.Error()})
		return result, err
	}

	emit(opts.Progress, models.SyncProgress{Phase: models.PhaseDone})
	return result, nil
}

func (s *syncService) run(ctx context.Context, opts SyncOptions) (models.SyncResult, error) {
	log := s.logger.With().Str("func", "syncService.run").Logger()

	emit(opts.Progress, models.SyncProgress{Phase: models.PhaseChecking})

	manifest, err := s.remote.FetchCatalogManifest(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("failed to fetch catalog manifest: %w", err)
	}

	state, err := s.state.CatalogState(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("failed to read local catalog state: %w", err)
	}

	result := models.SyncResult{NewVersion: state.CurrentVersion}

	if manifest.Version > state.CurrentVersion || opts.Force {
		newState, swapErr := s.installCatalog(ctx, manifest, opts)
		if swapErr != nil {
			return models.SyncResult{}, swapErr
		}
		result.NewVersion = newState.CurrentVersion
		result.CatalogUpdated = true
	} else {
		log.Info().
			Int64("version", state.CurrentVersion).
			Msg("catalog already current, skipping swap")
	}

	emit(opts.Progress, models.SyncProgress{Phase: models.PhaseCheckingImages})

	imageManifest, err := s.remote.FetchImageManifest(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch image manifest: %w", err)
	}

	images, err := s.reconciler.Reconcile(ctx, imageManifest, opts.Progress)
	if err != nil {
		return result, fmt.Errorf("image reconciliation failed: %w", err)
	}

	result.ImagesDownloaded = images.Downloaded
	result.ImagesSkipped = images.Skipped
	result.ImagesFailed = images.Failed
	result.FailedAssets = images.FailedAssets

	log.Info().
		Int64("version", result.NewVersion).
		Bool("catalog_updated", result.CatalogUpdated).
		Int("images_downloaded", result.ImagesDownloaded).
		Int("images_failed", result.ImagesFailed).
		Msg("sync run finished")

	return result, nil
}

func (s *syncService) installCatalog(ctx context.Context, manifest models.CatalogManifest, opts SyncOptions) (models.CatalogState, error) {
	emit(opts.Progress, models.SyncProgress{
		Phase:   models.PhaseDownloadingCatalog,
		Message: manifest.Filename,
	})

	blob, err := s.remote.FetchCatalogBlob(ctx, manifest)
	if err != nil {
		return models.CatalogState{}, fmt.Errorf("failed to download catalog snapshot: %w", err)
	}

	emit(opts.Progress, models.SyncProgress{Phase: models.PhaseSwapping})

	state, err := s.swap.Swap(ctx, manifest, blob, store.SwapOptions{Force: opts.Force})
	if err != nil {
		return models.CatalogState{}, fmt.Errorf("failed to install catalog snapshot: %w", err)
	}

	return state, nil
}

func (s *syncService) Status(ctx context.Context) (models.SyncStatus, error) {
	manifest, err := s.remote.FetchCatalogManifest(ctx)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("failed to fetch catalog manifest: %w", err)
	}

	state, err := s.state.CatalogState(ctx)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("failed to read local catalog state: %w", err)
	}

	imageManifest, err := s.remote.FetchImageManifest(ctx)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("failed to fetch image manifest: %w", err)
	}

	need, err := s.reconciler.Plan(ctx, imageManifest)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("failed to plan image reconciliation: %w", err)
	}

	return models.SyncStatus{
		CatalogStale:  manifest.Version > state.CurrentVersion,
		RemoteVersion: manifest.Version,
		LocalVersion:  state.CurrentVersion,
		ImagesNeeded:  len(need),
		ImagesTotal:   len(imageManifest.Images),
	}, nil
}

func emit(progress models.ProgressFunc, event models.SyncProgress) {
	if progress != nil {
		progress(event)
	}
}

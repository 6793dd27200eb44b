// Package images reconciles the local image store against the remote
// image manifest. Assets are content-addressed: the remote manifest maps
// asset id to the SHA-256 of its current content, and the local manifest
// records the hash of every asset as last written to disk. Reconciliation
// downloads exactly the difference.
package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/getdiced/cardmirror/internal/config"
	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/internal/remote"
	"github.com/getdiced/cardmirror/internal/store"
	"github.com/getdiced/cardmirror/internal/utils"
	"github.com/getdiced/cardmirror/models"
)

// retryBaseDelay is the first backoff step for a failed asset fetch; each
// subsequent attempt doubles it.
const retryBaseDelay = 500 * time.Millisecond

// Result summarizes one reconciliation pass. Failed assets are reported,
// not fatal: a handful of unreachable images must not block the rest of
// the catalog from syncing.
type Result struct {
	Downloaded   int
	Skipped      int
	Failed       int
	FailedAssets []string
}

// Reconciler brings the local image store up to date with a remote image
// manifest using a bounded pool of download workers.
type Reconciler struct {
	client        remote.Client
	manifest      store.ImageManifestRepository
	imagesDir     string
	workers       int
	retryAttempts int
	logger        *logger.Logger
}

// NewReconciler constructs a reconciler writing into storage.ImagesDir,
// tuned by the sync settings.
func NewReconciler(client remote.Client, manifest store.ImageManifestRepository, storage config.Storage, syncCfg config.Sync, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		client:        client,
		manifest:      manifest,
		imagesDir:     storage.ImagesDir,
		workers:       syncCfg.Workers,
		retryAttempts: syncCfg.RetryAttempts,
		logger:        logger,
	}
}

// ImagePath resolves the local storage path of an asset and reports
// whether its file is present on disk. Display code uses it to decide
// between showing the asset and a placeholder.
func (r *Reconciler) ImagePath(assetID string) (string, bool) {
	path := AssetPath(r.imagesDir, assetID)
	_, err := os.Stat(path)
	return path, err == nil
}

// Plan returns the ids of assets that need downloading: assets absent from
// the local manifest, assets whose recorded hash differs from the remote
// one, and assets whose file has gone missing from disk despite a manifest
// entry. The result is sorted for deterministic runs.
func (r *Reconciler) Plan(ctx context.Context, remoteManifest models.ImageManifest) ([]string, error) {
	local, err := r.manifest.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local image manifest: %w", err)
	}

	var need []string
	for assetID, entry := range remoteManifest.Images {
		localEntry, ok := local[assetID]
		if !ok || localEntry.Hash != entry.Hash {
			need = append(need, assetID)
			continue
		}
		if _, statErr := os.Stat(AssetPath(r.imagesDir, assetID)); statErr != nil {
			need = append(need, assetID)
		}
	}

	sort.Strings(need)
	return need, nil
}

// Reconcile downloads every asset Plan reports as needed, verifying each
// blob's digest before writing it, and records each success in the local
// manifest immediately so an interrupted run resumes where it stopped.
// Per-asset failures are collected into the result; only context
// cancellation and manifest access errors abort the pass.
func (r *Reconciler) Reconcile(ctx context.Context, remoteManifest models.ImageManifest, progress models.ProgressFunc) (Result, error) {
	need, err := r.Plan(ctx, remoteManifest)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Skipped: len(remoteManifest.Images) - len(need),
	}
	if len(need) == 0 {
		return result, nil
	}

	r.logger.Info().
		Int("needed", len(need)).
		Int("total", len(remoteManifest.Images)).
		Int("workers", r.workers).
		Msg("starting image reconciliation")

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, assetID := range need {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			fetchErr := r.fetchAsset(gctx, assetID, remoteManifest.Images[assetID])

			mu.Lock()
			completed++
			done := completed
			if fetchErr != nil {
				result.Failed++
				result.FailedAssets = append(result.FailedAssets, assetID)
			} else {
				result.Downloaded++
			}
			mu.Unlock()

			if fetchErr != nil {
				r.logger.Err(fetchErr).
					Str("func", "Reconciler.Reconcile").
					Str("asset_id", assetID).
					Msg("asset download failed")
			}

			if progress != nil {
				progress(models.SyncProgress{
					Phase:     models.PhaseDownloadingImages,
					Completed: done,
					Total:     len(need),
					Message:   assetID,
				})
			}

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return result, fmt.Errorf("image reconciliation aborted: %w", err)
	}

	sort.Strings(result.FailedAssets)
	return result, nil
}

// fetchAsset downloads, verifies and stores a single asset, retrying
// transient failures with exponential backoff up to the configured budget.
// A hash mismatch is treated as retryable because a corrupted transfer can
// succeed on the next attempt.
func (r *Reconciler) fetchAsset(ctx context.Context, assetID string, entry models.ImageEntry) error {
	backoff := retry.WithMaxRetries(uint64(r.retryAttempts-1), retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		blob, err := r.client.FetchImageBlob(ctx, entry.Path)
		if err != nil {
			if errors.Is(err, remote.ErrNetwork) {
				return retry.RetryableError(err)
			}
			return err
		}

		if !utils.VerifyDigest(blob, entry.Hash) {
			return retry.RetryableError(&HashMismatchError{
				AssetID: assetID,
				Want:    entry.Hash,
				Got:     utils.Digest(blob),
			})
		}

		if err = r.writeAsset(assetID, blob); err != nil {
			return err
		}

		// recorded only after the bytes are on disk; the order is what
		// makes an interrupted run safe to resume
		if err = r.manifest.Upsert(ctx, models.LocalImageEntry{
			AssetID: assetID,
			Hash:    entry.Hash,
		}); err != nil {
			return err
		}

		return nil
	})
}

func (r *Reconciler) writeAsset(assetID string, blob []byte) error {
	path := AssetPath(r.imagesDir, assetID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create asset shard directory: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write asset %s: %w", assetID, err)
	}
	return nil
}

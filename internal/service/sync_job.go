package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
)

// SyncJob runs background catalog syncs on a fixed schedule.
type SyncJob interface {
	// Start launches the background loop. Stops any previously running
	// loop first. If interval is zero or negative it defaults to one hour.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the loop and blocks until it has exited. Safe to call
	// when the job is not running.
	Stop()
}

type syncJob struct {
	syncService SyncService
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that calls syncService.Sync on a ticker.
// The job is idle until Start is called.
func NewSyncJob(syncService SyncService, logger *logger.Logger) SyncJob {
	return &syncJob{
		syncService: syncService,
		logger:      logger,
	}
}

func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runOnce(jobCtx)
			}
		}
	}()
}

func (j *syncJob) runOnce(ctx context.Context) {
	result, err := j.syncService.Sync(ctx, SyncOptions{})
	if err != nil {
		// a manually started run holding the lock is not a failure
		if errors.Is(err, ErrSyncInProgress) {
			return
		}
		j.logger.Err(err).Str("func", "syncJob.runOnce").Msg("scheduled sync failed")
		return
	}

	j.logger.Info().
		Int64("version", result.NewVersion).
		Bool("catalog_updated", result.CatalogUpdated).
		Int("images_downloaded", result.ImagesDownloaded).
		Msg("scheduled sync finished")
}

func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

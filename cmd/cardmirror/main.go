package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/getdiced/cardmirror/internal/config"
	"github.com/getdiced/cardmirror/internal/images"
	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/internal/remote"
	"github.com/getdiced/cardmirror/internal/service"
	"github.com/getdiced/cardmirror/internal/store"
	"github.com/getdiced/cardmirror/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cardmirror")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening local database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating local database")
	}

	client, err := remote.NewHTTPCatalogClient(cfg.Remote, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating catalog client")
	}

	stateRepo := store.NewCatalogStateRepository(db, log)
	manifestRepo := store.NewImageManifestRepository(db, log)
	swapEngine := store.NewSwapEngine(db, "", log)
	reconciler := images.NewReconciler(client, manifestRepo, cfg.Storage, cfg.Sync, log)

	syncService := service.NewSyncService(client, stateRepo, swapEngine, reconciler, log)

	if cfg.Sync.CheckOnStartup {
		status, statusErr := syncService.Status(ctx)
		if statusErr != nil {
			log.Fatal().Err(statusErr).Msg("error checking sync status")
		}
		log.Info().
			Bool("catalog_stale", status.CatalogStale).
			Int64("remote_version", status.RemoteVersion).
			Int64("local_version", status.LocalVersion).
			Int("images_needed", status.ImagesNeeded).
			Int("images_total", status.ImagesTotal).
			Msg("sync status")
	}

	result, err := syncService.Sync(ctx, service.SyncOptions{Progress: logProgress(log)})
	if err != nil {
		log.Fatal().Err(err).Msg("sync failed")
	}

	log.Info().
		Int64("version", result.NewVersion).
		Bool("catalog_updated", result.CatalogUpdated).
		Int("images_downloaded", result.ImagesDownloaded).
		Int("images_skipped", result.ImagesSkipped).
		Int("images_failed", result.ImagesFailed).
		Strs("failed_assets", result.FailedAssets).
		Msg("sync finished")

	if cfg.Sync.AutoSyncInterval > 0 {
		job := service.NewSyncJob(syncService, log)
		job.Start(ctx, cfg.Sync.AutoSyncInterval)
		defer job.Stop()

		log.Info().Dur("interval", cfg.Sync.AutoSyncInterval).Msg("auto-sync enabled, waiting")
		<-ctx.Done()
	}
}

// logProgress turns progress events into log lines. Per-asset events are
// demoted to debug so a full image sync does not flood the output.
func logProgress(log *logger.Logger) models.ProgressFunc {
	return func(p models.SyncProgress) {
		event := log.Info()
		if p.Phase == models.PhaseDownloadingImages {
			event = log.Debug()
		}

		event.
			Str("phase", string(p.Phase)).
			Int("completed", p.Completed).
			Int("total", p.Total).
			Str("message", p.Message).
			Msg("sync progress")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

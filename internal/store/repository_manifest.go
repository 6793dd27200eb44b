package store

import (
	"context"
	"fmt"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

type imageManifestRepository struct {
	*DB
	logger *logger.Logger
}

// NewImageManifestRepository constructs the local image manifest store on
// top of the user-owned image_manifest table.
//
// Each Upsert is a single autocommitted statement, which is what makes a
// multi-minute image sync resumable: a crash after N successful assets
// loses nothing, and the next reconciliation re-downloads only the rest.
func NewImageManifestRepository(db *DB, logger *logger.Logger) ImageManifestRepository {
	return &imageManifestRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *imageManifestRepository) LoadAll(ctx context.Context) (map[string]models.LocalImageEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getAllImageManifestEntries)
	if err != nil {
		log.Err(err).
			Str("func", "imageManifestRepository.LoadAll").
			Msg("failed to query local image manifest")
		return nil, fmt.Errorf("failed to query local image manifest: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]models.LocalImageEntry)
	for rows.Next() {
		var (
			entry    models.LocalImageEntry
			syncedAt int64
		)
		if scanErr := rows.Scan(&entry.AssetID, &entry.Hash, &syncedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "imageManifestRepository.LoadAll").
				Msg("failed to scan image manifest row")
			return nil, fmt.Errorf("failed to scan image manifest row: %w", scanErr)
		}
		entry.SyncedAt = time.Unix(syncedAt, 0).UTC()
		entries[entry.AssetID] = entry
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating image manifest rows: %w", rowsErr)
	}

	return entries, nil
}

func (r *imageManifestRepository) Upsert(ctx context.Context, entry models.LocalImageEntry) error {
	log := logger.FromContext(ctx)

	syncedAt := entry.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = time.Now()
	}

	_, err := r.DB.ExecContext(ctx, upsertImageManifestEntry, entry.AssetID, entry.Hash, syncedAt.Unix())
	if err != nil {
		log.Err(err).
			Str("func", "imageManifestRepository.Upsert").
			Str("asset_id", entry.AssetID).
			Msg("failed to upsert image manifest entry")
		return fmt.Errorf("failed to upsert image manifest entry %s: %w", entry.AssetID, err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

type catalogStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewCatalogStateRepository constructs the read side of the installed
// catalog version. Writing the state row happens exclusively inside the
// swap engine's transaction.
func NewCatalogStateRepository(db *DB, logger *logger.Logger) CatalogStateRepository {
	return &catalogStateRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *catalogStateRepository) CatalogState(ctx context.Context) (models.CatalogState, error) {
	log := logger.FromContext(ctx)

	var (
		version  int64
		syncedAt int64
	)
	err := r.DB.QueryRowContext(ctx, getCatalogState).Scan(&version, &syncedAt)
	if err != nil {
		// the migration seeds row id=1, so a missing row means a fresh
		// database created outside the migration path
		if errors.Is(err, sql.ErrNoRows) {
			return models.CatalogState{}, nil
		}
		log.Err(err).
			Str("func", "catalogStateRepository.CatalogState").
			Msg("failed to read catalog state")
		return models.CatalogState{}, fmt.Errorf("failed to read catalog state: %w", err)
	}

	return models.CatalogState{
		CurrentVersion: version,
		LastSyncedAt:   time.Unix(syncedAt, 0).UTC(),
	}, nil
}

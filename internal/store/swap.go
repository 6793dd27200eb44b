package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

const (
	attachSnapshot = `ATTACH DATABASE ? AS snapshot;`
	detachSnapshot = `DETACH DATABASE snapshot;`

	updateCatalogState = `UPDATE catalog_state SET current_version = ?, last_synced_at = ? WHERE id = 1;`
)

type swapEngine struct {
	db      *DB
	tempDir string
	logger  *logger.Logger
}

// NewSwapEngine constructs the catalog swap engine. tempDir is where
// downloaded snapshot blobs are staged before being attached; an empty
// string uses the system temp directory.
func NewSwapEngine(db *DB, tempDir string, logger *logger.Logger) SwapEngine {
	return &swapEngine{
		db:      db,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Swap implements [SwapEngine]. The blob is staged to a temp file,
// attached read-only as a secondary database, and copied into the primary
// store inside a single transaction on a single connection:
//
//	BEGIN;
//	DELETE FROM <catalog tables, child tables first>;
//	INSERT INTO <table> SELECT * FROM snapshot.<table>;  -- parents first
//	UPDATE catalog_state ...;
//	COMMIT;
//
// Any failure between BEGIN and COMMIT rolls the whole transaction back,
// leaving the previous catalog fully queryable. The temp snapshot file is
// removed regardless of outcome. SQLite guarantees the transaction is
// atomic even across a process crash, which is the only protection this
// step has — nothing here may issue an implicit commit mid-sequence.
func (e *swapEngine) Swap(ctx context.Context, manifest models.CatalogManifest, blob []byte, opts SwapOptions) (models.CatalogState, error) {
	if int64(len(blob)) != manifest.SizeBytes {
		return models.CatalogState{}, fmt.Errorf("%w: got %d bytes, manifest declares %d",
			ErrIncompleteDownload, len(blob), manifest.SizeBytes)
	}

	tmp, err := os.CreateTemp(e.tempDir, "cards_snapshot_*.db")
	if err != nil {
		return models.CatalogState{}, fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err = tmp.Write(blob); err != nil {
		tmp.Close()
		return models.CatalogState{}, fmt.Errorf("failed to write snapshot temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return models.CatalogState{}, fmt.Errorf("failed to close snapshot temp file: %w", err)
	}

	// ATTACH must live on the same connection as the transaction, so the
	// whole swap is pinned to one conn from the pool.
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return models.CatalogState{}, fmt.Errorf("%w: acquire connection: %v", ErrTransaction, err)
	}
	defer conn.Close()

	// Once the swap has a connection it runs to commit or rollback even
	// if the caller's context is cancelled; an abandoned mid-transaction
	// state must never exist.
	swapCtx := context.WithoutCancel(ctx)

	if _, err = conn.ExecContext(swapCtx, attachSnapshot, "file:"+tmpPath+"?mode=ro"); err != nil {
		return models.CatalogState{}, fmt.Errorf("%w: attach snapshot: %v", ErrTransaction, err)
	}
	defer func() {
		if _, detachErr := conn.ExecContext(swapCtx, detachSnapshot); detachErr != nil {
			e.logger.Err(detachErr).Str("func", "swapEngine.Swap").Msg("failed to detach snapshot database")
		}
	}()

	state, err := e.replaceWithinTx(swapCtx, conn, manifest, opts)
	if err != nil {
		return models.CatalogState{}, err
	}

	e.logger.Info().
		Int64("version", state.CurrentVersion).
		Msg("catalog swap committed")

	return state, nil
}

func (e *swapEngine) replaceWithinTx(ctx context.Context, conn *sql.Conn, manifest models.CatalogManifest, opts SwapOptions) (models.CatalogState, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return models.CatalogState{}, fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	state, err := e.replaceTables(ctx, tx, manifest, opts)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			e.logger.Err(rbErr).Str("func", "swapEngine.replaceWithinTx").Msg("rollback failed")
		}
		return models.CatalogState{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.CatalogState{}, fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	return state, nil
}

func (e *swapEngine) replaceTables(ctx context.Context, tx *sql.Tx, manifest models.CatalogManifest, opts SwapOptions) (models.CatalogState, error) {
	var (
		currentVersion int64
		lastSyncedAt   int64
	)
	err := tx.QueryRowContext(ctx, getCatalogState).Scan(&currentVersion, &lastSyncedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.CatalogState{}, fmt.Errorf("%w: read catalog state: %v", ErrTransaction, err)
	}

	if !opts.Force && manifest.Version <= currentVersion {
		return models.CatalogState{}, fmt.Errorf("%w: installed v%d, snapshot v%d",
			ErrVersionNotNewer, currentVersion, manifest.Version)
	}

	for _, table := range catalogTablesChildFirst {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
			return models.CatalogState{}, fmt.Errorf("%w: clear %s: %v", ErrTransaction, table, err)
		}
	}

	for _, table := range catalogTablesParentFirst {
		query := "INSERT INTO " + table + " SELECT * FROM snapshot." + table + ";"
		if _, err = tx.ExecContext(ctx, query); err != nil {
			return models.CatalogState{}, fmt.Errorf("%w: copy %s: %v", ErrTransaction, table, err)
		}
	}

	now := time.Now()
	if _, err = tx.ExecContext(ctx, updateCatalogState, manifest.Version, now.Unix()); err != nil {
		return models.CatalogState{}, fmt.Errorf("%w: update catalog state: %v", ErrTransaction, err)
	}

	return models.CatalogState{
		CurrentVersion: manifest.Version,
		LastSyncedAt:   now.UTC(),
	}, nil
}

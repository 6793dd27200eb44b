package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:     db,
		logger: logger.Nop(),
	}
}

func newTestSwapEngine(t *testing.T, db *sql.DB) SwapEngine {
	t.Helper()
	return NewSwapEngine(newDBFromSQL(db), t.TempDir(), logger.Nop())
}

func testManifest(version, size int64) models.CatalogManifest {
	return models.CatalogManifest{
		Version:   version,
		Filename:  "cards.db",
		SizeBytes: size,
		Generated: "2026-08-01T10:00:00Z",
	}
}

func expectStateRow(mock sqlmock.Sqlmock, version int64) {
	mock.ExpectQuery(regexp.QuoteMeta(getCatalogState)).
		WillReturnRows(sqlmock.NewRows([]string{"current_version", "last_synced_at"}).
			AddRow(version, time.Now().Unix()))
}

func expectAttach(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(attachSnapshot)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectDetach(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(detachSnapshot)).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectDeletes(mock sqlmock.Sqlmock) {
	for _, table := range catalogTablesChildFirst {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table + ";")).
			WillReturnResult(sqlmock.NewResult(0, 10))
	}
}

// TestSwap_SizeMismatch verifies that a truncated blob is rejected before
// any database interaction at all.
func TestSwap_SizeMismatch(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	_, err := engine.Swap(context.Background(), testManifest(5, 1000), []byte("short"), SwapOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteDownload)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL should have been issued")
}

// TestSwap_Success verifies the full happy path: attach, transactional
// delete-and-copy in dependency order, state update, commit, detach.
func TestSwap_Success(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	blob := []byte("sqlite snapshot v5")
	manifest := testManifest(5, int64(len(blob)))

	expectAttach(mock)
	mock.ExpectBegin()
	expectStateRow(mock, 4)
	expectDeletes(mock)
	for _, table := range catalogTablesParentFirst {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO " + table + " SELECT * FROM snapshot." + table + ";")).
			WillReturnResult(sqlmock.NewResult(0, 25))
	}
	mock.ExpectExec(regexp.QuoteMeta(updateCatalogState)).
		WithArgs(manifest.Version, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectDetach(mock)

	state, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), state.CurrentVersion)
	assert.False(t, state.LastSyncedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSwap_VersionNotNewer verifies the monotonicity guard: a snapshot at
// or below the installed version rolls back without touching any table.
func TestSwap_VersionNotNewer(t *testing.T) {
	tests := []struct {
		name      string
		installed int64
		snapshot  int64
	}{
		{name: "equal version", installed: 5, snapshot: 5},
		{name: "older version", installed: 5, snapshot: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			engine := newTestSwapEngine(t, db)

			blob := []byte("stale snapshot")
			manifest := testManifest(tt.snapshot, int64(len(blob)))

			expectAttach(mock)
			mock.ExpectBegin()
			expectStateRow(mock, tt.installed)
			mock.ExpectRollback()
			expectDetach(mock)

			_, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrVersionNotNewer)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// TestSwap_ForceAllowsSameVersion verifies that the explicit override path
// permits reinstalling the currently installed version.
func TestSwap_ForceAllowsSameVersion(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	blob := []byte("forced snapshot")
	manifest := testManifest(5, int64(len(blob)))

	expectAttach(mock)
	mock.ExpectBegin()
	expectStateRow(mock, 5)
	expectDeletes(mock)
	for _, table := range catalogTablesParentFirst {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO " + table + " SELECT * FROM snapshot." + table + ";")).
			WillReturnResult(sqlmock.NewResult(0, 25))
	}
	mock.ExpectExec(regexp.QuoteMeta(updateCatalogState)).
		WithArgs(manifest.Version, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectDetach(mock)

	state, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5), state.CurrentVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSwap_CopyFailureRollsBack injects a failure after the delete step but
// before the bulk copy completes, and verifies the transaction rolls back
// so the previous catalog remains intact.
func TestSwap_CopyFailureRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	blob := []byte("snapshot with bad rows")
	manifest := testManifest(6, int64(len(blob)))

	expectAttach(mock)
	mock.ExpectBegin()
	expectStateRow(mock, 5)
	expectDeletes(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cards SELECT * FROM snapshot.cards;")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()
	expectDetach(mock)

	_, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSwap_StateUpdateFailureRollsBack verifies that a failure on the very
// last statement before commit still rolls back the whole swap.
func TestSwap_StateUpdateFailureRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	blob := []byte("snapshot")
	manifest := testManifest(6, int64(len(blob)))

	expectAttach(mock)
	mock.ExpectBegin()
	expectStateRow(mock, 5)
	expectDeletes(mock)
	for _, table := range catalogTablesParentFirst {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO " + table + " SELECT * FROM snapshot." + table + ";")).
			WillReturnResult(sqlmock.NewResult(0, 25))
	}
	mock.ExpectExec(regexp.QuoteMeta(updateCatalogState)).
		WithArgs(manifest.Version, sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()
	expectDetach(mock)

	_, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSwap_AttachFailure verifies that a failed attach aborts before any
// transaction is opened.
func TestSwap_AttachFailure(t *testing.T) {
	db, mock := newTestDB(t)
	engine := newTestSwapEngine(t, db)

	blob := []byte("snapshot")
	manifest := testManifest(6, int64(len(blob)))

	mock.ExpectExec(regexp.QuoteMeta(attachSnapshot)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)

	_, err := engine.Swap(context.Background(), manifest, blob, SwapOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

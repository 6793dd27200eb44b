package store

import (
	"database/sql"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/migrations"
)

// DB wraps the raw connection pool shared by every repository and the swap
// engine.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

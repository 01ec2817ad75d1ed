// Package catalog keeps a SQLite record of persisted runs together with
// their analysis scalars, so sweeps and single runs can be compared later
// without reloading every grid.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    stickiness REAL NOT NULL,
    size INTEGER NOT NULL,
    particles INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    occupied INTEGER NOT NULL,

    -- Analysis
    crop_density REAL,
    circle_density REAL,
    neighbor_strength REAL,
    max_radius REAL,

    elapsed_ms INTEGER NOT NULL DEFAULT 0,
    npy_path TEXT,
    png_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_stickiness ON runs(stickiness);
`

// InitSchema creates the tables on a fresh database and leaves an existing
// one untouched.
func InitSchema(ctx context.Context, db *sql.DB) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}
	if version > SchemaVersion {
		return fmt.Errorf("catalog schema version %d is newer than supported version %d", version, SchemaVersion)
	}
	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}

package sqlstore

import (
	"context"
	"database/sql"
)

// connectionPoolSize bounds the number of concurrent store operations; the
// store is the sole arbiter of consistency, so this is the only concurrency
// limit the coordinator needs.
const connectionPoolSize = 5

// Open opens a pooled handle to the shared relational store. The driver and
// DSN come from configuration; tests and the default setup use sqlite3.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(connectionPoolSize)
	return db, nil
}

const setupSQL = `
CREATE TABLE IF NOT EXISTS nodes
(
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT      NOT NULL UNIQUE,
    host           TEXT      NOT NULL,
    port           INTEGER   NOT NULL,
    state          TEXT      NOT NULL DEFAULT 'active',
    last_heartbeat TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS jobs
(
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    job_uuid         TEXT      NOT NULL UNIQUE,
    image_name       TEXT      NOT NULL,
    image_size       INTEGER   NOT NULL,
    transformations  TEXT      NOT NULL,
    parameters       TEXT,
    assigned_node_id INTEGER,
    batch_id         TEXT,
    state            TEXT      NOT NULL DEFAULT 'pending',
    result_path      TEXT,
    error_message    TEXT,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL,
    processed_at     TIMESTAMP,
    FOREIGN KEY (assigned_node_id)
        REFERENCES nodes (id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_batch_id ON jobs (batch_id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, setupSQL)
	return err
}

package catalog

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the catalog tables. Timestamps are Unix nanoseconds so both
// drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    subpath TEXT NOT NULL,
    game TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    files INTEGER NOT NULL,
    entries INTEGER NOT NULL,
    failures INTEGER NOT NULL,
    collisions INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
    run_id TEXT NOT NULL,
    stem TEXT NOT NULL,
    path TEXT NOT NULL,
    status TEXT NOT NULL,
    pairs INTEGER NOT NULL,
    bytes INTEGER NOT NULL,
    checksum TEXT,
    error TEXT
);

CREATE TABLE IF NOT EXISTS pairs (
    run_id TEXT NOT NULL,
    stem TEXT NOT NULL,
    position INTEGER NOT NULL,
    identifier TEXT NOT NULL,
    sign TEXT NOT NULL,
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    line INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS unknown_fields (
    run_id TEXT NOT NULL,
    stem TEXT NOT NULL,
    record TEXT NOT NULL,
    identifier TEXT NOT NULL,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id);
CREATE INDEX IF NOT EXISTS idx_pairs_run_stem ON pairs(run_id, stem);
CREATE INDEX IF NOT EXISTS idx_pairs_identifier ON pairs(identifier);
CREATE INDEX IF NOT EXISTS idx_unknown_run_id ON unknown_fields(run_id);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the newest schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

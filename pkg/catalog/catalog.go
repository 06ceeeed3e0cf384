package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver
	_ "modernc.org/sqlite"          // "sqlite" driver

	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/telemetry/metrics"
)

// Catalog is a SQLite-backed store of aggregation runs. It is safe for
// concurrent use.
type Catalog struct {
	db      *sql.DB
	driver  string
	config  *config.CatalogConfig
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Open opens or creates the catalog database and verifies its schema.
// A nil collector disables catalog metrics.
func Open(cfg *config.CatalogConfig, collector *metrics.Collector, logger *slog.Logger) (*Catalog, error) {
	if cfg == nil {
		cfg = &config.Default().Catalog
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")

	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultCatalogDriver
	}

	memory := cfg.Path == ":memory:"
	if !memory {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &StorageError{Driver: driver, Operation: "create_directory", Cause: err}
			}
		}
	}

	db, err := sql.Open(driver, dsn(driver, cfg))
	if err != nil {
		return nil, &StorageError{Driver: driver, Operation: "open", Cause: err}
	}

	// Every connection to ":memory:" is a separate database.
	if memory || cfg.MaxOpenConns <= 0 {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(0)

	c := &Catalog{
		db:      db,
		driver:  driver,
		config:  cfg,
		metrics: collector,
		logger:  logger,
	}

	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Catalog opened",
		"driver", driver,
		"path", cfg.Path,
		"wal_mode", cfg.WALMode && !memory,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return c, nil
}

// dsn builds a data source name carrying the connection pragmas, so they
// apply to every pooled connection.
func dsn(driver string, cfg *config.CatalogConfig) string {
	busy := cfg.BusyTimeout.Milliseconds()
	wal := cfg.WALMode && cfg.Path != ":memory:"

	var params []string
	switch driver {
	case "sqlite3":
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busy))
		if wal {
			params = append(params, "_journal_mode=WAL", "_synchronous=NORMAL")
		}
	default:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", busy))
		if wal {
			params = append(params, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
		}
	}
	return cfg.Path + "?" + strings.Join(params, "&")
}

// initialize creates the schema and checks its version.
func (c *Catalog) initialize() error {
	driver := c.driver
	if _, err := c.db.Exec(Schema); err != nil {
		return &StorageError{Driver: driver, Operation: "create_schema", Cause: err}
	}
	if _, err := c.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return &StorageError{Driver: driver, Operation: "insert_schema_version", Cause: err}
	}

	var version int
	err := c.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return &StorageError{Driver: driver, Operation: "get_schema_version", Cause: err}
	}
	if version != SchemaVersion {
		return &StorageError{Driver: driver, Operation: "schema_version_mismatch",
			Cause: fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version)}
	}

	c.logger.Debug("Schema version verified", "version", version)
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SaveRun writes a snapshot in a single transaction.
func (c *Catalog) SaveRun(ctx context.Context, snap *Snapshot) (err error) {
	if snap == nil || snap.Run.ID == "" {
		return c.storageError("save_run", errors.New("snapshot has no run id"))
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return c.storageError("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	r := snap.Run
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, subpath, game, started_at, duration_ms, files, entries, failures, collisions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Root, r.Subpath, r.Game, r.StartedAt.UnixNano(), r.Duration.Milliseconds(),
		r.Files, r.Entries, r.Failures, r.Collisions,
	)
	if err != nil {
		return c.storageError("insert_run", err)
	}

	fileStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files (run_id, stem, path, status, pairs, bytes, checksum, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return c.storageError("prepare_files", err)
	}
	defer fileStmt.Close()

	for _, f := range snap.Files {
		if _, err = fileStmt.ExecContext(ctx, r.ID, f.Stem, f.Path, string(f.Status), f.Pairs, f.Bytes,
			nullString(f.Checksum), nullString(f.Error())); err != nil {
			return c.storageError("insert_file", err)
		}
	}

	pairStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pairs (run_id, stem, position, identifier, sign, kind, value, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return c.storageError("prepare_pairs", err)
	}
	defer pairStmt.Close()

	stems := make([]string, 0, len(snap.Entries))
	for stem := range snap.Entries {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	pairs := 0
	for _, stem := range stems {
		for i, p := range snap.Entries[stem] {
			kind, value := "", ""
			if p.Value != nil {
				kind, value = string(p.Value.Kind()), p.Value.String()
			}
			if _, err = pairStmt.ExecContext(ctx, r.ID, stem, i, p.Identifier, p.Sign, kind, value,
				p.Location.Line); err != nil {
				return c.storageError("insert_pair", err)
			}
			pairs++
		}
	}

	unknownStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unknown_fields (run_id, stem, record, identifier, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return c.storageError("prepare_unknown", err)
	}
	defer unknownStmt.Close()

	for _, u := range snap.Unknown {
		value := ""
		if u.Value != nil {
			value = u.Value.String()
		}
		if _, err = unknownStmt.ExecContext(ctx, r.ID, u.Stem, u.Record, u.Identifier, value); err != nil {
			return c.storageError("insert_unknown", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return c.storageError("commit", err)
	}

	if c.metrics != nil {
		c.metrics.RecordCatalogWrite("runs", 1)
		c.metrics.RecordCatalogWrite("files", len(snap.Files))
		c.metrics.RecordCatalogWrite("pairs", pairs)
		c.metrics.RecordCatalogWrite("unknown_fields", len(snap.Unknown))
	}

	c.logger.InfoContext(ctx, "Run saved",
		"run_id", r.ID,
		"subpath", r.Subpath,
		"files", len(snap.Files),
		"pairs", pairs,
		"unknown_fields", len(snap.Unknown),
	)
	return nil
}

const runColumns = `id, root, subpath, game, started_at, duration_ms, files, entries, failures, collisions`

// Runs returns the newest runs first. A limit <= 0 returns all runs.
func (c *Catalog) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.storageError("query_runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, c.storageError("scan_run", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, c.storageError("query_runs", err)
	}
	return runs, nil
}

// GetRun returns one run, or ErrRunNotFound.
func (c *Catalog) GetRun(ctx context.Context, id string) (Run, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, c.storageError("get_run", err)
	}
	return r, nil
}

// FileRow is a stored file status.
type FileRow struct {
	Stem     string `json:"stem"`
	Path     string `json:"path"`
	Status   string `json:"status"`
	Pairs    int    `json:"pairs"`
	Bytes    int64  `json:"bytes"`
	Checksum string `json:"checksum,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Files returns the files of a run in path order.
func (c *Catalog) Files(ctx context.Context, runID string) ([]FileRow, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT stem, path, status, pairs, bytes, checksum, error
		FROM files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, c.storageError("query_files", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var f FileRow
		var checksum, errText sql.NullString
		if err := rows.Scan(&f.Stem, &f.Path, &f.Status, &f.Pairs, &f.Bytes, &checksum, &errText); err != nil {
			return nil, c.storageError("scan_file", err)
		}
		f.Checksum = checksum.String
		f.Error = errText.String
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, c.storageError("query_files", err)
	}
	return out, nil
}

// PairQuery filters FindPairs. Empty fields match everything.
type PairQuery struct {
	RunID      string
	Stem       string
	Identifier string
	Limit      int
}

// PairRow is a stored top-level pair.
type PairRow struct {
	RunID      string `json:"run_id"`
	Stem       string `json:"stem"`
	Position   int    `json:"position"`
	Identifier string `json:"identifier"`
	Sign       string `json:"sign"`
	Kind       string `json:"kind"`
	Value      string `json:"value"`
	Line       int    `json:"line"`
}

// FindPairs returns matching pairs ordered by run, stem and position.
func (c *Catalog) FindPairs(ctx context.Context, q PairQuery) ([]PairRow, error) {
	var where []string
	var args []any
	if q.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, q.RunID)
	}
	if q.Stem != "" {
		where = append(where, "stem = ?")
		args = append(args, q.Stem)
	}
	if q.Identifier != "" {
		where = append(where, "identifier = ?")
		args = append(args, q.Identifier)
	}

	query := `SELECT run_id, stem, position, identifier, sign, kind, value, line FROM pairs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY run_id, stem, position`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.storageError("query_pairs", err)
	}
	defer rows.Close()

	var out []PairRow
	for rows.Next() {
		var p PairRow
		if err := rows.Scan(&p.RunID, &p.Stem, &p.Position, &p.Identifier, &p.Sign, &p.Kind, &p.Value, &p.Line); err != nil {
			return nil, c.storageError("scan_pair", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, c.storageError("query_pairs", err)
	}
	return out, nil
}

// IdentifierCount is how often a record carried an unknown identifier.
type IdentifierCount struct {
	Record     string `json:"record"`
	Identifier string `json:"identifier"`
	Count      int    `json:"count"`
}

// UnknownIdentifiers counts unknown identifiers of a run, most frequent first.
func (c *Catalog) UnknownIdentifiers(ctx context.Context, runID string) ([]IdentifierCount, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT record, identifier, COUNT(*) AS n
		FROM unknown_fields WHERE run_id = ?
		GROUP BY record, identifier
		ORDER BY n DESC, record, identifier`, runID)
	if err != nil {
		return nil, c.storageError("query_unknown", err)
	}
	defer rows.Close()

	var out []IdentifierCount
	for rows.Next() {
		var ic IdentifierCount
		if err := rows.Scan(&ic.Record, &ic.Identifier, &ic.Count); err != nil {
			return nil, c.storageError("scan_unknown", err)
		}
		out = append(out, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, c.storageError("query_unknown", err)
	}
	return out, nil
}

// Prune deletes every run except the newest keep, with their files, pairs
// and unknown fields. It returns the number of runs deleted.
func (c *Catalog) Prune(ctx context.Context, keep int) (deleted int, err error) {
	if keep < 0 {
		keep = 0
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, c.storageError("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM runs ORDER BY started_at DESC, id LIMIT -1 OFFSET ?`, keep)
	if err != nil {
		return 0, c.storageError("select_prune", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return 0, c.storageError("scan_prune", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, c.storageError("select_prune", err)
	}

	for _, id := range ids {
		for _, table := range []string{"pairs", "files", "unknown_fields"} {
			if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
				return 0, c.storageError("prune_"+table, err)
			}
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
			return 0, c.storageError("prune_runs", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, c.storageError("commit", err)
	}

	if c.metrics != nil {
		c.metrics.RecordCatalogPrune(len(ids))
	}
	if len(ids) > 0 {
		c.logger.InfoContext(ctx, "Pruned runs", "deleted", len(ids), "kept", keep)
	}
	return len(ids), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var startedAt, durationMs int64
	if err := s.Scan(&r.ID, &r.Root, &r.Subpath, &r.Game, &startedAt, &durationMs,
		&r.Files, &r.Entries, &r.Failures, &r.Collisions); err != nil {
		return Run{}, err
	}
	r.StartedAt = time.Unix(0, startedAt)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return r, nil
}

func (c *Catalog) storageError(op string, err error) error {
	return &StorageError{Driver: c.driver, Operation: op, Cause: err}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

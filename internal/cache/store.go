package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jsrecon/jsrecon/internal/model"
)

// Record is the persisted shape of one scan: the category maps, the
// retained decoded text, and the scan time as epoch milliseconds.
type Record struct {
	// Results maps category -> value -> occurrences, exactly as the
	// engine produced them.
	Results map[model.Category]model.FindingMap `json:"results"`

	// ContentMap holds the decoded text per source identifier.
	ContentMap map[string]string `json:"contentMap"`

	// Timestamp is the scan time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Store persists scan records per target in a SQLite database.
//
// Design decision: one database file holds all targets rather than a
// file per target. History queries span targets, and a single file
// keeps pruning and backup trivial.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// OpenStore opens or creates the history store in dbDir.
func OpenStore(dbDir string) (*Store, error) {
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "jsrecon.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports a single writer; more connections only add
	// lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		record_json TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_target ON scan_results(target);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON scan_results(timestamp);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanResult persists one scan result for its target.
func (s *Store) SaveScanResult(ctx context.Context, result *model.ScanResult) error {
	record := Record{
		Results:    result.Results,
		ContentMap: result.ContentMap,
		Timestamp:  result.DateScanned.UnixMilli(),
	}
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serialize scan record: %w", err)
	}

	query := `INSERT INTO scan_results (target, record_json, timestamp) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, result.Target, string(recordJSON), record.Timestamp); err != nil {
		return fmt.Errorf("save scan record: %w", err)
	}
	return nil
}

// Latest returns the most recent record for target, or nil when the
// target has never been scanned.
func (s *Store) Latest(ctx context.Context, target string) (*Record, error) {
	query := `
	SELECT record_json FROM scan_results
	WHERE target = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`
	var recordJSON string
	err := s.db.QueryRowContext(ctx, query, target).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest record: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &record, nil
}

// History returns all records for target, newest first. Malformed rows
// are skipped rather than failing the whole listing.
func (s *Store) History(ctx context.Context, target string) ([]Record, error) {
	query := `
	SELECT record_json FROM scan_results
	WHERE target = ?
	ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var record Record
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Targets returns every target with at least one stored record.
func (s *Store) Targets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT target FROM scan_results ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan target row: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// Prune enforces the retention policy: records older than maxAge are
// deleted, then if more than maxRows remain only the newest maxRows
// survive. A non-positive limit disables that half of the policy.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration, maxRows int) error {
	if maxAge > 0 {
		cutoff := time.Now().Add(-maxAge).UnixMilli()
		if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_results WHERE timestamp < ?`, cutoff); err != nil {
			return fmt.Errorf("prune by age: %w", err)
		}
	}
	if maxRows > 0 {
		query := `
		DELETE FROM scan_results WHERE id NOT IN (
			SELECT id FROM scan_results ORDER BY timestamp DESC LIMIT ?
		)
		`
		if _, err := s.db.ExecContext(ctx, query, maxRows); err != nil {
			return fmt.Errorf("prune by row count: %w", err)
		}
	}
	return nil
}

package adapter

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	m "parity.dev/pkg/parity/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// MemoryHistory opens a private in-memory ledger.
const MemoryHistory = ":memory:"

// timeLayout has a fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when the ledger has no run with the given ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryStore is the local run ledger.
type HistoryStore interface {
	Record(ctx context.Context, run m.RunRecord, table m.ResultTable) error
	List(ctx context.Context, limit int) ([]m.RunRecord, error)
	Results(ctx context.Context, runID string) ([]m.CaseRecord, error)
	Close() error
}

// SQLiteHistoryStore keeps runs and per-case results in a SQLite database.
type SQLiteHistoryStore struct {
	db *sql.DB
}

// OpenHistoryStore opens (creating if needed) the ledger at path.
func OpenHistoryStore(ctx context.Context, path m.Path) (*SQLiteHistoryStore, error) {
	dsn := string(path)

	if dsn != MemoryHistory {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}

		dsn = "file:" + dsn + "?_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteHistoryStore{db: db}, nil
}

// Close releases the database.
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

// Record stores the run and every case result in one transaction.
func (s *SQLiteHistoryStore) Record(ctx context.Context, run m.RunRecord, table m.ResultTable) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, username, query, total, max_score, cases, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.User, run.Query,
		run.Total, run.Max, run.Cases, run.Passed)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, position, name, weight, passed, reason, fault)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}

	defer func() { _ = stmt.Close() }()

	for i, entry := range table.Entries() {
		_, err = stmt.ExecContext(ctx, run.ID, i, entry.Case.Name, entry.Case.Weight,
			entry.Verdict.Passed, entry.Verdict.Reason, entry.Verdict.Fault.String())
		if err != nil {
			return fmt.Errorf("insert result %s: %w", entry.Case.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	return nil
}

// List returns the most recent runs first. A non-positive limit lists all.
func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]m.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, username, query, total, max_score, cases, passed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []m.RunRecord

	for rows.Next() {
		var (
			run             m.RunRecord
			started, finish string
		)

		if err := rows.Scan(&run.ID, &started, &finish, &run.User, &run.Query,
			&run.Total, &run.Max, &run.Cases, &run.Passed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}

		if run.FinishedAt, err = parseTime(finish); err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Results returns the case rows of one run in catalog order.
func (s *SQLiteHistoryStore) Results(ctx context.Context, runID string) ([]m.CaseRecord, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}

	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, weight, passed, reason, fault
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results of %s: %w", runID, err)
	}
	defer rows.Close()

	var records []m.CaseRecord

	for rows.Next() {
		var rec m.CaseRecord
		if err := rows.Scan(&rec.Position, &rec.Name, &rec.Weight, &rec.Passed, &rec.Reason, &rec.Fault); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}

	return t, nil
}

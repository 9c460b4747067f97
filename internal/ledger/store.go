// Package ledger keeps a queryable history of experiment outcomes in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
    id          TEXT PRIMARY KEY,
    run         INTEGER NOT NULL,
    method      TEXT NOT NULL,
    domain      TEXT NOT NULL,
    task        TEXT NOT NULL,
    task_hash   TEXT NOT NULL DEFAULT '',
    outcome     TEXT NOT NULL,
    plan        TEXT NOT NULL DEFAULT '',
    cost        REAL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run ON results (run);
`

// Record is one attempt at one task.
type Record struct {
	ID       string
	Run      int
	Method   string
	Domain   string
	Task     string
	TaskHash string
	Outcome  string
	Plan     string

	// Cost is meaningful only when HasCost is set.
	Cost    float64
	HasCost bool

	Duration  time.Duration
	CreatedAt time.Time
}

// Store appends records to a SQLite database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create ledger directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize ledger: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Record inserts r, filling ID and CreatedAt when unset.
func (s *Store) Record(ctx context.Context, r Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	var cost sql.NullFloat64
	if r.HasCost {
		cost = sql.NullFloat64{Float64: r.Cost, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO results (id, run, method, domain, task, task_hash, outcome, plan, cost, duration_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Run, r.Method, r.Domain, r.Task, r.TaskHash, r.Outcome, r.Plan,
		cost, r.Duration.Milliseconds(), r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.Task, err)
	}
	return nil
}

// List returns the records of run in insertion order.
func (s *Store) List(ctx context.Context, run int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, run, method, domain, task, task_hash, outcome, plan, cost, duration_ms, created_at
        FROM results WHERE run = ? ORDER BY rowid`, run)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			cost       sql.NullFloat64
			durationMS int64
			created    string
		)
		if err := rows.Scan(&r.ID, &r.Run, &r.Method, &r.Domain, &r.Task, &r.TaskHash,
			&r.Outcome, &r.Plan, &cost, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Cost, r.HasCost = cost.Float64, cost.Valid
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

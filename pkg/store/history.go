// Package store persists analysis runs to a local SQLite database so the
// CLI history command and the server's /api/v1/history endpoint can show
// what was analyzed and when. Each run keeps the request and the resulting
// summary as JSON, which makes the schema indifferent to engine changes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Fixed-width fractional seconds keep ORDER BY created_at correct for
// runs saved within the same second.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const defaultListLimit = 20

var bootQueries = []string{
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		label      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		request    TEXT NOT NULL,
		summary    TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS analysis_runs_created_at ON analysis_runs (created_at DESC);`,
}

// Run is one recorded analysis. Kind names the operation (analyze, compare,
// rentvsbuy, affordability, purchase-power, sensitivity); Label is the
// human-readable scenario description shown in listings. Request and Summary
// hold the caller's input and the engine's result verbatim.
type Run struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Label     string          `json:"label"`
	CreatedAt time.Time       `json:"created_at"`
	Request   json.RawMessage `json:"request"`
	Summary   json.RawMessage `json:"summary"`
}

// ErrRunNotFound reports a Get for an id with no recorded run.
var ErrRunNotFound = errors.New("analysis run not found")

// History is a SQLite-backed run log. Safe for concurrent use.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database at path and
// ensures the schema exists.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// SQLite locks the whole file on write; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	for _, q := range bootQueries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("init history schema: %w", err)
		}
	}
	return &History{db: db}, nil
}

// NewHistory wraps an already-open database. The schema must exist.
func NewHistory(db *sql.DB) (*History, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Save records a run and returns it with ID and CreatedAt filled in.
func (h *History) Save(ctx context.Context, run Run) (Run, error) {
	if run.Kind == "" {
		return Run{}, fmt.Errorf("save run: kind is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, kind, label, created_at, request, summary)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Label, run.CreatedAt.Format(createdAtLayout),
		string(run.Request), string(run.Summary))
	if err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// lists the default of 20.
func (h *History) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, kind, label, created_at, request, summary
		 FROM analysis_runs
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id, or ErrRunNotFound.
func (h *History) Get(ctx context.Context, id string) (Run, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, kind, label, created_at, request, summary
		 FROM analysis_runs
		 WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Clear deletes all recorded runs and reports how many were removed.
func (h *History) Clear(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM analysis_runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		createdAt string
		request   []byte
		summary   []byte
	)
	if err := row.Scan(&run.ID, &run.Kind, &run.Label, &createdAt, &request, &summary); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	run.Request = json.RawMessage(request)
	run.Summary = json.RawMessage(summary)
	return run, nil
}

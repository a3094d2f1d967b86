package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	workdir     TEXT NOT NULL,
	verbose     TEXT NOT NULL,
	engine      TEXT NOT NULL,
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS calls (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq    INTEGER NOT NULL,
	op     TEXT NOT NULL,
	args   TEXT NOT NULL,
	error  TEXT NOT NULL DEFAULT '',
	at     INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// SQLite persists the journal in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a run in the running state.
func (s *SQLite) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, workdir, verbose, engine, source, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.Workdir, run.Verbose, run.Engine, run.Source,
		string(StatusRunning), toMillis(started),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordCall appends one call to a run.
func (s *SQLite) RecordCall(ctx context.Context, runID string, call Call) error {
	at := call.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (run_id, seq, op, args, error, at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, call.Seq, call.Op, call.Args, call.Error, toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("insert call %d of run %s: %w", call.Seq, runID, err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (s *SQLite) FinishRun(ctx context.Context, runID string, status Status, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(status), msg, toMillis(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("update run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// GetRun loads a run by id.
func (s *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	var (
		run      Run
		status   string
		started  int64
		finished int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, workdir, verbose, engine, source, status, error, started_at, finished_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Name, &run.Workdir, &run.Verbose, &run.Engine, &run.Source,
		&status, &run.Error, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run %s: %w", runID, err)
	}
	run.Status = Status(status)
	run.StartedAt = fromMillis(started)
	run.FinishedAt = fromMillis(finished)
	return run, nil
}

// Calls lists the calls of a run in sequence order.
func (s *SQLite) Calls(ctx context.Context, runID string) ([]Call, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, op, args, error, at FROM calls WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query calls of run %s: %w", runID, err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		var (
			c  Call
			at int64
		)
		if err := rows.Scan(&c.Seq, &c.Op, &c.Args, &c.Error, &at); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		c.At = fromMillis(at)
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// RunIDs lists run ids, oldest first.
func (s *SQLite) RunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

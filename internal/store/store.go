// Package store persists gate run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/thebtf/nearly/internal/gate"
)

// ErrNotFound is returned when a run id has no row.
var ErrNotFound = errors.New("run not found")

// Run is one persisted gate run.
type Run struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"created_at"`
	BaselineLabel  string              `json:"baseline_label"`
	CandidateLabel string              `json:"candidate_label"`
	Total          int                 `json:"total"`
	Passed         int                 `json:"passed"`
	Failed         int                 `json:"failed"`
	Pass           bool                `json:"pass"`
	Results        []gate.MetricResult `json:"results,omitempty"`
}

// NewRun wraps a report into a Run with a fresh id.
func NewRun(baselineLabel, candidateLabel string, report *gate.Report) *Run {
	return &Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		BaselineLabel:  baselineLabel,
		CandidateLabel: candidateLabel,
		Total:          report.Total,
		Passed:         report.Passed,
		Failed:         report.Failed,
		Pass:           report.Pass,
		Results:        report.Results,
	}
}

// Store owns the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Open initializes the database at path, creating directories, pragmas and
// schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, stmt := range pragmas {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	ddl := `CREATE TABLE IF NOT EXISTS runs (
		id              TEXT PRIMARY KEY,
		created_at      INTEGER NOT NULL,
		baseline_label  TEXT NOT NULL DEFAULT '',
		candidate_label TEXT NOT NULL DEFAULT '',
		total           INTEGER NOT NULL,
		passed          INTEGER NOT NULL,
		failed          INTEGER NOT NULL,
		pass            INTEGER NOT NULL,
		results         TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts a run and its per-metric results.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, baseline_label, candidate_label, total, passed, failed, pass, results)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixMilli(), run.BaselineLabel, run.CandidateLabel,
		run.Total, run.Passed, run.Failed, boolToInt(run.Pass), string(results))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun fetches one run with its full results.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, baseline_label, candidate_label, total, passed, failed, pass, results
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without per-metric
// results.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, baseline_label, candidate_label, total, passed, failed, pass
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var createdAt int64
		var pass int
		if err := rows.Scan(&run.ID, &createdAt, &run.BaselineLabel, &run.CandidateLabel,
			&run.Total, &run.Passed, &run.Failed, &pass); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		run.Pass = pass != 0
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var createdAt int64
	var pass int
	var results string
	if err := row.Scan(&run.ID, &createdAt, &run.BaselineLabel, &run.CandidateLabel,
		&run.Total, &run.Passed, &run.Failed, &pass, &results); err != nil {
		return nil, err
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	run.Pass = pass != 0
	if err := json.Unmarshal([]byte(results), &run.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

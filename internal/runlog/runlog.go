// Package runlog keeps an append-only SQLite audit trail of promotion
// decisions: one row per evaluation run, never updated afterwards.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"modelgate/internal/evaluate"
)

// DefaultDBPath is the default relative path for the run-log DB.
const DefaultDBPath = ".modelgate/runs.db"

const schema = `
CREATE TABLE IF NOT EXISTS decision_runs (
    id            TEXT PRIMARY KEY,
    trained_score REAL NOT NULL,
    best_score    REAL,
    accepted      INTEGER NOT NULL,
    delta         REAL NOT NULL,
    report_path   TEXT NOT NULL,
    created_at    TEXT NOT NULL
);
`

// Entry is one recorded evaluation run. BestScore is nil for runs that found
// no deployed model.
type Entry struct {
	ID           string
	TrainedScore float64
	BestScore    *float64
	Accepted     bool
	Delta        float64
	ReportPath   string
	CreatedAt    time.Time
}

// Log is the SQLite-backed run log.
type Log struct {
	db *sql.DB
}

// Open opens or creates the run log at path, creating the parent directory.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create runlog dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open runlog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init runlog schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error { return l.db.Close() }

// RecordDecision implements evaluate.Recorder: it appends one run row.
func (l *Log) RecordDecision(ctx context.Context, d evaluate.Decision, reportPath string) error {
	entry := Entry{
		ID:           uuid.NewString(),
		TrainedScore: d.TrainedScore,
		BestScore:    d.BestScore,
		Accepted:     d.Accepted,
		Delta:        d.Delta,
		ReportPath:   reportPath,
		CreatedAt:    time.Now().UTC(),
	}
	return l.record(ctx, entry)
}

func (l *Log) record(ctx context.Context, e Entry) error {
	var best sql.NullFloat64
	if e.BestScore != nil {
		best = sql.NullFloat64{Float64: *e.BestScore, Valid: true}
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO decision_runs
		 (id, trained_score, best_score, accepted, delta, report_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TrainedScore, best, boolInt(e.Accepted), e.Delta,
		e.ReportPath, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, trained_score, best_score, accepted, delta, report_path, created_at
	      FROM decision_runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			best     sql.NullFloat64
			accepted int
			created  string
		)
		if err := rows.Scan(&e.ID, &e.TrainedScore, &best, &accepted,
			&e.Delta, &e.ReportPath, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if best.Valid {
			v := best.Float64
			e.BestScore = &v
		}
		e.Accepted = accepted != 0
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ════════════════════════════════════════════════════════════════════════════════════════════════
// Run Store
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: SQLite Persistence for Loop Reports
//
// Description:
//   Keeps every CLI run so fast-path and full-lock builds can be compared over time. The headline
//   counters are stored as columns for ad-hoc queries; the full report is kept as its JSON
//   encoding. Poll-point latency samples live in their own table, one row per sample.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"concrange/report"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at    INTEGER NOT NULL,
	n             INTEGER NOT NULL,
	workers       INTEGER NOT NULL,
	chunk         INTEGER NOT NULL,
	steal_min     INTEGER NOT NULL,
	full_lock     INTEGER NOT NULL,
	elapsed_ns    INTEGER NOT NULL,
	items         INTEGER NOT NULL,
	steals        INTEGER NOT NULL,
	failed_steals INTEGER NOT NULL,
	verified      INTEGER NOT NULL,
	report        TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS poll_samples (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	seq    INTEGER NOT NULL,
	ticks  INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY between
	// our own goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts r and its poll latency samples in one transaction and returns the
// new row id. r.ID is updated.
func (s *Store) SaveRun(ctx context.Context, r *report.Run) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	blob, err := report.Encode(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (created_at, n, workers, chunk, steal_min, full_lock, elapsed_ns,
		                  items, steals, failed_steals, verified, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.UnixNano(), r.N, r.Workers, r.Chunk, r.StealMin, r.FullLock, r.ElapsedNs,
		r.Items, int64(r.Steals), int64(r.FailedSteals), r.Verified(), string(blob))
	if err != nil {
		return 0, fmt.Errorf("store: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: run id: %w", err)
	}

	if err := saveSamples(ctx, tx, id, r.PollLatency); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	r.ID = id
	return id, nil
}

func saveSamples(ctx context.Context, tx *sql.Tx, runID int64, samples []uint64) error {
	if len(samples) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO poll_samples (run_id, seq, ticks) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare samples: %w", err)
	}
	defer stmt.Close()

	for i, v := range samples {
		if _, err := stmt.ExecContext(ctx, runID, i, int64(v)); err != nil {
			return fmt.Errorf("store: insert sample %d: %w", i, err)
		}
	}
	return nil
}

// Runs returns every stored report, oldest first.
func (s *Store) Runs(ctx context.Context) ([]*report.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, report FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var out []*report.Run
	for rows.Next() {
		var id int64
		var blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r, err := report.Decode([]byte(blob))
		if err != nil {
			return nil, err
		}
		r.ID = id
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return out, nil
}

// Samples returns the poll latency samples of one run in recorded order.
func (s *Store) Samples(ctx context.Context, runID int64) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticks FROM poll_samples WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query samples: %w", err)
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("store: scan sample: %w", err)
		}
		out = append(out, uint64(v))
	}
	return out, rows.Err()
}

// Summary aggregates stored runs for one strategy.
type Summary struct {
	Runs      int
	MeanNs    float64
	Unverified int
}

// Summarize groups the history by strategy (full-lock or fast-path).
func (s *Store) Summarize(ctx context.Context, fullLock bool) (Summary, error) {
	var sum Summary
	var mean sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(elapsed_ns), COALESCE(SUM(CASE WHEN verified = 0 THEN 1 ELSE 0 END), 0)
		FROM runs WHERE full_lock = ?`, fullLock).Scan(&sum.Runs, &mean, &sum.Unverified)
	if err != nil {
		return Summary{}, fmt.Errorf("store: summarize: %w", err)
	}
	sum.MeanNs = mean.Float64
	return sum, nil
}

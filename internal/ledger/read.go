package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/testis/internal/energy"
)

// History returns the runs recorded for caseName, newest first.
// An empty caseName returns runs of every case. A limit <= 0 means no limit.
//
// Returns an empty slice (not nil) if no runs exist.
func (l *Ledger) History(ctx context.Context, caseName string, limit int) ([]Run, error) {
	query := `
		SELECT seq, id, case_name, dir, pass, kind, message, accuracy,
		       output_digest, reference_digest, actual_digest, max_deviation, recorded_at
		FROM runs`
	var args []any
	if caseName != "" {
		query += " WHERE case_name = ?"
		args = append(args, caseName)
	}
	query += " ORDER BY seq DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Deltas returns the energy deltas of a run, ordered by key.
//
// Returns an empty slice (not nil) if the run compared no energies.
func (l *Ledger) Deltas(ctx context.Context, runID string) ([]Delta, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, key, reference, actual, deviation, status
		FROM energy_deltas
		WHERE run_id = ?
		ORDER BY key COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query deltas: %w", err)
	}
	defer rows.Close()

	deltas := []Delta{}
	for rows.Next() {
		var (
			d                            Delta
			reference, actual, deviation sql.NullFloat64
			status                       string
		)
		if err := rows.Scan(&d.RunID, &d.Key, &reference, &actual, &deviation, &status); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		d.Reference = floatPtr(reference)
		d.Actual = floatPtr(actual)
		d.Deviation = floatPtr(deviation)
		d.Status = energy.Status(status)
		deltas = append(deltas, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deltas: %w", err)
	}
	return deltas, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run          Run
		maxDeviation sql.NullFloat64
		recordedAt   string
	)
	err := rows.Scan(
		&run.Seq,
		&run.ID,
		&run.Case,
		&run.Dir,
		&run.Pass,
		&run.Kind,
		&run.Message,
		&run.Accuracy,
		&run.OutputDigest,
		&run.ReferenceDigest,
		&run.ActualDigest,
		&maxDeviation,
		&recordedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.MaxDeviation = floatPtr(maxDeviation)
	if run.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return Run{}, fmt.Errorf("scan run %s: recorded_at: %w", run.ID, err)
	}
	return run, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/roach88/testis/internal/check"
	"github.com/roach88/testis/internal/energy"
)

// RecordRun appends a check result to the ledger and returns the stored run.
// The run and its energy deltas are written in one transaction.
func (l *Ledger) RecordRun(ctx context.Context, result *check.Result) (Run, error) {
	if result == nil {
		return Run{}, fmt.Errorf("record run: nil result")
	}

	run := Run{
		ID:           l.ids.Generate(),
		Case:         result.Case.Name,
		Dir:          result.Case.Dir,
		Pass:         result.Pass,
		Kind:         string(result.Kind),
		Message:      result.Message,
		Accuracy:     result.Case.Accuracy,
		OutputDigest: result.OutputDigest,
		RecordedAt:   l.clock.Now().UTC(),
	}
	if result.Energy != nil {
		run.ReferenceDigest = result.Energy.ReferenceDigest
		run.ActualDigest = result.Energy.ActualDigest
		maxDev := result.Energy.MaxDeviation
		run.MaxDeviation = &maxDev
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, case_name, dir, pass, kind, message, accuracy,
		 output_digest, reference_digest, actual_digest, max_deviation, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Case,
		run.Dir,
		run.Pass,
		run.Kind,
		run.Message,
		run.Accuracy,
		run.OutputDigest,
		run.ReferenceDigest,
		run.ActualDigest,
		nullFloat(run.MaxDeviation),
		run.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	if run.Seq, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("record run: seq: %w", err)
	}

	if result.Energy != nil {
		if err := writeDeltas(ctx, tx, run.ID, result.Energy.Entries); err != nil {
			return Run{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

func writeDeltas(ctx context.Context, tx *sql.Tx, runID string, entries []energy.Entry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO energy_deltas (run_id, key, reference, actual, deviation, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("record deltas: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			runID,
			e.Key,
			nullFloat(e.Reference),
			nullFloat(e.Actual),
			nullFloat(e.Deviation),
			string(e.Status),
		); err != nil {
			return fmt.Errorf("record delta %q: %w", e.Key, err)
		}
	}
	return nil
}

// nullFloat stores absent and non-finite values as NULL.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

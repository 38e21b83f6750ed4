package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tangent/internal/model"
)

// WriteRun atomically persists a run with all its results and
// per-variable sensitivities in a single transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - persisting the same
// run twice is a silent no-op. Returns inserted=false when the run ID
// already exists; in that case no result rows are written either.
//
// Result payloads are serialized to canonical JSON, so the stored bytes
// can be re-hashed and verified against the content-addressed result ID.
func (s *Store) WriteRun(ctx context.Context, run *model.Run) (inserted bool, err error) {
	varsJSON, err := marshalVariables(run.Variables)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Insert the run first; it claims the ID atomically.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, model, model_hash, run_order, variables)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Model,
		run.ModelHash,
		int(run.Order),
		varsJSON,
	)
	if err != nil {
		return false, fmt.Errorf("write run: insert run: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Run already persisted - nothing more to do.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("write run: commit (existing): %w", err)
		}
		return false, nil
	}

	for i := range run.Results {
		if err := writeResult(ctx, tx, run.ID, &run.Results[i]); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}

	return true, nil
}

// writeResult inserts one result and its sensitivity rows inside the
// run transaction.
func writeResult(ctx context.Context, tx *sql.Tx, runID string, r *model.Result) error {
	payloadJSON, err := marshalPayload(r.Payload())
	if err != nil {
		return fmt.Errorf("write result %s: %w", r.Output, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results
		(id, run_id, seq, output, source, value, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		r.ID,
		runID,
		r.Seq,
		r.Output,
		r.Source,
		r.Value,
		payloadJSON,
	)
	if err != nil {
		return fmt.Errorf("write result %s: %w", r.Output, err)
	}

	for i, name := range r.Variables {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sensitivities
			(result_id, variable, idx, gradient)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			r.ID,
			name,
			i,
			r.Gradient[i],
		)
		if err != nil {
			return fmt.Errorf("write sensitivity %s/%s: %w", r.Output, name, err)
		}
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tangent/internal/model"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of a run listing: the run header plus its
// result count, without the payloads.
type RunSummary struct {
	ID        string
	Model     string
	ModelHash string
	Order     model.Order
	Results   int
}

// ListRuns returns summaries of all persisted runs.
// Run IDs are UUIDv7, so ORDER BY id is chronological; the binary
// collation keeps the listing byte-identical across processes.
//
// Returns an empty slice (not nil) when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.model, r.model_hash, r.run_order, COUNT(res.id)
		FROM runs r
		LEFT JOIN results res ON res.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var sm RunSummary
		var order int
		if err := rows.Scan(&sm.ID, &sm.Model, &sm.ModelHash, &order, &sm.Results); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sm.Order = model.Order(order)
		summaries = append(summaries, sm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if summaries == nil {
		summaries = []RunSummary{}
	}

	return summaries, nil
}

// GetRun retrieves a run with all its results.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC
// COLLATE BINARY. Returns ErrRunNotFound for an unknown ID.
func (s *Store) GetRun(ctx context.Context, id string) (*model.Run, error) {
	run := &model.Run{ID: id}

	var order int
	var varsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT model, model_hash, run_order, variables
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.Model, &run.ModelHash, &order, &varsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.Order = model.Order(order)

	run.Variables, err = unmarshalVariables(varsJSON)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	run.Results, err = s.readRunResults(ctx, id, run.Variables)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	return run, nil
}

// readRunResults returns the results of one run in deterministic order,
// with gradients realigned to the run's variable order.
func (s *Store) readRunResults(ctx context.Context, runID string, vars []model.VariableDef) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, output, source, value, payload
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}

	var results []model.Result
	for rows.Next() {
		var r model.Result
		var payloadJSON string
		if err := rows.Scan(&r.ID, &r.Seq, &r.Output, &r.Source, &r.Value, &payloadJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		rec, err := unmarshalPayload(payloadJSON)
		if err != nil {
			return nil, err
		}
		r.Variables = names
		r.Gradient = make([]float64, len(names))
		for i, name := range names {
			r.Gradient[i] = rec.Gradient[name]
		}
		r.Hessian = rec.Hessian

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	if results == nil {
		results = []model.Result{}
	}

	return results, nil
}

// Sensitivity is one (run, output, variable) gradient entry from the
// flattened sensitivities table.
type Sensitivity struct {
	RunID    string
	Output   string
	Variable string
	Index    int
	Gradient float64
}

// SensitivitiesForVariable returns every stored gradient entry for one
// variable across all runs. Answers: "what is exposed to this input?"
// Results ordered by run id, then seq, per the deterministic listing
// convention.
func (s *Store) SensitivitiesForVariable(ctx context.Context, variable string) ([]Sensitivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT res.run_id, res.output, sv.variable, sv.idx, sv.gradient
		FROM sensitivities sv
		JOIN results res ON sv.result_id = res.id
		WHERE sv.variable = ?
		ORDER BY res.run_id COLLATE BINARY ASC, res.seq ASC
	`, variable)
	if err != nil {
		return nil, fmt.Errorf("query sensitivities: %w", err)
	}
	defer rows.Close()

	var out []Sensitivity
	for rows.Next() {
		var sv Sensitivity
		if err := rows.Scan(&sv.RunID, &sv.Output, &sv.Variable, &sv.Index, &sv.Gradient); err != nil {
			return nil, fmt.Errorf("scan sensitivity: %w", err)
		}
		out = append(out, sv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensitivities: %w", err)
	}

	if out == nil {
		out = []Sensitivity{}
	}

	return out, nil
}

// HasRun checks whether a run ID is already persisted.
func (s *Store) HasRun(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM runs WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check run: %w", err)
	}
	return count > 0, nil
}

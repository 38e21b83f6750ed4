package harness

import (
	"context"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/tangent/internal/compiler"
	"github.com/roach88/tangent/internal/engine"
	"github.com/roach88/tangent/internal/model"
	"github.com/roach88/tangent/internal/store"
	"github.com/roach88/tangent/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs the full pipeline in isolation: inline CUE models
// are compiled and validated, every model is evaluated through the
// dual-number engine with deterministic run IDs, and each run makes a
// persistence round-trip through a fresh in-memory SQLite store. The
// runs in the result are the read-back records, so golden snapshots
// cover the durable form, not just the in-memory one.
func Run(scenario *Scenario) (*Result, error) {
	specs, err := compileScenarioModels(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ev := engine.New(testutil.NewSeqRunIDGenerator())
	ctx := context.Background()

	result := NewResult()
	bumpUsed := make(map[string]bool, len(scenario.Bumps))

	for i := range specs {
		spec := &specs[i]

		run, err := ev.Evaluate(ctx, spec, bumpsFor(spec, scenario.Bumps, bumpUsed))
		if err != nil {
			return nil, fmt.Errorf("evaluating model %s: %w", spec.Name, err)
		}

		if _, err := st.WriteRun(ctx, run); err != nil {
			return nil, fmt.Errorf("persisting run for model %s: %w", spec.Name, err)
		}
		stored, err := st.GetRun(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("reading back run for model %s: %w", spec.Name, err)
		}

		result.Runs = append(result.Runs, stored)
	}

	// A bump that matched no model is a scenario typo, not a no-op.
	for name := range scenario.Bumps {
		if !bumpUsed[name] {
			result.AddError(fmt.Sprintf("bump %q matches no model variable", name))
		}
	}

	for i := range scenario.Expect {
		if err := checkExpectation(result.Runs, &scenario.Expect[i]); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// compileScenarioModels compiles and validates the scenario's inline
// CUE models, restricted to the selected model when one is named.
func compileScenarioModels(scenario *Scenario) ([]model.ModelSpec, error) {
	v := cuecontext.New().CompileString(scenario.Models)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling scenario models: %w", err)
	}

	modelsVal := v.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return nil, fmt.Errorf("scenario models must declare a top-level model struct")
	}
	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating scenario models: %w", err)
	}

	var specs []model.ModelSpec
	for iter.Next() {
		spec, err := compiler.CompileModel(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("compiling model %s: %w", iter.Label(), err)
		}
		if verrs := compiler.ValidateModel(spec); len(verrs) > 0 {
			return nil, fmt.Errorf("model %s: %s", spec.Name, verrs[0].Error())
		}
		specs = append(specs, *spec)
	}

	if scenario.Model != "" {
		for i := range specs {
			if specs[i].Name == scenario.Model {
				return specs[i : i+1], nil
			}
		}
		return nil, fmt.Errorf("model %q not found in scenario", scenario.Model)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("scenario declares no models")
	}
	return specs, nil
}

// bumpsFor filters the scenario bumps down to variables the model
// declares, marking each bump it hands out as used.
func bumpsFor(spec *model.ModelSpec, bumps map[string]float64, used map[string]bool) map[string]float64 {
	if len(bumps) == 0 {
		return nil
	}
	declared := make(map[string]bool, len(spec.Variables))
	for _, v := range spec.Variables {
		declared[v.Name] = true
	}

	filtered := make(map[string]float64)
	for name, shift := range bumps {
		if declared[name] {
			filtered[name] = shift
			used[name] = true
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tangent/internal/model"
)

// RunSnapshot captures the run records of a scenario execution.
// Serialized with canonical JSON for deterministic comparison, minus
// the content-addressed hashes (those are covered by their own tests
// and would make golden files unreadable).
type RunSnapshot struct {
	ScenarioName string
	Runs         []*model.Run
}

// toCanonicalMap converts a RunSnapshot to a map[string]any for
// canonical JSON serialization.
func (s *RunSnapshot) toCanonicalMap() map[string]any {
	runList := make([]any, len(s.Runs))
	for i, run := range s.Runs {
		vars := make([]any, len(run.Variables))
		for j, v := range run.Variables {
			vars[j] = map[string]any{"name": v.Name, "value": v.Value}
		}

		results := make([]any, len(run.Results))
		for j := range run.Results {
			r := &run.Results[j]
			gradient := make(map[string]float64, len(r.Variables))
			for k, name := range r.Variables {
				gradient[name] = r.Gradient[k]
			}
			resultMap := map[string]any{
				"output":   r.Output,
				"source":   r.Source,
				"seq":      r.Seq,
				"value":    r.Value,
				"gradient": gradient,
			}
			if r.Hessian != nil {
				resultMap["hessian"] = r.Hessian
			}
			results[j] = resultMap
		}

		runList[i] = map[string]any{
			"id":        run.ID,
			"model":     run.Model,
			"order":     int(run.Order),
			"variables": vars,
			"results":   results,
		}
	}

	return map[string]any{
		"scenario": s.ScenarioName,
		"runs":     runList,
	}
}

// RunWithGolden executes a scenario and compares its run records
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution or an expectation fails.
// Test failure (via goldie) occurs if the records don't match the
// golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return &AssertionError{
			Output:   scenario.Name,
			Expected: "all expectations to pass",
			Actual:   result.Errors[0],
		}
	}

	snapshot := RunSnapshot{
		ScenarioName: scenario.Name,
		Runs:         result.Runs,
	}
	snapJSON, err := model.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapJSON)

	return nil
}

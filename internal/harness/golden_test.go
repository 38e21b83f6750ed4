package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGoldenScenarios runs every scenario under testdata/scenarios and
// compares its run records against the matching golden file.
//
// Regenerate golden files with: go test ./internal/harness -update
func TestGoldenScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, "loading %s", path)

		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestSnapshotCanonicalMapShape(t *testing.T) {
	scenario := &Scenario{
		Name:        "shape",
		Description: "canonical map structure",
		Models:      swapModels,
		Expect:      []Expectation{{Output: "pv", Value: 30000}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	snapshot := RunSnapshot{ScenarioName: "shape", Runs: result.Runs}
	m := snapshot.toCanonicalMap()

	assert.Equal(t, "shape", m["scenario"])
	runs, ok := m["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)

	run, ok := runs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run-0001", run["id"])
	assert.Equal(t, 1, run["order"])

	// Hashes are deliberately absent from snapshots.
	assert.NotContains(t, run, "model_hash")
}

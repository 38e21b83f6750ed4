package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tangent/internal/model"
)

func TestLoadModelsValid(t *testing.T) {
	dir := writeModels(t, validModels)

	result, errs := LoadModels(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Models, 1)

	spec := result.Models[0]
	assert.Equal(t, "swap_pv", spec.Name)
	assert.Equal(t, model.OrderFirst, spec.Order)
	assert.Equal(t, []string{"rate", "notional"}, spec.VariableNames())
	require.Len(t, spec.Outputs, 1)
	assert.Equal(t, "notional * rate", spec.Outputs[0].Source)
}

func TestLoadModelsMissingDir(t *testing.T) {
	result, errs := LoadModels("/nonexistent", LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadModelsNoModelsStruct(t *testing.T) {
	dir := writeModels(t, `other: {x: 1}`)

	_, errs := LoadModels(dir, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no models found")
}

func TestLoadModelsCollectAll(t *testing.T) {
	dir := writeModels(t, `
model: first_bad: {
	variables: {x: {value: 1.0}}
	outputs: {f: {expr: "x +"}}
}
model: second_bad: {
	variables: {y: {value: 2.0}}
	outputs: {g: {expr: ")("}}
}
`)

	_, errs := LoadModels(dir, LoadModeCollectAll)
	// Both parse failures reported, not just the first.
	assert.Len(t, errs, 2)
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("x: 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("not cue"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.cue"), []byte("y: 2"), 0o644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeModelOrder, MapFieldToErrorCode("order"))
	assert.Equal(t, ErrCodeModelVariables, MapFieldToErrorCode("variables"))
	assert.Equal(t, ErrCodeModelVariables, MapFieldToErrorCode("variables.rate"))
	assert.Equal(t, ErrCodeModelOutputs, MapFieldToErrorCode("outputs"))
	assert.Equal(t, ErrCodeModelExpr, MapFieldToErrorCode("outputs.pv"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("something-else"))
}

package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tangent/internal/compiler"
	"github.com/roach88/tangent/internal/model"
)

const tol = 1e-12

// buildModel assembles a ModelSpec with parsed outputs, bypassing CUE.
func buildModel(t *testing.T, order model.Order, vars []model.VariableDef, outputs map[string]string, outputOrder []string) *model.ModelSpec {
	t.Helper()
	spec := &model.ModelSpec{Name: "test_model", Order: order, Variables: vars}
	for _, name := range outputOrder {
		src := outputs[name]
		expr, err := compiler.ParseExpr(src)
		require.NoError(t, err)
		spec.Outputs = append(spec.Outputs, model.OutputDef{Name: name, Source: src, Expr: expr})
	}
	require.Empty(t, compiler.ValidateModel(spec))
	return spec
}

func newTestEvaluator() *Evaluator {
	return New(NewFixedGenerator("run-0001"))
}

func TestEvaluateFirstOrderGradient(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 1}, {Name: "y", Value: 2}},
		map[string]string{"f": "exp(x * y) + sin(x)"},
		[]string{"f"},
	)

	run, err := newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.NoError(t, err)

	assert.Equal(t, "run-0001", run.ID)
	assert.Equal(t, "test_model", run.Model)
	assert.NotEmpty(t, run.ModelHash)
	require.Len(t, run.Results, 1)

	r := run.Results[0]
	e := math.Exp(2)
	assert.Equal(t, int64(1), r.Seq)
	assert.Equal(t, []string{"x", "y"}, r.Variables)
	assert.InDelta(t, e+math.Sin(1), r.Value, tol)
	assert.InDelta(t, 2*e+math.Cos(1), r.Gradient[0], tol)
	assert.InDelta(t, e, r.Gradient[1], tol)
	assert.Nil(t, r.Hessian)
	assert.NotEmpty(t, r.ID)
}

func TestEvaluateSecondOrderHessian(t *testing.T) {
	spec := buildModel(t, model.OrderSecond,
		[]model.VariableDef{{Name: "x", Value: 3}, {Name: "y", Value: 5}},
		map[string]string{"f": "x * y + x ^ 2"},
		[]string{"f"},
	)

	run, err := newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.NoError(t, err)
	require.Len(t, run.Results, 1)

	r := run.Results[0]
	assert.InDelta(t, 24.0, r.Value, tol)
	// df/dx = y + 2x = 11, df/dy = x = 3.
	assert.InDelta(t, 11.0, r.Gradient[0], tol)
	assert.InDelta(t, 3.0, r.Gradient[1], tol)
	// Hessian: [[2, 1], [1, 0]].
	require.Len(t, r.Hessian, 4)
	assert.InDelta(t, 2.0, r.Hessian[0], tol)
	assert.InDelta(t, 1.0, r.Hessian[1], tol)
	assert.InDelta(t, 1.0, r.Hessian[2], tol)
	assert.InDelta(t, 0.0, r.Hessian[3], tol)
}

func TestEvaluateMultipleOutputsSeqOrder(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 2}},
		map[string]string{"a": "x + 1", "b": "x * x", "c": "x - 1"},
		[]string{"a", "b", "c"},
	)

	run, err := newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.NoError(t, err)
	require.Len(t, run.Results, 3)

	// Outputs evaluate in declaration order with increasing seq.
	assert.Equal(t, "a", run.Results[0].Output)
	assert.Equal(t, "b", run.Results[1].Output)
	assert.Equal(t, "c", run.Results[2].Output)
	assert.Equal(t, int64(1), run.Results[0].Seq)
	assert.Equal(t, int64(2), run.Results[1].Seq)
	assert.Equal(t, int64(3), run.Results[2].Seq)
}

func TestEvaluateConstantOutputHasZeroGradient(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 2}},
		map[string]string{"c": "3 + 4"},
		[]string{"c"},
	)

	run, err := newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.NoError(t, err)

	r := run.Results[0]
	assert.Equal(t, 7.0, r.Value)
	assert.Equal(t, []float64{0}, r.Gradient)
}

func TestEvaluateWithBumps(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "rate", Value: 0.03}, {Name: "notional", Value: 1e6}},
		map[string]string{"pv": "notional * rate"},
		[]string{"pv"},
	)

	run, err := newTestEvaluator().Evaluate(context.Background(), spec, map[string]float64{"rate": 0.01})
	require.NoError(t, err)

	// Bumped rate 0.04 shows in both the run inputs and the value.
	assert.Equal(t, 0.04, run.Variables[0].Value)
	assert.InDelta(t, 40000.0, run.Results[0].Value, 1e-9)
	// The bump shifts the evaluation point, not the model: the input
	// ModelSpec is untouched.
	assert.Equal(t, 0.03, spec.Variables[0].Value)
}

func TestEvaluateBumpForUndeclaredVariable(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 1}},
		map[string]string{"f": "x"},
		[]string{"f"},
	)

	_, err := newTestEvaluator().Evaluate(context.Background(), spec, map[string]float64{"typo": 0.1})
	require.Error(t, err)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeBadSeed, re.Code)
	assert.Contains(t, err.Error(), `"typo"`)
}

func TestEvaluateUnknownVariable(t *testing.T) {
	// Assemble the model by hand to bypass validation.
	expr, err := compiler.ParseExpr("x + ghost")
	require.NoError(t, err)
	spec := &model.ModelSpec{
		Name:      "bad",
		Order:     model.OrderFirst,
		Variables: []model.VariableDef{{Name: "x", Value: 1}},
		Outputs:   []model.OutputDef{{Name: "f", Source: "x + ghost", Expr: expr}},
	}

	_, err = newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.Error(t, err)
	assert.True(t, IsUnknownVariable(err))
	assert.Contains(t, err.Error(), "output=f")
}

func TestEvaluateUnknownFunction(t *testing.T) {
	expr, err := compiler.ParseExpr("erf(x)")
	require.NoError(t, err)
	spec := &model.ModelSpec{
		Name:      "bad",
		Order:     model.OrderFirst,
		Variables: []model.VariableDef{{Name: "x", Value: 1}},
		Outputs:   []model.OutputDef{{Name: "f", Source: "erf(x)", Expr: expr}},
	}

	_, err = newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.Error(t, err)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownFunction, re.Code)
}

func TestEvaluateDualExponent(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 2}, {Name: "y", Value: 3}},
		map[string]string{"f": "x ^ y"},
		[]string{"f"},
	)

	_, err := newTestEvaluator().Evaluate(context.Background(), spec, nil)
	require.Error(t, err)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeDualExponent, re.Code)
}

func TestEvaluateCancelledContext(t *testing.T) {
	spec := buildModel(t, model.OrderFirst,
		[]model.VariableDef{{Name: "x", Value: 1}},
		map[string]string{"f": "x"},
		[]string{"f"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEvaluator().Evaluate(ctx, spec, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateDeterministicResultIDs(t *testing.T) {
	build := func() *model.ModelSpec {
		return buildModel(t, model.OrderFirst,
			[]model.VariableDef{{Name: "x", Value: 1.5}},
			map[string]string{"f": "exp(x)"},
			[]string{"f"},
		)
	}

	run1, err := New(NewFixedGenerator("r1")).Evaluate(context.Background(), build(), nil)
	require.NoError(t, err)
	run2, err := New(NewFixedGenerator("r2")).Evaluate(context.Background(), build(), nil)
	require.NoError(t, err)

	// Result IDs are content-addressed: same model, same outputs, same
	// IDs, independent of the run ID.
	assert.Equal(t, run1.Results[0].ID, run2.Results[0].ID)
	assert.Equal(t, run1.ModelHash, run2.ModelHash)
}

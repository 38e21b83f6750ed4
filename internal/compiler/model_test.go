package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tangent/internal/model"
)

func TestCompileModelBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: swap_pv: {
			purpose: "Present value of a toy swap leg"

			variables: {
				rate:     { value: 0.03 }
				notional: { value: 1e6 }
			}

			outputs: {
				pv: { expr: "notional * rate" }
			}
		}
	`)

	require.NoError(t, v.Err())
	modelVal := v.LookupPath(cue.ParsePath("model.swap_pv"))

	spec, err := CompileModel(modelVal)
	require.NoError(t, err)

	assert.Equal(t, "swap_pv", spec.Name)
	assert.Equal(t, "Present value of a toy swap leg", spec.Purpose)
	assert.Equal(t, model.OrderFirst, spec.Order)
	require.Len(t, spec.Variables, 2)
	// Declaration order is significant: it fixes the VarSet order.
	assert.Equal(t, "rate", spec.Variables[0].Name)
	assert.Equal(t, 0.03, spec.Variables[0].Value)
	assert.Equal(t, "notional", spec.Variables[1].Name)
	require.Len(t, spec.Outputs, 1)
	assert.Equal(t, "pv", spec.Outputs[0].Name)
	assert.Equal(t, "notional * rate", spec.Outputs[0].Source)
	require.NotNil(t, spec.Outputs[0].Expr)
	assert.Equal(t, "(notional * rate)", spec.Outputs[0].Expr.String())
}

func TestCompileModelSecondOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: gamma_test: {
			order: 2
			variables: spot: { value: 100.0 }
			outputs: payoff: { expr: "spot ^ 2" }
		}
	`)
	require.NoError(t, v.Err())

	spec, err := CompileModel(v.LookupPath(cue.ParsePath("model.gamma_test")))
	require.NoError(t, err)
	assert.Equal(t, model.OrderSecond, spec.Order)
}

func TestCompileModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		path    string
		wantMsg string
	}{
		{
			name:    "missing_variables",
			src:     `model: m: { outputs: o: { expr: "1" } }`,
			path:    "model.m",
			wantMsg: "variables is required",
		},
		{
			name:    "missing_outputs",
			src:     `model: m: { variables: x: { value: 1.0 } }`,
			path:    "model.m",
			wantMsg: "outputs is required",
		},
		{
			name:    "missing_value",
			src:     `model: m: { variables: x: {}, outputs: o: { expr: "x" } }`,
			path:    "model.m",
			wantMsg: "value is required",
		},
		{
			name:    "missing_expr",
			src:     `model: m: { variables: x: { value: 1.0 }, outputs: o: {} }`,
			path:    "model.m",
			wantMsg: "expr is required",
		},
		{
			name:    "bad_order",
			src:     `model: m: { order: 3, variables: x: { value: 1.0 }, outputs: o: { expr: "x" } }`,
			path:    "model.m",
			wantMsg: "order must be 1 or 2",
		},
		{
			name:    "unparsable_expr",
			src:     `model: m: { variables: x: { value: 1.0 }, outputs: o: { expr: "x +" } }`,
			path:    "model.m",
			wantMsg: "parse error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cuecontext.New()
			v := ctx.CompileString(tt.src)
			require.NoError(t, v.Err())

			_, err := CompileModel(v.LookupPath(cue.ParsePath(tt.path)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompileModelDefaultOrderIsFirst(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: m: {
			variables: x: { value: 2.0 }
			outputs: o: { expr: "exp(x)" }
		}
	`)
	require.NoError(t, v.Err())

	spec, err := CompileModel(v.LookupPath(cue.ParsePath("model.m")))
	require.NoError(t, err)
	assert.Equal(t, model.OrderFirst, spec.Order)
}

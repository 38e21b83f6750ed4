package dual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDual2(t *testing.T, real float64, ids []string, grad, hess []float64) *Dual2 {
	t.Helper()
	d, err := NewDual2(real, ids, grad, hess)
	require.NoError(t, err)
	return d
}

func TestNewDual2Validation(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		grad []float64
		hess []float64
	}{
		{"grad_mismatch", []string{"x", "y"}, []float64{1}, nil},
		{"hess_mismatch", []string{"x", "y"}, []float64{1, 2}, []float64{1, 2, 3}},
		{"duplicate_ids", []string{"x", "x"}, []float64{1, 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDual2(1.0, tt.ids, tt.grad, tt.hess)
			require.Error(t, err)
			assert.True(t, IsDimensionError(err))
		})
	}
}

func TestNewDual2EmptyHessianMeansZero(t *testing.T) {
	d := mustDual2(t, 1.0, []string{"x", "y"}, []float64{1, 2}, nil)
	assert.Equal(t, []float64{0, 0, 0, 0}, d.Hessian())
}

func TestDual2AddScalarBothSides(t *testing.T) {
	d := mustDual2(t, 1.0, []string{"v0", "v1"}, []float64{1, 2}, nil)

	result := d.AddScalar(10).AddScalar(15)

	assert.Equal(t, 26.0, result.Real())
	assert.Equal(t, []float64{1, 2}, result.Gradient())
	assert.Same(t, d.Vars(), result.Vars())
}

func TestDual2AddUnionReconciliation(t *testing.T) {
	d1 := mustDual2(t, 1.0, []string{"v0", "v1"}, []float64{1, 2}, nil)
	d2 := mustDual2(t, 2.0, []string{"v0", "v2"}, []float64{0, 3}, nil)

	result := d1.Add(d2)

	assert.Equal(t, 3.0, result.Real())
	assert.Equal(t, []string{"v0", "v1", "v2"}, result.Vars().IDs())
	assert.Equal(t, []float64{1, 2, 3}, result.Gradient())
	assert.Equal(t, make([]float64, 9), result.Hessian())
}

func TestDual2UnionAlignsHessianRowsAndColumns(t *testing.T) {
	// d1 over [x, y] with a full symmetric Hessian.
	d1 := mustDual2(t, 1.0, []string{"x", "y"}, []float64{1, 2},
		[]float64{
			10, 20,
			20, 40,
		})
	// d2 over [y, z]; its Hessian entries must land on the (y, z) block
	// of the union [x, y, z], with x rows/columns zero-filled.
	d2 := mustDual2(t, 2.0, []string{"y", "z"}, []float64{5, 6},
		[]float64{
			1, 2,
			2, 4,
		})

	result := d1.Add(d2)

	require.Equal(t, []string{"x", "y", "z"}, result.Vars().IDs())
	assert.Equal(t, []float64{1, 7, 6}, result.Gradient())
	assert.Equal(t, []float64{
		10, 20, 0,
		20, 41, 2,
		0, 2, 4,
	}, result.Hessian())
}

func TestDual2FastPathSharesVarSet(t *testing.T) {
	seeds, err := SeedSecondOrder([]string{"x", "y"}, []float64{1, 2})
	require.NoError(t, err)
	x, y := seeds["x"], seeds["y"]
	require.Same(t, x.Vars(), y.Vars())

	result := x.Add(y)

	assert.Same(t, x.Vars(), result.Vars())
	assert.Equal(t, 3.0, result.Real())
	assert.Equal(t, []float64{1, 1}, result.Gradient())
}

func TestDual2MulProductRuleHessian(t *testing.T) {
	// f = x * y at x=3, y=5. Gradient (5, 3); Hessian [[0,1],[1,0]].
	seeds, err := SeedSecondOrder([]string{"x", "y"}, []float64{3, 5})
	require.NoError(t, err)

	f := seeds["x"].Mul(seeds["y"])

	assert.Equal(t, 15.0, f.Real())
	assert.Equal(t, []float64{5, 3}, f.Gradient())
	assert.Equal(t, []float64{
		0, 1,
		1, 0,
	}, f.Hessian())
}

func TestDual2PowCurvature(t *testing.T) {
	// f = x^3 at x=2: f=8, f'=12, f''=12.
	x := SeedDual2(2.0, "x")

	f := x.Pow(3)

	assert.InDelta(t, 8.0, f.Real(), 1e-12)
	assert.InDelta(t, 12.0, f.Gradient()[0], 1e-12)
	assert.InDelta(t, 12.0, f.HessianAt(0, 0), 1e-12)
}

func TestDual2HessianSymmetryPreserved(t *testing.T) {
	// Symmetric inputs stay symmetric through mul and chain ops.
	seeds, err := SeedSecondOrder([]string{"x", "y"}, []float64{1.5, 2.5})
	require.NoError(t, err)

	f := seeds["x"].Mul(seeds["y"]).Exp()

	n := f.Vars().Len()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, f.HessianAt(i, j), f.HessianAt(j, i))
		}
	}
}

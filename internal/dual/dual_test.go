package dual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDual(t *testing.T, real float64, ids []string, grad []float64) *Dual {
	t.Helper()
	d, err := NewDual(real, ids, grad)
	require.NoError(t, err)
	return d
}

func TestNewDualValidation(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		grad []float64
	}{
		{"grad_too_short", []string{"x", "y"}, []float64{1}},
		{"grad_too_long", []string{"x"}, []float64{1, 2}},
		{"duplicate_ids", []string{"x", "x"}, []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDual(1.0, tt.ids, tt.grad)
			require.Error(t, err)
			assert.True(t, IsDimensionError(err))
		})
	}
}

func TestAddScalarBothSides(t *testing.T) {
	d := mustDual(t, 1.0, []string{"v0", "v1"}, []float64{1, 2})

	// 10.0 + d + 15.0
	result := d.AddScalar(10).AddScalar(15)

	assert.Equal(t, 26.0, result.Real())
	assert.Equal(t, []float64{1, 2}, result.Gradient())
	// Scalar broadcast shares the VarSet allocation unchanged.
	assert.Same(t, d.Vars(), result.Vars())
}

func TestAddScalarCommutes(t *testing.T) {
	d := mustDual(t, 1.0, []string{"v0", "v1"}, []float64{1, 2})

	left, err := Add(Scalar(10), d)
	require.NoError(t, err)
	right, err := Add(d, Scalar(10))
	require.NoError(t, err)

	assert.True(t, left.(*Dual).Equal(right.(*Dual)))
}

func TestAddUnionReconciliation(t *testing.T) {
	d1 := mustDual(t, 1.0, []string{"v0", "v1"}, []float64{1, 2})
	d2 := mustDual(t, 2.0, []string{"v0", "v2"}, []float64{0, 3})

	result := d1.Add(d2)

	assert.Equal(t, 3.0, result.Real())
	assert.Equal(t, []string{"v0", "v1", "v2"}, result.Vars().IDs())
	assert.Equal(t, []float64{1, 2, 3}, result.Gradient())
}

func TestAddZeroFillOnDisjointUnion(t *testing.T) {
	d1 := mustDual(t, 1.0, []string{"a"}, []float64{5})
	d2 := mustDual(t, 2.0, []string{"b"}, []float64{7})

	result := d1.Add(d2)

	// Each variable keeps its original partial; the other operand
	// contributes exactly zero.
	assert.Equal(t, []string{"a", "b"}, result.Vars().IDs())
	assert.Equal(t, []float64{5, 7}, result.Gradient())
}

func TestAddIdenticalAllocationSharesVarSet(t *testing.T) {
	seeds, err := SeedFirstOrder([]string{"x", "y"}, []float64{3, 4})
	require.NoError(t, err)
	x, y := seeds["x"], seeds["y"]
	require.Same(t, x.Vars(), y.Vars())

	result := x.Add(y)

	// Fast path: no new VarSet allocation, elementwise-summed partials.
	assert.Same(t, x.Vars(), result.Vars())
	assert.Equal(t, 7.0, result.Real())
	assert.Equal(t, []float64{1, 1}, result.Gradient())
}

func TestAddValueEquivalentMatchesIdenticalAllocation(t *testing.T) {
	// Independently constructed but content-identical VarSets must give
	// the same numeric result as the shared-allocation path.
	d1 := mustDual(t, 1.5, []string{"x", "y"}, []float64{1, 2})
	d2 := mustDual(t, 2.5, []string{"x", "y"}, []float64{3, 4})
	require.NotSame(t, d1.Vars(), d2.Vars())
	require.Equal(t, VarsSameValues, VarsCmp(d1.Vars(), d2.Vars()))

	result := d1.Add(d2)

	assert.Equal(t, 4.0, result.Real())
	assert.Equal(t, []float64{4, 6}, result.Gradient())
	// The result shares one of the existing allocations rather than
	// building a new one.
	assert.Same(t, d1.Vars(), result.Vars())
}

func TestAddSameVariableSeeds(t *testing.T) {
	// Dual(x=3.0) + Dual(x=3.0) over the same single variable.
	a := SeedDual(3.0, "x")
	b := SeedDual(3.0, "x")

	result := a.Add(b)

	assert.Equal(t, 6.0, result.Real())
	assert.Equal(t, []string{"x"}, result.Vars().IDs())
	assert.Equal(t, []float64{2}, result.Gradient())
}

func TestSubsetUnionPadsNeverTruncates(t *testing.T) {
	big := mustDual(t, 1.0, []string{"x", "y", "z"}, []float64{1, 2, 3})
	small := mustDual(t, 2.0, []string{"y"}, []float64{10})

	result := big.Add(small)

	assert.Equal(t, []string{"x", "y", "z"}, result.Vars().IDs())
	assert.Equal(t, []float64{1, 12, 3}, result.Gradient())
}

func TestPartialFor(t *testing.T) {
	d := mustDual(t, 1.0, []string{"x", "y"}, []float64{2, 3})
	assert.Equal(t, 2.0, d.PartialFor("x"))
	assert.Equal(t, 3.0, d.PartialFor("y"))
	assert.Equal(t, 0.0, d.PartialFor("absent"))
}

func TestDualImmutableUnderArithmetic(t *testing.T) {
	d1 := mustDual(t, 1.0, []string{"v0", "v1"}, []float64{1, 2})
	d2 := mustDual(t, 2.0, []string{"v0", "v2"}, []float64{0, 3})

	_ = d1.Add(d2)

	// Operands are untouched by reconciliation.
	assert.Equal(t, []string{"v0", "v1"}, d1.Vars().IDs())
	assert.Equal(t, []float64{1, 2}, d1.Gradient())
	assert.Equal(t, []string{"v0", "v2"}, d2.Vars().IDs())
	assert.Equal(t, []float64{0, 3}, d2.Gradient())
}

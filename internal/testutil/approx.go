package testutil

import "math"

// DefaultTolerance is the absolute tolerance used when a scenario
// expectation does not specify one.
const DefaultTolerance = 1e-9

// Close reports whether two floats agree within tol, treated as an
// absolute bound for small values and a relative bound for large ones.
// NaN never matches anything, including NaN.
func Close(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale > 1 {
		return diff <= tol*scale
	}
	return diff <= tol
}

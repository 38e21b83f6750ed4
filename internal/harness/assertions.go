package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tangent/internal/model"
	"github.com/roach88/tangent/internal/testutil"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Output   string // Output the expectation targets
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("output %s: expected %s, got %s", e.Output, e.Expected, e.Actual)
}

// checkExpectation validates one expectation against the evaluated
// runs.
func checkExpectation(runs []*model.Run, exp *Expectation) error {
	run, result, err := findResult(runs, exp)
	if err != nil {
		return err
	}

	tol := exp.Tolerance
	if tol == 0 {
		tol = testutil.DefaultTolerance
	}

	if !testutil.Close(result.Value, exp.Value, tol) {
		return &AssertionError{
			Output:   exp.Output,
			Expected: fmt.Sprintf("value %v", exp.Value),
			Actual:   fmt.Sprintf("value %v", result.Value),
		}
	}

	for name, want := range exp.Gradient {
		got, ok := partial(result, name)
		if !ok {
			return &AssertionError{
				Output:   exp.Output,
				Expected: fmt.Sprintf("partial for %q", name),
				Actual:   fmt.Sprintf("no such variable in model %s", run.Model),
			}
		}
		if !testutil.Close(got, want, tol) {
			return &AssertionError{
				Output:   exp.Output,
				Expected: fmt.Sprintf("d/d%s = %v", name, want),
				Actual:   fmt.Sprintf("d/d%s = %v", name, got),
			}
		}
	}

	for key, want := range exp.Hessian {
		got, err := hessianEntry(result, key)
		if err != nil {
			return &AssertionError{
				Output:   exp.Output,
				Expected: fmt.Sprintf("hessian entry %q", key),
				Actual:   err.Error(),
			}
		}
		if !testutil.Close(got, want, tol) {
			return &AssertionError{
				Output:   exp.Output,
				Expected: fmt.Sprintf("d2/d(%s) = %v", key, want),
				Actual:   fmt.Sprintf("d2/d(%s) = %v", key, got),
			}
		}
	}

	return nil
}

// findResult locates the result an expectation targets. The model name
// is optional when the scenario evaluated a single model.
func findResult(runs []*model.Run, exp *Expectation) (*model.Run, *model.Result, error) {
	for _, run := range runs {
		if exp.Model != "" && run.Model != exp.Model {
			continue
		}
		for i := range run.Results {
			if run.Results[i].Output == exp.Output {
				return run, &run.Results[i], nil
			}
		}
	}
	if exp.Model != "" {
		return nil, nil, fmt.Errorf("output %s not found in model %s", exp.Output, exp.Model)
	}
	return nil, nil, fmt.Errorf("output %s not found in any evaluated model", exp.Output)
}

// partial returns the gradient entry for a named variable.
func partial(r *model.Result, name string) (float64, bool) {
	for i, v := range r.Variables {
		if v == name {
			return r.Gradient[i], true
		}
	}
	return 0, false
}

// hessianEntry resolves a "var1,var2" key against the flattened
// row-major Hessian.
func hessianEntry(r *model.Result, key string) (float64, error) {
	if r.Hessian == nil {
		return 0, fmt.Errorf("result has no Hessian (order-1 run)")
	}
	a, b, ok := strings.Cut(key, ",")
	if !ok {
		return 0, fmt.Errorf("want \"var1,var2\", got %q", key)
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)

	i, ok := index(r.Variables, a)
	if !ok {
		return 0, fmt.Errorf("unknown variable %q", a)
	}
	j, ok := index(r.Variables, b)
	if !ok {
		return 0, fmt.Errorf("unknown variable %q", b)
	}
	return r.Hessian[i*len(r.Variables)+j], nil
}

func index(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

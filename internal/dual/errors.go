package dual

import (
	"errors"
	"fmt"
)

// OrderMismatchError reports an attempt to combine a first-order dual
// with a second-order dual.
//
// Mixing derivative orders is a program logic error, not a runtime
// contingency: promotion would fabricate curvature the first-order
// operand never tracked, truncation would silently drop curvature the
// second-order operand carries. The engine refuses both and surfaces
// the malformed combination to the caller.
type OrderMismatchError struct {
	// Op is the operator that was attempted (e.g. "add", "mul").
	Op string

	// LeftKind and RightKind name the operand kinds (e.g. "dual",
	// "dual2") in argument order.
	LeftKind  string
	RightKind string
}

// Error implements the error interface.
func (e *OrderMismatchError) Error() string {
	return fmt.Sprintf("order mismatch: cannot %s %s and %s (no implicit promotion between derivative orders)",
		e.Op, e.LeftKind, e.RightKind)
}

// IsOrderMismatch returns true if the error is an order mismatch.
// Uses errors.As to handle wrapped errors.
func IsOrderMismatch(err error) bool {
	var om *OrderMismatchError
	return errors.As(err, &om)
}

// newOrderMismatch creates an OrderMismatchError for the given operator
// and operand kinds.
func newOrderMismatch(op string, left, right Number) *OrderMismatchError {
	return &OrderMismatchError{Op: op, LeftKind: left.Kind(), RightKind: right.Kind()}
}

// DimensionError reports a derivative container whose shape disagrees
// with its VarSet, or a VarSet with duplicate identifiers.
//
// This is a contract violation detected at construction time. Operands
// inside the arithmetic engine are assumed well-formed; the per-element
// combinators never re-check shapes.
type DimensionError struct {
	// Field names the offending container ("vars", "grad", "hess").
	Field string

	// Message describes the violation.
	Message string
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension error: %s: %s", e.Field, e.Message)
}

// IsDimensionError returns true if the error is a dimension violation.
// Uses errors.As to handle wrapped errors.
func IsDimensionError(err error) bool {
	var de *DimensionError
	return errors.As(err, &de)
}

// NewDuplicateVarError creates a DimensionError for a repeated
// identifier in a VarSet.
func NewDuplicateVarError(id string) *DimensionError {
	return &DimensionError{
		Field:   "vars",
		Message: fmt.Sprintf("duplicate identifier %q", id),
	}
}

// newGradSizeError creates a DimensionError for a gradient whose length
// disagrees with the VarSet length.
func newGradSizeError(got, want int) *DimensionError {
	return &DimensionError{
		Field:   "grad",
		Message: fmt.Sprintf("gradient length %d does not match %d variables", got, want),
	}
}

// newHessSizeError creates a DimensionError for a Hessian whose length
// disagrees with the squared VarSet length.
func newHessSizeError(got, want int) *DimensionError {
	return &DimensionError{
		Field:   "hess",
		Message: fmt.Sprintf("hessian length %d does not match %d entries", got, want),
	}
}

package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/tangent/internal/dual"
)

// RuntimeError represents an error detected during model evaluation.
//
// Runtime errors include:
//   - Order mismatch: first- and second-order duals met in one expression
//   - Unknown variable: expression references a variable with no seed
//   - Unknown function: expression calls a function the kernel lacks
//   - Dual exponent: power with a non-constant exponent
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Model identifies the model being evaluated.
	Model string

	// Output identifies the output expression (when known).
	Output string

	// Err is the underlying error, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeOrderMismatch indicates first- and second-order duals were
	// combined.
	ErrCodeOrderMismatch RuntimeErrorCode = "ORDER_MISMATCH"

	// ErrCodeUnknownVariable indicates an expression referenced a
	// variable absent from the seed scope.
	ErrCodeUnknownVariable RuntimeErrorCode = "UNKNOWN_VARIABLE"

	// ErrCodeUnknownFunction indicates a call to a function the kernel
	// does not implement.
	ErrCodeUnknownFunction RuntimeErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeDualExponent indicates a power whose exponent carries
	// sensitivities; only constant exponents are supported.
	ErrCodeDualExponent RuntimeErrorCode = "DUAL_EXPONENT"

	// ErrCodeBadSeed indicates the seed scope could not be built
	// (duplicate variables, bump for an undeclared variable).
	ErrCodeBadSeed RuntimeErrorCode = "BAD_SEED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Model != "" && e.Output != "" {
		return fmt.Sprintf("%s: %s (model=%s, output=%s)", e.Code, e.Message, e.Model, e.Output)
	}
	if e.Model != "" {
		return fmt.Sprintf("%s: %s (model=%s)", e.Code, e.Message, e.Model)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error to errors.As/Is.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsOrderMismatch returns true if the error is an order mismatch,
// either as a RuntimeError or as the kernel's own error type.
// Uses errors.As to handle wrapped errors.
func IsOrderMismatch(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == ErrCodeOrderMismatch {
		return true
	}
	return dual.IsOrderMismatch(err)
}

// IsUnknownVariable returns true if the error reports a variable
// missing from the seed scope.
func IsUnknownVariable(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeUnknownVariable
}

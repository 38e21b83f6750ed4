package compiler

import (
	"fmt"

	"github.com/roach88/tangent/internal/dual"
	"github.com/roach88/tangent/internal/model"
)

// Validation error codes (E200-E299)
const (
	ErrModelNameEmpty    = "E200" // model name is required
	ErrInvalidIdentifier = "E201" // variable/output name not a valid identifier
	ErrDuplicateName     = "E202" // duplicate variable or output name
	ErrUnknownVariable   = "E203" // expression references undeclared variable
	ErrUnknownFunction   = "E204" // expression calls unknown function
	ErrInvalidOrder      = "E205" // derivative order outside {1, 2}
	ErrNoVariables       = "E206" // model declares no variables
	ErrNoOutputs         = "E207" // model declares no outputs
	ErrMissingExpr       = "E208" // output has no parsed expression
)

// ValidationError represents a model validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateModel validates a compiled ModelSpec.
// Returns all errors found (does not fail-fast).
//
// Resolution happens here: every variable reference must name a
// declared variable and every call must name a function the
// dual-number engine implements. A model that validates cleanly cannot
// fail variable or function lookup at evaluation time.
func ValidateModel(m *model.ModelSpec) []ValidationError {
	var errs []ValidationError

	if m.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "model name is required",
			Code:    ErrModelNameEmpty,
		})
	}
	if !model.ValidOrders[m.Order] {
		errs = append(errs, ValidationError{
			Field:   "order",
			Message: fmt.Sprintf("order must be 1 or 2, got %d", m.Order),
			Code:    ErrInvalidOrder,
		})
	}
	if len(m.Variables) == 0 {
		errs = append(errs, ValidationError{
			Field:   "variables",
			Message: "at least one variable is required",
			Code:    ErrNoVariables,
		})
	}
	if len(m.Outputs) == 0 {
		errs = append(errs, ValidationError{
			Field:   "outputs",
			Message: "at least one output is required",
			Code:    ErrNoOutputs,
		})
	}

	// Track names for duplicate detection; declared feeds reference
	// resolution below.
	declared := make(map[string]bool, len(m.Variables))
	for _, v := range m.Variables {
		field := "variables." + v.Name
		if !model.ValidIdentifier(v.Name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid identifier %q", v.Name),
				Code:    ErrInvalidIdentifier,
			})
		}
		if declared[v.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate variable %q", v.Name),
				Code:    ErrDuplicateName,
			})
		}
		declared[v.Name] = true
	}

	seenOutputs := make(map[string]bool, len(m.Outputs))
	for _, o := range m.Outputs {
		field := "outputs." + o.Name
		if !model.ValidIdentifier(o.Name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid identifier %q", o.Name),
				Code:    ErrInvalidIdentifier,
			})
		}
		if seenOutputs[o.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate output %q", o.Name),
				Code:    ErrDuplicateName,
			})
		}
		seenOutputs[o.Name] = true

		if o.Expr == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "output has no parsed expression",
				Code:    ErrMissingExpr,
			})
			continue
		}

		for _, name := range model.Variables(o.Expr) {
			if !declared[name] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("expression references undeclared variable %q", name),
					Code:    ErrUnknownVariable,
				})
			}
		}
		for _, fn := range model.Functions(o.Expr) {
			if !knownFunction(fn) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("unknown function %q", fn),
					Code:    ErrUnknownFunction,
				})
			}
		}
	}

	return errs
}

// knownFunction reports whether the dual-number engine implements the
// named unary function.
func knownFunction(name string) bool {
	_, ok := dual.Apply(dual.UnaryFunc(name), dual.Scalar(1))
	return ok
}

// Package compiler turns CUE model definitions into compiled
// model.ModelSpec values and parses their output expressions.
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess). The
// compiler is the validating boundary of the system: specs that leave
// it are well-formed, and the evaluation engine assumes as much.
package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tangent/internal/model"
)

// CompileModel parses a CUE value into a ModelSpec.
//
// The CUE value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: swap_pv: { ... }`)
//	spec, err := CompileModel(v.LookupPath(cue.ParsePath("model.swap_pv")))
//
// Output expressions are parsed but not resolved against the variable
// table; ValidateModel performs resolution.
func CompileModel(v cue.Value) (*model.ModelSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &model.ModelSpec{Order: model.OrderFirst}

	// Model name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	// purpose (optional)
	purposeVal := v.LookupPath(cue.ParsePath("purpose"))
	if purposeVal.Exists() {
		purpose, err := purposeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Purpose = purpose
	}

	// order (optional, defaults to first order)
	orderVal := v.LookupPath(cue.ParsePath("order"))
	if orderVal.Exists() {
		order, err := orderVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !model.ValidOrders[model.Order(order)] {
			return nil, &CompileError{
				Field:   "order",
				Message: fmt.Sprintf("order must be 1 or 2, got %d", order),
				Pos:     orderVal.Pos(),
			}
		}
		spec.Order = model.Order(order)
	}

	// variables (required, at least one)
	var err error
	spec.Variables, err = parseVariables(v)
	if err != nil {
		return nil, err
	}
	if len(spec.Variables) == 0 {
		return nil, &CompileError{
			Field:   "variables",
			Message: "at least one variable is required",
			Pos:     v.Pos(),
		}
	}

	// outputs (required, at least one)
	spec.Outputs, err = parseOutputs(v)
	if err != nil {
		return nil, err
	}
	if len(spec.Outputs) == 0 {
		return nil, &CompileError{
			Field:   "outputs",
			Message: "at least one output is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// parseVariables extracts variable definitions in declaration order.
func parseVariables(v cue.Value) ([]model.VariableDef, error) {
	varsVal := v.LookupPath(cue.ParsePath("variables"))
	if !varsVal.Exists() {
		return nil, &CompileError{
			Field:   "variables",
			Message: "variables is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := varsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []model.VariableDef
	for iter.Next() {
		name := iter.Selector().Unquoted()
		field := iter.Value()

		valueVal := field.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return nil, &CompileError{
				Field:   "variables." + name,
				Message: "value is required",
				Pos:     field.Pos(),
			}
		}
		value, err := valueVal.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &CompileError{
				Field:   "variables." + name,
				Message: "value must be finite",
				Pos:     valueVal.Pos(),
			}
		}

		defs = append(defs, model.VariableDef{Name: name, Value: value})
	}
	return defs, nil
}

// parseOutputs extracts output definitions in declaration order and
// parses each expression.
func parseOutputs(v cue.Value) ([]model.OutputDef, error) {
	outsVal := v.LookupPath(cue.ParsePath("outputs"))
	if !outsVal.Exists() {
		return nil, &CompileError{
			Field:   "outputs",
			Message: "outputs is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := outsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []model.OutputDef
	for iter.Next() {
		name := iter.Selector().Unquoted()
		field := iter.Value()

		exprVal := field.LookupPath(cue.ParsePath("expr"))
		if !exprVal.Exists() {
			return nil, &CompileError{
				Field:   "outputs." + name,
				Message: "expr is required",
				Pos:     field.Pos(),
			}
		}
		source, err := exprVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		parsed, err := ParseExpr(source)
		if err != nil {
			return nil, &CompileError{
				Field:   "outputs." + name,
				Message: err.Error(),
				Pos:     exprVal.Pos(),
			}
		}

		defs = append(defs, model.OutputDef{Name: name, Source: source, Expr: parsed})
	}
	return defs, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

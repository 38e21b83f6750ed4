package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tangent/internal/dual"
	"github.com/roach88/tangent/internal/model"
)

// Evaluator runs compiled models through the dual-number kernel.
//
// An Evaluator is cheap and stateless apart from its clock; one may be
// reused across models and scenarios. Each Evaluate call produces an
// independent Run.
type Evaluator struct {
	runGen RunIDGenerator
	clock  *Clock
}

// New creates an Evaluator with the given run ID generator.
func New(runGen RunIDGenerator) *Evaluator {
	return &Evaluator{
		runGen: runGen,
		clock:  NewClock(),
	}
}

// Evaluate seeds the model's variables, applies any scenario bumps
// (additive shifts to base values), and evaluates every output in
// declaration order.
//
// Every bump key must name a declared variable; an unknown key is a
// BAD_SEED error, not a silent no-op, because a typo in a bump file
// would otherwise fabricate an unshifted scenario.
func (e *Evaluator) Evaluate(ctx context.Context, spec *model.ModelSpec, bumps map[string]float64) (*model.Run, error) {
	names := spec.VariableNames()
	values := spec.VariableValues()

	declared := make(map[string]int, len(names))
	for i, n := range names {
		declared[n] = i
	}
	for k, shift := range bumps {
		i, ok := declared[k]
		if !ok {
			return nil, &RuntimeError{
				Code:    ErrCodeBadSeed,
				Message: fmt.Sprintf("bump for undeclared variable %q", k),
				Model:   spec.Name,
			}
		}
		values[i] += shift
	}

	env, err := seedEnv(spec, names, values)
	if err != nil {
		return nil, err
	}

	hash, err := spec.Hash()
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodeBadSeed,
			Message: "model hash failed",
			Model:   spec.Name,
			Err:     err,
		}
	}

	run := &model.Run{
		ID:        e.runGen.Generate(),
		Model:     spec.Name,
		ModelHash: hash,
		Order:     spec.Order,
		Variables: make([]model.VariableDef, len(names)),
	}
	for i, n := range names {
		run.Variables[i] = model.VariableDef{Name: n, Value: values[i]}
	}

	for _, out := range spec.Outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		num, err := e.evalExpr(spec, out, env, out.Expr)
		if err != nil {
			return nil, err
		}

		result, err := e.collect(spec, out, names, num, hash)
		if err != nil {
			return nil, err
		}
		run.Results = append(run.Results, result)

		slog.Debug("output evaluated",
			"model", spec.Name,
			"output", out.Name,
			"seq", result.Seq,
			"value", result.Value,
		)
	}

	return run, nil
}

// seedEnv builds the evaluation environment: one dual per variable,
// all sharing a single VarSet allocation.
func seedEnv(spec *model.ModelSpec, names []string, values []float64) (map[string]dual.Number, error) {
	env := make(map[string]dual.Number, len(names))
	switch spec.Order {
	case model.OrderSecond:
		seeds, err := dual.SeedSecondOrder(names, values)
		if err != nil {
			return nil, &RuntimeError{Code: ErrCodeBadSeed, Message: err.Error(), Model: spec.Name, Err: err}
		}
		for n, d := range seeds {
			env[n] = d
		}
	default:
		seeds, err := dual.SeedFirstOrder(names, values)
		if err != nil {
			return nil, &RuntimeError{Code: ErrCodeBadSeed, Message: err.Error(), Model: spec.Name, Err: err}
		}
		for n, d := range seeds {
			env[n] = d
		}
	}
	return env, nil
}

// evalExpr walks the expression tree over dual.Number dispatch.
func (e *Evaluator) evalExpr(spec *model.ModelSpec, out model.OutputDef, env map[string]dual.Number, expr model.Expr) (dual.Number, error) {
	switch x := expr.(type) {
	case model.NumLit:
		return dual.Scalar(float64(x)), nil

	case model.VarRef:
		n, ok := env[string(x)]
		if !ok {
			return nil, &RuntimeError{
				Code:    ErrCodeUnknownVariable,
				Message: fmt.Sprintf("no seed for variable %q", string(x)),
				Model:   spec.Name,
				Output:  out.Name,
			}
		}
		return n, nil

	case *model.BinaryExpr:
		left, err := e.evalExpr(spec, out, env, x.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpr(spec, out, env, x.Right)
		if err != nil {
			return nil, err
		}
		return e.combine(spec, out, x.Op, left, right)

	case *model.CallExpr:
		arg, err := e.evalExpr(spec, out, env, x.Arg)
		if err != nil {
			return nil, err
		}
		result, ok := dual.Apply(dual.UnaryFunc(x.Func), arg)
		if !ok {
			return nil, &RuntimeError{
				Code:    ErrCodeUnknownFunction,
				Message: fmt.Sprintf("unknown function %q", x.Func),
				Model:   spec.Name,
				Output:  out.Name,
			}
		}
		return result, nil

	case *model.NegExpr:
		arg, err := e.evalExpr(spec, out, env, x.Arg)
		if err != nil {
			return nil, err
		}
		return dual.Neg(arg), nil

	default:
		panic(fmt.Sprintf("engine: Expr kind outside the sealed set: %T", expr))
	}
}

// combine dispatches one binary operator, wrapping kernel order
// mismatches in a RuntimeError that names the model and output.
func (e *Evaluator) combine(spec *model.ModelSpec, out model.OutputDef, op model.BinaryOp, left, right dual.Number) (dual.Number, error) {
	var result dual.Number
	var err error
	switch op {
	case model.OpAdd:
		result, err = dual.Add(left, right)
	case model.OpSub:
		result, err = dual.Sub(left, right)
	case model.OpMul:
		result, err = dual.Mul(left, right)
	case model.OpDiv:
		result, err = dual.Div(left, right)
	case model.OpPow:
		exp, ok := right.(dual.Scalar)
		if !ok {
			return nil, &RuntimeError{
				Code:    ErrCodeDualExponent,
				Message: "exponent must be a constant expression",
				Model:   spec.Name,
				Output:  out.Name,
			}
		}
		return dual.Pow(left, float64(exp)), nil
	default:
		panic(fmt.Sprintf("engine: binary operator outside the grammar: %q", op))
	}
	if err != nil {
		if dual.IsOrderMismatch(err) {
			return nil, &RuntimeError{
				Code:    ErrCodeOrderMismatch,
				Message: err.Error(),
				Model:   spec.Name,
				Output:  out.Name,
				Err:     err,
			}
		}
		return nil, err
	}
	return result, nil
}

// collect turns an evaluated Number into a Result aligned to the
// model's variable order, stamped with the next seq.
func (e *Evaluator) collect(spec *model.ModelSpec, out model.OutputDef, names []string, num dual.Number, modelHash string) (model.Result, error) {
	n := len(names)
	result := model.Result{
		Seq:       e.clock.Next(),
		Output:    out.Name,
		Source:    out.Source,
		Value:     num.Real(),
		Variables: names,
		Gradient:  make([]float64, n),
	}
	if spec.Order == model.OrderSecond {
		result.Hessian = make([]float64, n*n)
	}

	switch d := num.(type) {
	case dual.Scalar:
		// Constant output: zero sensitivity to every variable.
	case *dual.Dual:
		for i, name := range names {
			result.Gradient[i] = d.PartialFor(name)
		}
	case *dual.Dual2:
		vars := d.Vars()
		for i, name := range names {
			result.Gradient[i] = d.PartialFor(name)
			vi := vars.Index(name)
			if vi < 0 {
				continue
			}
			for j, other := range names {
				if vj := vars.Index(other); vj >= 0 {
					result.Hessian[i*n+j] = d.HessianAt(vi, vj)
				}
			}
		}
	}

	id, err := model.ResultID(modelHash, out.Name, result.Payload())
	if err != nil {
		return model.Result{}, &RuntimeError{
			Code:    ErrCodeBadSeed,
			Message: "result id failed",
			Model:   spec.Name,
			Output:  out.Name,
			Err:     err,
		}
	}
	result.ID = id
	return result, nil
}

package dual

import "math"

// Number is a sealed interface over the three numeric kinds the engine
// dispatches across: Scalar, *Dual and *Dual2. Only these three types
// implement it.
//
// Binary operators are total over the nine (kind, kind) pairs. Seven
// pairs produce a value; the two mixed-order pairs (*Dual with *Dual2)
// produce an OrderMismatchError in either argument order.
type Number interface {
	number() // Sealed - only Scalar, *Dual and *Dual2 implement it

	// Kind returns the kind name: "scalar", "dual" or "dual2".
	Kind() string

	// Real returns the value component.
	Real() float64
}

// Scalar is a plain float64 with no sensitivity data. It broadcasts
// into either dual order with zero derivative contribution.
type Scalar float64

func (Scalar) number() {}

// Kind implements Number.
func (Scalar) Kind() string { return "scalar" }

// Real implements Number.
func (s Scalar) Real() float64 { return float64(s) }

func (*Dual) number() {}

// Kind implements Number.
func (*Dual) Kind() string { return "dual" }

func (*Dual2) number() {}

// Kind implements Number.
func (*Dual2) Kind() string { return "dual2" }

// Add returns a + b, dispatching over operand kinds. Scalar addition is
// commutative with either dual kind: s + d and d + s produce
// structurally equal results.
func Add(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Scalar:
		switch y := b.(type) {
		case Scalar:
			return x + y, nil
		case *Dual:
			return y.AddScalar(float64(x)), nil
		case *Dual2:
			return y.AddScalar(float64(x)), nil
		}
	case *Dual:
		switch y := b.(type) {
		case Scalar:
			return x.AddScalar(float64(y)), nil
		case *Dual:
			return x.Add(y), nil
		case *Dual2:
			return nil, newOrderMismatch("add", a, b)
		}
	case *Dual2:
		switch y := b.(type) {
		case Scalar:
			return x.AddScalar(float64(y)), nil
		case *Dual:
			return nil, newOrderMismatch("add", a, b)
		case *Dual2:
			return x.Add(y), nil
		}
	}
	panic("dual: Number kind outside the sealed set")
}

// Sub returns a - b, dispatching over operand kinds.
func Sub(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Scalar:
		switch y := b.(type) {
		case Scalar:
			return x - y, nil
		case *Dual:
			return y.ScalarSub(float64(x)), nil
		case *Dual2:
			return y.ScalarSub(float64(x)), nil
		}
	case *Dual:
		switch y := b.(type) {
		case Scalar:
			return x.SubScalar(float64(y)), nil
		case *Dual:
			return x.Sub(y), nil
		case *Dual2:
			return nil, newOrderMismatch("sub", a, b)
		}
	case *Dual2:
		switch y := b.(type) {
		case Scalar:
			return x.SubScalar(float64(y)), nil
		case *Dual:
			return nil, newOrderMismatch("sub", a, b)
		case *Dual2:
			return x.Sub(y), nil
		}
	}
	panic("dual: Number kind outside the sealed set")
}

// Mul returns a * b, dispatching over operand kinds.
func Mul(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Scalar:
		switch y := b.(type) {
		case Scalar:
			return x * y, nil
		case *Dual:
			return y.MulScalar(float64(x)), nil
		case *Dual2:
			return y.MulScalar(float64(x)), nil
		}
	case *Dual:
		switch y := b.(type) {
		case Scalar:
			return x.MulScalar(float64(y)), nil
		case *Dual:
			return x.Mul(y), nil
		case *Dual2:
			return nil, newOrderMismatch("mul", a, b)
		}
	case *Dual2:
		switch y := b.(type) {
		case Scalar:
			return x.MulScalar(float64(y)), nil
		case *Dual:
			return nil, newOrderMismatch("mul", a, b)
		case *Dual2:
			return x.Mul(y), nil
		}
	}
	panic("dual: Number kind outside the sealed set")
}

// Div returns a / b, dispatching over operand kinds.
func Div(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Scalar:
		switch y := b.(type) {
		case Scalar:
			return x / y, nil
		case *Dual:
			return y.ScalarDiv(float64(x)), nil
		case *Dual2:
			return y.ScalarDiv(float64(x)), nil
		}
	case *Dual:
		switch y := b.(type) {
		case Scalar:
			return x.DivScalar(float64(y)), nil
		case *Dual:
			return x.Div(y), nil
		case *Dual2:
			return nil, newOrderMismatch("div", a, b)
		}
	case *Dual2:
		switch y := b.(type) {
		case Scalar:
			return x.DivScalar(float64(y)), nil
		case *Dual:
			return nil, newOrderMismatch("div", a, b)
		case *Dual2:
			return x.Div(y), nil
		}
	}
	panic("dual: Number kind outside the sealed set")
}

// Pow returns base raised to a scalar exponent. The exponent must be a
// Scalar: dual-valued exponents are not part of the operator surface.
func Pow(base Number, exp float64) Number {
	switch x := base.(type) {
	case Scalar:
		return Scalar(math.Pow(float64(x), exp))
	case *Dual:
		return x.Pow(exp)
	case *Dual2:
		return x.Pow(exp)
	}
	panic("dual: Number kind outside the sealed set")
}

// Neg returns -n.
func Neg(n Number) Number {
	switch x := n.(type) {
	case Scalar:
		return -x
	case *Dual:
		return x.Neg()
	case *Dual2:
		return x.Neg()
	}
	panic("dual: Number kind outside the sealed set")
}

// UnaryFunc names a unary function applicable through Apply.
type UnaryFunc string

// Unary functions available on all three Number kinds.
const (
	FuncExp  UnaryFunc = "exp"
	FuncLog  UnaryFunc = "log"
	FuncSqrt UnaryFunc = "sqrt"
	FuncSin  UnaryFunc = "sin"
	FuncCos  UnaryFunc = "cos"
	FuncTanh UnaryFunc = "tanh"
)

// scalarFuncs maps unary function names to their float implementations.
var scalarFuncs = map[UnaryFunc]func(float64) float64{
	FuncExp:  math.Exp,
	FuncLog:  math.Log,
	FuncSqrt: math.Sqrt,
	FuncSin:  math.Sin,
	FuncCos:  math.Cos,
	FuncTanh: math.Tanh,
}

// Apply applies the named unary function to n via the chain rule.
// Returns false if the function name is unknown.
func Apply(fn UnaryFunc, n Number) (Number, bool) {
	f, ok := scalarFuncs[fn]
	if !ok {
		return nil, false
	}
	switch x := n.(type) {
	case Scalar:
		return Scalar(f(float64(x))), true
	case *Dual:
		return applyDual(fn, x), true
	case *Dual2:
		return applyDual2(fn, x), true
	}
	panic("dual: Number kind outside the sealed set")
}

func applyDual(fn UnaryFunc, d *Dual) *Dual {
	switch fn {
	case FuncExp:
		return d.Exp()
	case FuncLog:
		return d.Log()
	case FuncSqrt:
		return d.Sqrt()
	case FuncSin:
		return d.Sin()
	case FuncCos:
		return d.Cos()
	case FuncTanh:
		return d.Tanh()
	default:
		panic("dual: unary function missing from applyDual: " + string(fn))
	}
}

func applyDual2(fn UnaryFunc, d *Dual2) *Dual2 {
	switch fn {
	case FuncExp:
		return d.Exp()
	case FuncLog:
		return d.Log()
	case FuncSqrt:
		return d.Sqrt()
	case FuncSin:
		return d.Sin()
	case FuncCos:
		return d.Cos()
	case FuncTanh:
		return d.Tanh()
	default:
		panic("dual: unary function missing from applyDual2: " + string(fn))
	}
}

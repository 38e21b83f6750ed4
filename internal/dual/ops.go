package dual

// Binary arithmetic over duals. Every operator follows the same
// reconciliation protocol:
//
//  1. Classify the operand VarSets with VarsCmp.
//  2. VarsSameRef / VarsSameValues: combine elementwise directly and
//     share the left operand's VarSet. No allocation of a new VarSet.
//  3. VarsDifferent: re-express both operands over the ordered union
//     (toUnionVars / toUnionVars2), then combine elementwise; the
//     result shares the union VarSet.
//
// Only the per-element combinator differs between operators: sum rule
// for Add/Sub, product rule for Mul, reciprocal chain rule for Div.

// Add returns a + b.
func (a *Dual) Add(b *Dual) *Dual {
	switch VarsCmp(a.vars, b.vars) {
	case VarsSameRef, VarsSameValues:
		return &Dual{real: a.real + b.real, vars: a.vars, grad: addVec(a.grad, b.grad)}
	default:
		x, y := toUnionVars(a, b)
		return &Dual{real: x.real + y.real, vars: x.vars, grad: addVec(x.grad, y.grad)}
	}
}

// Sub returns a - b.
func (a *Dual) Sub(b *Dual) *Dual {
	switch VarsCmp(a.vars, b.vars) {
	case VarsSameRef, VarsSameValues:
		return &Dual{real: a.real - b.real, vars: a.vars, grad: subVec(a.grad, b.grad)}
	default:
		x, y := toUnionVars(a, b)
		return &Dual{real: x.real - y.real, vars: x.vars, grad: subVec(x.grad, y.grad)}
	}
}

// Mul returns a * b using the product rule:
// d(ab) = a·db + b·da.
func (a *Dual) Mul(b *Dual) *Dual {
	x, y := a, b
	if VarsCmp(a.vars, b.vars) == VarsDifferent {
		x, y = toUnionVars(a, b)
	}
	grad := make([]float64, len(x.grad))
	for i := range grad {
		grad[i] = x.real*y.grad[i] + y.real*x.grad[i]
	}
	return &Dual{real: x.real * y.real, vars: x.vars, grad: grad}
}

// Div returns a / b, expressed as a * (1/b) so the reciprocal chain
// rule carries the derivative bookkeeping.
func (a *Dual) Div(b *Dual) *Dual {
	return a.Mul(b.recip())
}

// recip returns 1/d via the chain rule: d(1/x) = -1/x².
func (d *Dual) recip() *Dual {
	inv := 1 / d.real
	return d.chain(inv, -inv*inv)
}

// AddScalar returns d + s. The scalar contributes zero sensitivity:
// the gradient and VarSet pass through unchanged and shared.
func (d *Dual) AddScalar(s float64) *Dual {
	return &Dual{real: d.real + s, vars: d.vars, grad: d.grad}
}

// SubScalar returns d - s.
func (d *Dual) SubScalar(s float64) *Dual {
	return &Dual{real: d.real - s, vars: d.vars, grad: d.grad}
}

// ScalarSub returns s - d.
func (d *Dual) ScalarSub(s float64) *Dual {
	return d.chain(s-d.real, -1)
}

// MulScalar returns d * s.
func (d *Dual) MulScalar(s float64) *Dual {
	return d.chain(d.real*s, s)
}

// DivScalar returns d / s.
func (d *Dual) DivScalar(s float64) *Dual {
	return d.MulScalar(1 / s)
}

// ScalarDiv returns s / d.
func (d *Dual) ScalarDiv(s float64) *Dual {
	return d.recip().MulScalar(s)
}

// Neg returns -d.
func (d *Dual) Neg() *Dual {
	return d.chain(-d.real, -1)
}

// Add returns a + b (second order): gradients and Hessians sum
// elementwise once aligned.
func (a *Dual2) Add(b *Dual2) *Dual2 {
	switch VarsCmp(a.vars, b.vars) {
	case VarsSameRef, VarsSameValues:
		return &Dual2{real: a.real + b.real, vars: a.vars,
			grad: addVec(a.grad, b.grad), hess: addVec(a.hess, b.hess)}
	default:
		x, y := toUnionVars2(a, b)
		return &Dual2{real: x.real + y.real, vars: x.vars,
			grad: addVec(x.grad, y.grad), hess: addVec(x.hess, y.hess)}
	}
}

// Sub returns a - b (second order).
func (a *Dual2) Sub(b *Dual2) *Dual2 {
	switch VarsCmp(a.vars, b.vars) {
	case VarsSameRef, VarsSameValues:
		return &Dual2{real: a.real - b.real, vars: a.vars,
			grad: subVec(a.grad, b.grad), hess: subVec(a.hess, b.hess)}
	default:
		x, y := toUnionVars2(a, b)
		return &Dual2{real: x.real - y.real, vars: x.vars,
			grad: subVec(x.grad, y.grad), hess: subVec(x.hess, y.hess)}
	}
}

// Mul returns a * b (second order). Product rule on the gradient,
// second-order product rule on the Hessian:
// d²(ab)[i][j] = a·d²b[i][j] + b·d²a[i][j] + da[i]·db[j] + da[j]·db[i].
func (a *Dual2) Mul(b *Dual2) *Dual2 {
	x, y := a, b
	if VarsCmp(a.vars, b.vars) == VarsDifferent {
		x, y = toUnionVars2(a, b)
	}
	n := x.vars.Len()
	grad := make([]float64, n)
	for i := range grad {
		grad[i] = x.real*y.grad[i] + y.real*x.grad[i]
	}
	hess := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			hess[i*n+j] = x.real*y.hess[i*n+j] + y.real*x.hess[i*n+j] +
				x.grad[i]*y.grad[j] + x.grad[j]*y.grad[i]
		}
	}
	return &Dual2{real: x.real * y.real, vars: x.vars, grad: grad, hess: hess}
}

// Div returns a / b (second order) via the reciprocal chain rule.
func (a *Dual2) Div(b *Dual2) *Dual2 {
	return a.Mul(b.recip())
}

// recip returns 1/d: d'(1/x) = -1/x², d''(1/x) = 2/x³.
func (d *Dual2) recip() *Dual2 {
	inv := 1 / d.real
	return d.chain(inv, -inv*inv, 2*inv*inv*inv)
}

// AddScalar returns d + s; derivative containers pass through shared.
func (d *Dual2) AddScalar(s float64) *Dual2 {
	return &Dual2{real: d.real + s, vars: d.vars, grad: d.grad, hess: d.hess}
}

// SubScalar returns d - s.
func (d *Dual2) SubScalar(s float64) *Dual2 {
	return &Dual2{real: d.real - s, vars: d.vars, grad: d.grad, hess: d.hess}
}

// ScalarSub returns s - d.
func (d *Dual2) ScalarSub(s float64) *Dual2 {
	return d.chain(s-d.real, -1, 0)
}

// MulScalar returns d * s.
func (d *Dual2) MulScalar(s float64) *Dual2 {
	return d.chain(d.real*s, s, 0)
}

// DivScalar returns d / s.
func (d *Dual2) DivScalar(s float64) *Dual2 {
	return d.MulScalar(1 / s)
}

// ScalarDiv returns s / d.
func (d *Dual2) ScalarDiv(s float64) *Dual2 {
	return d.recip().MulScalar(s)
}

// Neg returns -d.
func (d *Dual2) Neg() *Dual2 {
	return d.chain(-d.real, -1, 0)
}

// addVec returns the elementwise sum of two equal-length slices.
func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// subVec returns the elementwise difference of two equal-length slices.
func subVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

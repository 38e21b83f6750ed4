package dual

import "math"

// Unary functions propagate through the chain rule. For f applied to a
// dual d with value x:
//
//	first order:  grad_i(f) = f'(x) · grad_i(d)
//	second order: hess_ij(f) = f'(x) · hess_ij(d) + f''(x) · grad_i(d) · grad_j(d)
//
// The VarSet passes through shared and unchanged; unary functions never
// reconcile.

// chain applies the first-order chain rule: result value val, gradient
// scaled by d1.
func (d *Dual) chain(val, d1 float64) *Dual {
	grad := make([]float64, len(d.grad))
	for i := range grad {
		grad[i] = d1 * d.grad[i]
	}
	return &Dual{real: val, vars: d.vars, grad: grad}
}

// chain applies the second-order chain rule with first and second
// derivatives d1, d2 of the outer function at d.real.
func (d *Dual2) chain(val, d1, d2 float64) *Dual2 {
	n := d.vars.Len()
	grad := make([]float64, n)
	for i := range grad {
		grad[i] = d1 * d.grad[i]
	}
	hess := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			hess[i*n+j] = d1*d.hess[i*n+j] + d2*d.grad[i]*d.grad[j]
		}
	}
	return &Dual2{real: val, vars: d.vars, grad: grad, hess: hess}
}

// Pow returns d raised to the scalar power p.
func (d *Dual) Pow(p float64) *Dual {
	return d.chain(math.Pow(d.real, p), p*math.Pow(d.real, p-1))
}

// Exp returns e^d.
func (d *Dual) Exp() *Dual {
	v := math.Exp(d.real)
	return d.chain(v, v)
}

// Log returns the natural logarithm of d.
// Domain behavior follows math.Log: NaN for negative, -Inf for zero.
func (d *Dual) Log() *Dual {
	return d.chain(math.Log(d.real), 1/d.real)
}

// Sqrt returns the square root of d.
func (d *Dual) Sqrt() *Dual {
	v := math.Sqrt(d.real)
	return d.chain(v, 0.5/v)
}

// Sin returns the sine of d.
func (d *Dual) Sin() *Dual {
	return d.chain(math.Sin(d.real), math.Cos(d.real))
}

// Cos returns the cosine of d.
func (d *Dual) Cos() *Dual {
	return d.chain(math.Cos(d.real), -math.Sin(d.real))
}

// Tanh returns the hyperbolic tangent of d.
func (d *Dual) Tanh() *Dual {
	v := math.Tanh(d.real)
	return d.chain(v, 1-v*v)
}

// Pow returns d raised to the scalar power p (second order).
func (d *Dual2) Pow(p float64) *Dual2 {
	return d.chain(
		math.Pow(d.real, p),
		p*math.Pow(d.real, p-1),
		p*(p-1)*math.Pow(d.real, p-2),
	)
}

// Exp returns e^d (second order).
func (d *Dual2) Exp() *Dual2 {
	v := math.Exp(d.real)
	return d.chain(v, v, v)
}

// Log returns the natural logarithm of d (second order).
func (d *Dual2) Log() *Dual2 {
	inv := 1 / d.real
	return d.chain(math.Log(d.real), inv, -inv*inv)
}

// Sqrt returns the square root of d (second order).
func (d *Dual2) Sqrt() *Dual2 {
	v := math.Sqrt(d.real)
	return d.chain(v, 0.5/v, -0.25/(v*d.real))
}

// Sin returns the sine of d (second order).
func (d *Dual2) Sin() *Dual2 {
	s, c := math.Sincos(d.real)
	return d.chain(s, c, -s)
}

// Cos returns the cosine of d (second order).
func (d *Dual2) Cos() *Dual2 {
	s, c := math.Sincos(d.real)
	return d.chain(c, -s, -c)
}

// Tanh returns the hyperbolic tangent of d (second order).
func (d *Dual2) Tanh() *Dual2 {
	v := math.Tanh(d.real)
	return d.chain(v, 1-v*v, -2*v*(1-v*v))
}

package dual

import "slices"

// Dual2 is a second-order dual number: a real value, a gradient vector
// and a Hessian matrix, all index-aligned to one shared VarSet.
//
// The Hessian is stored flattened row-major: hess[i*n+j] is the second
// partial with respect to vars.At(i), vars.At(j), where n = vars.Len().
// Symmetry is expected but not structurally enforced; constructors are
// responsible for building symmetric input.
type Dual2 struct {
	real float64
	vars *VarSet
	grad []float64
	hess []float64
}

// NewDual2 constructs a second-order dual. hess must have length
// len(ids)² (row-major) or length 0, which stands for an all-zero
// Hessian, the common seed case.
func NewDual2(real float64, ids []string, grad, hess []float64) (*Dual2, error) {
	vars, err := NewVarSet(ids)
	if err != nil {
		return nil, err
	}
	n := vars.Len()
	if len(grad) != n {
		return nil, newGradSizeError(len(grad), n)
	}
	if len(hess) == 0 {
		hess = make([]float64, n*n)
	} else if len(hess) != n*n {
		return nil, newHessSizeError(len(hess), n*n)
	} else {
		hess = slices.Clone(hess)
	}
	return &Dual2{real: real, vars: vars, grad: slices.Clone(grad), hess: hess}, nil
}

// SeedDual2 constructs a second-order dual for a single variable with
// unit partial and zero curvature.
func SeedDual2(real float64, id string) *Dual2 {
	return &Dual2{
		real: real,
		vars: &VarSet{ids: []string{id}},
		grad: []float64{1},
		hess: []float64{0},
	}
}

// seedDual2At constructs a second-order dual over a shared VarSet with
// a unit partial at index i, zeros elsewhere, zero Hessian.
func seedDual2At(real float64, vars *VarSet, i int) *Dual2 {
	n := vars.Len()
	grad := make([]float64, n)
	grad[i] = 1
	return &Dual2{real: real, vars: vars, grad: grad, hess: make([]float64, n*n)}
}

// Real returns the value component.
func (d *Dual2) Real() float64 { return d.real }

// Vars returns the shared VarSet.
func (d *Dual2) Vars() *VarSet { return d.vars }

// Gradient returns a copy of the gradient in VarSet order.
func (d *Dual2) Gradient() []float64 { return slices.Clone(d.grad) }

// Hessian returns a copy of the flattened row-major Hessian.
func (d *Dual2) Hessian() []float64 { return slices.Clone(d.hess) }

// HessianAt returns the second partial with respect to vars.At(i),
// vars.At(j).
func (d *Dual2) HessianAt(i, j int) float64 {
	return d.hess[i*d.vars.Len()+j]
}

// PartialFor returns the partial derivative with respect to id, zero
// if absent.
func (d *Dual2) PartialFor(id string) float64 {
	if i := d.vars.Index(id); i >= 0 {
		return d.grad[i]
	}
	return 0
}

// Equal reports structural equality across real, variable content,
// gradient and Hessian.
func (d *Dual2) Equal(o *Dual2) bool {
	return d.real == o.real &&
		VarsCmp(d.vars, o.vars) != VarsDifferent &&
		slices.Equal(d.grad, o.grad) &&
		slices.Equal(d.hess, o.hess)
}

// alignTo re-expresses the dual over the union VarSet. Gradient entries
// for absent variables are zero-filled; Hessian rows and columns for
// absent variables are zero rows/columns.
func (d *Dual2) alignTo(union *VarSet) *Dual2 {
	n := union.Len()
	grad := make([]float64, n)
	hess := make([]float64, n*n)
	// idx[i] is the union position of d's i-th variable.
	idx := make([]int, d.vars.Len())
	for i, id := range d.vars.ids {
		idx[i] = union.Index(id)
		grad[idx[i]] = d.grad[i]
	}
	m := d.vars.Len()
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			hess[idx[i]*n+idx[j]] = d.hess[i*m+j]
		}
	}
	return &Dual2{real: d.real, vars: union, grad: grad, hess: hess}
}

// toUnionVars2 re-expresses a and b over one newly allocated union
// VarSet, index-aligned on both the gradient and Hessian axes.
func toUnionVars2(a, b *Dual2) (*Dual2, *Dual2) {
	union := unionVars(a.vars, b.vars)
	return a.alignTo(union), b.alignTo(union)
}

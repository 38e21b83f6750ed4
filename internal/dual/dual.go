package dual

import "slices"

// Dual is a first-order dual number: a real value plus a gradient
// vector index-aligned to a shared VarSet.
//
// Invariant: grad[i] is the partial derivative with respect to
// vars.At(i); a variable absent from vars has an implicit derivative
// of zero. len(grad) == vars.Len() always, enforced at construction.
//
// Dual is immutable. Operations return new values and never mutate
// operands, so duals and their shared VarSets may be read concurrently.
type Dual struct {
	real float64
	vars *VarSet
	grad []float64
}

// NewDual constructs a first-order dual from a real value, variable
// identifiers and a matching gradient. This is the validating
// construction boundary: identifiers must be unique and len(grad) must
// equal len(ids). Arithmetic assumes operands passed this check.
func NewDual(real float64, ids []string, grad []float64) (*Dual, error) {
	vars, err := NewVarSet(ids)
	if err != nil {
		return nil, err
	}
	if len(grad) != vars.Len() {
		return nil, newGradSizeError(len(grad), vars.Len())
	}
	return &Dual{real: real, vars: vars, grad: slices.Clone(grad)}, nil
}

// SeedDual constructs a dual for a single variable with unit partial:
// the canonical seed d(id)/d(id) = 1.
func SeedDual(real float64, id string) *Dual {
	return &Dual{
		real: real,
		vars: &VarSet{ids: []string{id}},
		grad: []float64{1},
	}
}

// seedDualAt constructs a dual over a shared VarSet with a unit partial
// at index i and zeros elsewhere. All seeds built from one VarSet share
// the allocation, so arithmetic among them rides the VarsSameRef path.
func seedDualAt(real float64, vars *VarSet, i int) *Dual {
	grad := make([]float64, vars.Len())
	grad[i] = 1
	return &Dual{real: real, vars: vars, grad: grad}
}

// Real returns the value component.
func (d *Dual) Real() float64 { return d.real }

// Vars returns the shared VarSet. The returned pointer identifies the
// allocation; callers may compare it with == to observe sharing.
func (d *Dual) Vars() *VarSet { return d.vars }

// Gradient returns a copy of the gradient in VarSet order.
func (d *Dual) Gradient() []float64 { return slices.Clone(d.grad) }

// PartialFor returns the partial derivative with respect to id. Absent
// variables have derivative zero.
func (d *Dual) PartialFor(id string) float64 {
	if i := d.vars.Index(id); i >= 0 {
		return d.grad[i]
	}
	return 0
}

// Equal reports structural equality: same real, same ordered variable
// content, same partials. VarSet allocations need not be shared.
func (d *Dual) Equal(o *Dual) bool {
	return d.real == o.real &&
		VarsCmp(d.vars, o.vars) != VarsDifferent &&
		slices.Equal(d.grad, o.grad)
}

// alignTo re-expresses the dual over the union VarSet: partials for
// variables present in d keep their values, partials for variables
// absent from d are zero-filled. The union must contain every variable
// of d (it is a union, never a truncation).
func (d *Dual) alignTo(union *VarSet) *Dual {
	grad := make([]float64, union.Len())
	for i, id := range d.vars.ids {
		grad[union.Index(id)] = d.grad[i]
	}
	return &Dual{real: d.real, vars: union, grad: grad}
}

// toUnionVars re-expresses a and b over one newly allocated VarSet
// equal to the ordered union of their variables. The two results are
// index-aligned to the same allocation, so subsequent combination is
// plain elementwise work.
//
// Must not be called on the VarsSameRef/VarsSameValues fast paths;
// operators check the relationship first.
func toUnionVars(a, b *Dual) (*Dual, *Dual) {
	union := unionVars(a.vars, b.vars)
	return a.alignTo(union), b.alignTo(union)
}

package dual

import "slices"

// VarSet is an ordered, deduplicated list of differentiation-variable
// identifiers. Order is semantically significant: it defines the index
// alignment between identifiers and derivative data.
//
// A VarSet is immutable after construction and shared by pointer among
// every dual that references the same variable scope. Any change
// produces a new VarSet; existing holders are never affected.
type VarSet struct {
	ids []string
}

// NewVarSet constructs a VarSet from identifiers in the given order.
// Returns a *DimensionError if any identifier repeats.
func NewVarSet(ids []string) (*VarSet, error) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, NewDuplicateVarError(id)
		}
		seen[id] = struct{}{}
	}
	return &VarSet{ids: slices.Clone(ids)}, nil
}

// Len returns the number of variables in the set.
func (v *VarSet) Len() int {
	return len(v.ids)
}

// IDs returns a copy of the identifiers in set order.
// The internal slice is never exposed; VarSet stays immutable.
func (v *VarSet) IDs() []string {
	return slices.Clone(v.ids)
}

// At returns the identifier at index i.
func (v *VarSet) At(i int) string {
	return v.ids[i]
}

// Index returns the position of id in the set, or -1 if absent.
func (v *VarSet) Index(id string) int {
	return slices.Index(v.ids, id)
}

// VarsRelationship classifies how two VarSets relate. The classifier
// is pure and side-effect free; it drives fast-path vs. reconciliation
// routing in every binary operator.
type VarsRelationship int

const (
	// VarsSameRef means both operands reference the same VarSet
	// allocation. Index alignment is guaranteed without inspecting
	// contents.
	VarsSameRef VarsRelationship = iota

	// VarsSameValues means distinct allocations with identical ordered
	// content. Index alignment is guaranteed; either operand's VarSet
	// may carry the result.
	VarsSameValues

	// VarsDifferent means any other case: different identifiers,
	// different order, or different lengths. Operands must be
	// reconciled over their union before combining.
	VarsDifferent
)

// String returns the relationship name for diagnostics.
func (r VarsRelationship) String() string {
	switch r {
	case VarsSameRef:
		return "same_ref"
	case VarsSameValues:
		return "same_values"
	case VarsDifferent:
		return "different"
	default:
		return "unknown"
	}
}

// VarsCmp classifies the relationship between two VarSets.
//
// The pointer check runs first because it skips even the value scan;
// duals seeded from one scope share an allocation, so in the common
// case classification is a single comparison.
func VarsCmp(a, b *VarSet) VarsRelationship {
	if a == b {
		return VarsSameRef
	}
	if slices.Equal(a.ids, b.ids) {
		return VarsSameValues
	}
	return VarsDifferent
}

// unionVars builds the ordered union of two VarSets.
//
// Ordering policy: first-operand-order-preserving. The result lists all
// of a's identifiers in a's order, followed by b's identifiers not in a,
// in b's order. The policy is fixed so that derivative alignment is
// deterministic; see TestUnionOrderingPolicy.
//
// Always allocates. Callers must take the VarsSameRef/VarsSameValues
// fast path instead when it applies.
func unionVars(a, b *VarSet) *VarSet {
	ids := make([]string, len(a.ids), len(a.ids)+len(b.ids))
	copy(ids, a.ids)
	present := make(map[string]struct{}, len(a.ids))
	for _, id := range a.ids {
		present[id] = struct{}{}
	}
	for _, id := range b.ids {
		if _, ok := present[id]; !ok {
			ids = append(ids, id)
		}
	}
	return &VarSet{ids: ids}
}

// Package dual implements forward-mode automatic differentiation over
// dual numbers.
//
// A dual number carries a real value together with exact first-order
// (and optionally second-order) partial derivatives with respect to a
// set of named variables. Every arithmetic operation propagates the
// derivative data alongside the value, so downstream code reads exact
// sensitivities with no symbolic differentiation and no finite
// differencing.
//
// ARCHITECTURE:
//
// Shared Variable Sets:
// Each Dual/Dual2 references a *VarSet, an ordered, deduplicated list
// of variable identifiers. VarSets are immutable after construction and
// shared by pointer: all duals seeded from the same scope point at one
// allocation. Derivative slices are index-aligned to the VarSet.
//
// Three-Way Reconciliation:
// Before two duals combine, VarsCmp classifies their VarSets:
//   - VarsSameRef: same allocation, alignment guaranteed, cheapest path
//   - VarsSameValues: distinct allocations with identical ordered
//     content, alignment guaranteed
//   - VarsDifferent: anything else, operands must be re-expressed over
//     the ordered union of their variables (zero-filling absent
//     partials) before elementwise combination
//
// On the two fast paths the result shares an existing VarSet; only the
// union path allocates a new one.
//
// Tagged Dispatch:
// Number is a sealed interface over Scalar, *Dual and *Dual2. Binary
// operators dispatch exhaustively over the nine kind pairs. Scalars
// broadcast into either dual order with zero sensitivity contribution.
// Mixing first- and second-order duals is a hard error: silent
// promotion would fabricate curvature, silent truncation would drop it.
//
// All values are immutable once constructed; operations return new
// values. Shared VarSets are therefore safe for concurrent readers
// without locking.
package dual

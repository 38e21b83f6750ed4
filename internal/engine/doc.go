// Package engine implements the tangent evaluation engine.
//
// The engine is the host around the dual-number kernel: it seeds one
// dual per model variable, walks each output's expression tree, and
// collects the resulting value, gradient and (for second-order models)
// Hessian into a run that the store can persist.
//
// ARCHITECTURE:
//
// Shared Seed Scope:
// All variables of a model are seeded against ONE shared VarSet
// allocation. Arithmetic between any two seeded duals therefore
// classifies as same-allocation inside the kernel and never pays for
// union reconciliation; the reconciliation path only runs when callers
// combine duals from independently constructed scopes.
//
// Evaluation Flow:
// 1. Seed duals from variable base values (plus optional scenario bumps)
// 2. Walk each output expression bottom-up over dual.Number dispatch
// 3. Stamp each result with a monotonic seq from Clock.Next()
// 4. Collect results into a Run identified by a RunIDGenerator token
//
// Evaluation is synchronous, in-memory and single-call-stack. The
// engine holds no global state; everything a run needs travels in the
// Run value. Determinism comes from the model's declaration order:
// variables seed in declaration order, outputs evaluate in declaration
// order, and seq stamps follow.
//
// Errors surface as *RuntimeError with a structured code. An
// ORDER_MISMATCH from the kernel is wrapped, never masked: mixing
// derivative orders is a malformed model, not a contingency to recover
// from.
package engine

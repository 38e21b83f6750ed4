// Package model provides the compiled representation of sensitivity
// models for tangent.
//
// This package contains type definitions plus the canonical
// serialization used for content-addressed run identity. All other
// internal packages import model; model imports only internal/dual.
// This keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Expr is a sealed interface; the evaluator's dispatch is
//     exhaustive over NumLit, VarRef, BinaryExpr, CallExpr and NegExpr
//   - All JSON tags use snake_case
//   - Canonical JSON is the only serialization used for hashing
package model

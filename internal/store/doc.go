// Package store provides SQLite-backed durable storage for evaluation
// runs.
//
// The store implements an append-only log with:
//   - Runs: one record per model evaluation (inputs, model hash, order)
//   - Results: one record per evaluated output (value + JSON payload)
//   - Sensitivities: one row per (result, variable) gradient entry
//
// # Critical Patterns
//
// Idempotent writes
//   - All inserts use ON CONFLICT DO NOTHING
//   - Re-persisting a run is a silent no-op
//
// Logical time
//   - Result ordering uses seq INTEGER (logical clock), never timestamps
//   - Run IDs are UUIDv7, so listing by id is chronological
//
// Deterministic query results
//   - All queries include: ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Ensures identical listings across processes
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Result IDs are content-addressed via internal/model/hash.go using
// canonical JSON and SHA-256 with domain separation.
package store

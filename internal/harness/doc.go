// Package harness provides a scenario testing framework for the
// sensitivity engine.
//
// A scenario is a YAML file bundling inline CUE model definitions,
// optional bumps (shifts to variable base values), and expectations on
// the evaluated outputs: values, gradients, and Hessians, each within
// a tolerance.
//
// Scenarios run the real pipeline end to end: CUE compile, model
// validation, dual-number evaluation, and a persistence round-trip
// through an in-memory SQLite store. Run IDs come from a deterministic
// sequence generator, so the same scenario always produces the same
// run records. Golden snapshots of those records (canonical JSON) are
// compared with goldie; regenerate with:
//
//	go test ./internal/harness -update
package harness

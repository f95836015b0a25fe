// Package engine orchestrates a conformance test run.
//
// A Run evaluates the requirements of a catalog against one container and
// aggregates the verdicts into a RunResult. Runs are single-use and
// single-goroutine; the catalog they read is immutable, so independent runs
// may execute in parallel.
//
// # Lifecycle
//
//	Idle -> ClassSelected -> Evaluating -> ClassSelected ... -> Aggregated -> Terminal
//
// For each class in catalog order the run checks the inclusion set. A class
// that is not enabled is either skipped, or, when the class requires
// enablement, recorded as a single CONFIGURATION_FAULT verdict. Enabled
// classes evaluate their requirements in catalog order.
//
// # Failure Containment
//
// Every failure is caught at the requirement boundary and becomes a verdict:
//   - a *validate.Fault returned by the predicate keeps its kind
//   - any other error or a panic becomes a COLLABORATOR_FAULT
//   - a requirement whose DependsOn entry failed is not evaluated; its
//     verdict is derived as PRECONDITION_UNMET
//
// Only caller cancellation escapes Execute. Partial results are discarded.
//
// # Determinism
//
// Verdict order is catalog order. Given the same catalog, container and
// inclusion set, Execute yields an identical RunResult. Run identifiers
// live outside the result (see RunIDGenerator).
package engine

package engine

import (
	"slices"

	"github.com/venicegeo/ets-gpkg12/internal/validate"
)

// Verdict is the outcome of one requirement, or of one gated class.
type Verdict struct {
	// RequirementID is the requirement's catalog id, or "<class>:enabled"
	// for a class that was not enabled.
	RequirementID string

	// Class is the conformance class the verdict belongs to.
	Class string

	// Pass is true when the requirement held.
	Pass bool

	// Fault is empty on pass.
	Fault validate.FaultKind

	// Diagnostic names the failed sub-check; empty on pass.
	Diagnostic string
}

// RunResult aggregates the verdicts of a run.
//
// A RunResult is read-only once Execute returns it; the run keeps no
// reference to it. Consumers that need to modify a result work on Clone.
//
// INVARIANTS:
//   - Verdicts are in catalog order
//   - Total == len(Verdicts) == Passed + Failed
//   - Failed == number of verdicts with Pass == false
type RunResult struct {
	// Target is the locator of the container under test.
	Target string

	Verdicts []Verdict

	Total  int
	Passed int
	Failed int

	// Skipped lists classes that were not enabled and do not require it.
	Skipped []string

	// Unknown lists inclusion set names that match no class, sorted.
	Unknown []string
}

// Clone returns a copy that shares no slices with r.
func (r *RunResult) Clone() *RunResult {
	c := *r
	c.Verdicts = slices.Clone(r.Verdicts)
	c.Skipped = slices.Clone(r.Skipped)
	c.Unknown = slices.Clone(r.Unknown)
	return &c
}

// Conformant reports whether every evaluated requirement passed.
func (r *RunResult) Conformant() bool {
	return r.Failed == 0
}

// Failures returns the failed verdicts in catalog order.
func (r *RunResult) Failures() []Verdict {
	out := []Verdict{}
	for _, v := range r.Verdicts {
		if !v.Pass {
			out = append(out, v)
		}
	}
	return out
}

// Verdict returns the verdict for a requirement id.
func (r *RunResult) Verdict(id string) (Verdict, bool) {
	for _, v := range r.Verdicts {
		if v.RequirementID == id {
			return v, true
		}
	}
	return Verdict{}, false
}

// aggregate recomputes the counters from the verdicts.
func (r *RunResult) aggregate() {
	r.Total = len(r.Verdicts)
	r.Passed, r.Failed = 0, 0
	for _, v := range r.Verdicts {
		if v.Pass {
			r.Passed++
		} else {
			r.Failed++
		}
	}
}

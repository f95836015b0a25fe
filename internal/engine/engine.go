package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/venicegeo/ets-gpkg12/internal/catalog"
	"github.com/venicegeo/ets-gpkg12/internal/validate"
)

// State is a phase of the run lifecycle.
type State int

const (
	StateIdle State = iota
	StateClassSelected
	StateEvaluating
	StateAggregated
	StateTerminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateClassSelected:
		return "ClassSelected"
	case StateEvaluating:
		return "Evaluating"
	case StateAggregated:
		return "Aggregated"
	case StateTerminal:
		return "Terminal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Run is a single validation of one container against a catalog.
//
// Thread-safety model:
//   - Execute(): call once, from one goroutine
//   - State(): safe from any goroutine
type Run struct {
	catalog   *catalog.Catalog
	container validate.Container
	target    string
	logger    *slog.Logger
	observer  func(from, to State)

	mu    sync.Mutex
	state State
	used  bool
}

// Option configures a Run.
type Option func(*Run)

// WithLogger sets the run logger. Default: a logger that discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Run) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers a function called on every state transition.
func WithObserver(fn func(from, to State)) Option {
	return func(r *Run) {
		r.observer = fn
	}
}

// New creates a run of cat against container. target is the container
// locator recorded in the result.
//
// The catalog is shared, never copied; it must not be modified.
func New(cat *catalog.Catalog, container validate.Container, target string, opts ...Option) *Run {
	r := &Run{
		catalog:   cat,
		container: container,
		target:    target,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Execute evaluates every class of the catalog against the inclusion set
// and returns the aggregated result.
//
// Requirement failures never surface as errors. Execute returns an error
// only when ctx is cancelled (partial results are discarded) or when the
// run was already executed (ErrRunConsumed).
func (r *Run) Execute(ctx context.Context, ics catalog.InclusionSet) (*RunResult, error) {
	r.mu.Lock()
	if r.used {
		r.mu.Unlock()
		return nil, ErrRunConsumed
	}
	r.used = true
	r.mu.Unlock()

	unknown := r.catalog.Unknown(ics)
	if unknown == nil {
		unknown = []string{}
	}
	result := &RunResult{
		Target:   r.target,
		Verdicts: []Verdict{},
		Skipped:  []string{},
		Unknown:  unknown,
	}

	r.logger.Info("run starting",
		"target", r.target,
		"classes", len(r.catalog.Classes()),
		"requirements", r.catalog.Len(),
		"enabled", ics.Names())
	for _, name := range unknown {
		r.logger.Warn("unknown conformance class in inclusion set", "class", name)
	}

	for _, class := range r.catalog.Classes() {
		if err := ctx.Err(); err != nil {
			return r.abort(err)
		}

		r.transition(StateClassSelected)

		if !catalog.IsEnabled(class.Name, ics) {
			if class.RequireEnabled {
				f := validate.NewConfigurationFault("Conformance class %s is not enabled", class.Name)
				result.Verdicts = append(result.Verdicts, Verdict{
					RequirementID: class.Name + ":enabled",
					Class:         class.Name,
					Fault:         f.Kind,
					Diagnostic:    f.Diagnostic(),
				})
				r.logger.Warn("conformance class not enabled", "class", class.Name)
			} else {
				result.Skipped = append(result.Skipped, class.Name)
				r.logger.Info("conformance class skipped", "class", class.Name)
			}
			continue
		}

		r.transition(StateEvaluating)
		verdicts, err := r.evaluateClass(ctx, class)
		if err != nil {
			return r.abort(err)
		}
		result.Verdicts = append(result.Verdicts, verdicts...)
	}

	r.transition(StateAggregated)
	result.aggregate()

	r.transition(StateTerminal)
	r.logger.Info("run finished",
		"target", r.target,
		"total", result.Total,
		"passed", result.Passed,
		"failed", result.Failed,
		"skipped", len(result.Skipped))

	return result, nil
}

// evaluateClass runs the requirements of one enabled class in order.
func (r *Run) evaluateClass(ctx context.Context, class catalog.ConformanceClass) ([]Verdict, error) {
	verdicts := make([]Verdict, 0, len(class.Requirements))
	passed := make(map[string]bool, len(class.Requirements))

	for _, req := range class.Requirements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v := Verdict{RequirementID: req.ID, Class: class.Name}

		if dep, ok := firstFailed(req.DependsOn, passed); ok {
			f := validate.NewPreconditionFault("precondition %s not met", dep)
			v.Fault = f.Kind
			v.Diagnostic = f.Diagnostic()
		} else if err := r.check(ctx, req); err != nil {
			// A predicate interrupted by cancellation is not a verdict.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			f := validate.AsFault(err)
			v.Fault = f.Kind
			v.Diagnostic = f.Diagnostic()
			if f.Kind == validate.FaultCollaborator {
				r.logger.Warn("collaborator fault", "requirement", req.ID, "error", f.Diagnostic())
			}
		} else {
			v.Pass = true
		}

		passed[req.ID] = v.Pass
		r.logger.Debug("requirement evaluated",
			"requirement", req.ID,
			"pass", v.Pass,
			"fault", string(v.Fault))
		verdicts = append(verdicts, v)
	}

	return verdicts, nil
}

// check evaluates a predicate, converting a panic into a collaborator fault.
func (r *Run) check(ctx context.Context, req catalog.Requirement) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = validate.NewCollaboratorFault("predicate panicked", fmt.Errorf("%v", p))
		}
	}()
	return req.Predicate.Check(ctx, r.container)
}

func (r *Run) abort(err error) (*RunResult, error) {
	r.transition(StateTerminal)
	r.logger.Info("run cancelled", "target", r.target, "error", err)
	return nil, err
}

func (r *Run) transition(to State) {
	r.mu.Lock()
	from := r.state
	r.state = to
	r.mu.Unlock()

	if r.observer != nil && from != to {
		r.observer(from, to)
	}
}

// firstFailed returns the first dependency that did not pass.
func firstFailed(deps []string, passed map[string]bool) (string, bool) {
	for _, dep := range deps {
		if !passed[dep] {
			return dep, true
		}
	}
	return "", false
}

package validate

import (
	"errors"
	"fmt"
)

// FaultKind categorizes why a requirement failed.
type FaultKind string

const (
	// FaultPreconditionUnmet indicates a structural prerequisite (table or
	// column existence) does not hold.
	FaultPreconditionUnmet FaultKind = "PRECONDITION_UNMET"

	// FaultStructuralMismatch indicates a table exists but a column's
	// presence, type, nullability or default disagrees with the standard.
	FaultStructuralMismatch FaultKind = "STRUCTURAL_MISMATCH"

	// FaultContentViolation indicates a row value fails a domain rule.
	FaultContentViolation FaultKind = "CONTENT_VIOLATION"

	// FaultConfiguration indicates a conformance class is unknown or not
	// enabled for the run.
	FaultConfiguration FaultKind = "CONFIGURATION_FAULT"

	// FaultCollaborator indicates the container reader raised an error.
	FaultCollaborator FaultKind = "COLLABORATOR_FAULT"
)

// Fault is the failure of a single requirement.
//
// Predicates return nil on success and a *Fault on failure. Any other error
// returned by a predicate is treated as a collaborator fault.
type Fault struct {
	// Kind identifies the failure category.
	Kind FaultKind

	// Message is the diagnostic identifying which sub-check failed.
	Message string

	// Err is the underlying error, for collaborator faults.
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Diagnostic())
}

// Unwrap returns the underlying error.
func (f *Fault) Unwrap() error {
	return f.Err
}

// Diagnostic returns the human-readable message, including the underlying
// error when present.
func (f *Fault) Diagnostic() string {
	if f.Err == nil {
		return f.Message
	}
	if f.Message == "" {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

// NewPreconditionFault creates a Fault for an unmet precondition.
func NewPreconditionFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultPreconditionUnmet, Message: fmt.Sprintf(format, args...)}
}

// NewStructuralFault creates a Fault for a schema mismatch.
func NewStructuralFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultStructuralMismatch, Message: fmt.Sprintf(format, args...)}
}

// NewContentFault creates a Fault for a row-level rule violation.
func NewContentFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultContentViolation, Message: fmt.Sprintf(format, args...)}
}

// NewConfigurationFault creates a Fault for a run configuration problem.
func NewConfigurationFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewCollaboratorFault wraps an error raised by the container reader.
func NewCollaboratorFault(message string, err error) *Fault {
	return &Fault{Kind: FaultCollaborator, Message: message, Err: err}
}

// AsFault converts any error into a Fault. Errors that are not already a
// Fault become collaborator faults. Returns nil for a nil error.
func AsFault(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return NewCollaboratorFault("", err)
}

// KindOf returns the fault kind of err, or "" for nil.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) FaultKind {
	if f := AsFault(err); f != nil {
		return f.Kind
	}
	return ""
}

// IsPreconditionUnmet returns true if err is an unmet precondition.
func IsPreconditionUnmet(err error) bool {
	return KindOf(err) == FaultPreconditionUnmet
}

// IsCollaboratorFault returns true if err came from the container reader.
func IsCollaboratorFault(err error) bool {
	return KindOf(err) == FaultCollaborator
}

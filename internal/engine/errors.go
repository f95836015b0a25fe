package engine

import "errors"

// ErrRunConsumed is returned by Execute when the run has already executed.
// A Run is single-use; create a new one to validate again.
var ErrRunConsumed = errors.New("run already executed")

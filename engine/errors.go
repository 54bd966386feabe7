package engine

import "fmt"

// StateValidationError reports that the engine surfaced a state the harness
// cannot act on: an unrecognized state label or an empty legal-action set.
// No action was attempted, so no diagnostic capture is taken.
type StateValidationError struct {
	Participant string
	Label       string
	Reason      string
}

func (e *StateValidationError) Error() string {
	return fmt.Sprintf("state validation failed for %s in state %q: %s", e.Participant, e.Label, e.Reason)
}

// ActionApplicationError reports that the engine rejected or crashed on an
// attempted action. This is the principal class of captured failures: it is
// always diagnosed and re-raised, never retried.
type ActionApplicationError struct {
	Participant string
	Action      string
	Arg         any
	Label       string
	Err         error
}

func (e *ActionApplicationError) Error() string {
	return fmt.Sprintf("failed to apply %s for %s in state %q: %v", e.Action, e.Participant, e.Label, e.Err)
}

func (e *ActionApplicationError) Unwrap() error { return e.Err }

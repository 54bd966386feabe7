package game

import (
	"encoding/json"
	"fmt"
)

// Decision is the abstract choice a strategy makes for one turn. It is
// consumed immediately by the movement normalizer and never persisted.
//
// Arg is nil for plain enabled actions, a scalar (string or number) for
// single-argument actions, or a positional tuple ([]any) once the normalizer
// has expanded a movement decision into the shape the engine expects.
type Decision struct {
	Action    string `json:"action"`
	Arg       any    `json:"arg,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}

// String renders the decision the way the engine logs actions.
func (d Decision) String() string {
	if d.Arg == nil {
		return d.Action
	}
	arg, err := json.Marshal(d.Arg)
	if err != nil {
		return fmt.Sprintf("%s(%v)", d.Action, d.Arg)
	}
	return fmt.Sprintf("%s(%s)", d.Action, arg)
}

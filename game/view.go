package game

import (
	"encoding/json"
	"fmt"
)

// View is the engine's per-participant projection of the game: the prompt
// text, the legal-action mapping, and participant-visible resources. A View
// is recreated every turn and never cached across turns, and the harness
// never mutates it.
type View struct {
	Prompt    string                 `json:"prompt"`
	Actions   map[string]ActionValue `json:"actions"`
	Resources map[string]int         `json:"resources,omitempty"`
}

// ValueKind discriminates the three shapes the engine uses for a legal-action
// value.
type ValueKind int

const (
	// KindFlag is a boolean enabled/disabled marker.
	KindFlag ValueKind = iota
	// KindNumber is a numeric value: 0 disables the action, 1 enables it
	// with no argument, any other value doubles as the action's argument.
	KindNumber
	// KindList is a list of candidate arguments; an empty list disables the
	// action.
	KindList
)

// ActionValue is the heterogeneous value of one legal-actions entry. The
// engine reports either an enabled flag, a number, or a choice list, so the
// wire shape cannot be a single Go type.
type ActionValue struct {
	kind    ValueKind
	flag    bool
	number  int
	choices []any
}

// Flag returns a boolean action value.
func Flag(enabled bool) ActionValue {
	return ActionValue{kind: KindFlag, flag: enabled}
}

// Number returns a numeric action value.
func Number(n int) ActionValue {
	return ActionValue{kind: KindNumber, number: n}
}

// Choices returns a list action value.
func Choices(choices ...any) ActionValue {
	return ActionValue{kind: KindList, choices: choices}
}

// Kind reports the value's wire shape.
func (v ActionValue) Kind() ValueKind { return v.kind }

// Enabled reports whether the action is selectable at all. The disabled
// sentinels are false, zero and the empty list.
func (v ActionValue) Enabled() bool {
	switch v.kind {
	case KindFlag:
		return v.flag
	case KindNumber:
		return v.number != 0
	default:
		return len(v.choices) > 0
	}
}

// Number returns the numeric value for KindNumber entries.
func (v ActionValue) Number() int { return v.number }

// Choices returns the candidate arguments for KindList entries.
func (v ActionValue) Choices() []any { return v.choices }

// MarshalJSON writes the value back in the engine's wire shape.
func (v ActionValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFlag:
		return json.Marshal(v.flag)
	case KindNumber:
		return json.Marshal(v.number)
	default:
		if v.choices == nil {
			return json.Marshal([]any{})
		}
		return json.Marshal(v.choices)
	}
}

// UnmarshalJSON accepts a bool, a number or a list.
func (v *ActionValue) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*v = Flag(flag)
		return nil
	}

	var number int
	if err := json.Unmarshal(data, &number); err == nil {
		*v = Number(number)
		return nil
	}

	var choices []any
	if err := json.Unmarshal(data, &choices); err == nil {
		*v = Choices(choices...)
		return nil
	}

	return fmt.Errorf("action value %s is neither flag, number nor list", data)
}

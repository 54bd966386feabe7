// Package strategy contains the pluggable decision-makers the harness drives.
// A strategy maps (state, filtered legal actions, view) to one abstract
// decision. The shipped strategies are intentionally naive: a uniform-random
// picker and a human-prompted one.
package strategy

import (
	"fmt"

	"earthwater/game"
)

// Strategy decides one action for the active participant. The actions map has
// already been filtered against the configured blacklist; implementations must
// fail with NoValidActionError when nothing in it is selectable.
type Strategy interface {
	Decide(state *game.State, actions map[string]game.ActionValue, view *game.View) (game.Decision, error)
}

// NoValidActionError reports that the filtered action set was empty or that
// every entry was a disabled sentinel.
type NoValidActionError struct {
	Participant string
	Label       string
}

func (e *NoValidActionError) Error() string {
	return fmt.Sprintf("no valid action for %s in state %q", e.Participant, e.Label)
}

// Package rules defines the contract to the external 300: Earth & Water rules
// engine and a client for reaching it over its JSON-lines bridge. The engine
// is an opaque third-party component: the harness consumes exactly three
// operations (setup, per-participant view, apply action) and never reimplements
// its state machine, combat resolution or validation.
package rules

import "earthwater/game"

// Engine is the externally supplied rules engine.
type Engine interface {
	// Setup initializes a game. The same seed and scenario always produce
	// the same game.
	Setup(seed int64, scenario string, options map[string]any) (*game.State, error)

	// View derives the participant's projection of the state. It is
	// recreated on every call and never cached.
	View(state *game.State, participant string) (*game.View, error)

	// Apply executes one action for the participant and returns the new
	// state. It fails on any illegal input; the harness never retries.
	Apply(state *game.State, participant string, action string, arg any) (*game.State, error)
}

// Rejection is an error the engine itself reported, as opposed to a transport
// failure reaching it.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return "engine rejected request: " + r.Message
}

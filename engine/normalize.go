package engine

import (
	"fmt"
	"strings"

	"earthwater/game"
	"earthwater/rng"
)

// Axis is the movement axis a state label implies.
type Axis int

const (
	// NoMovement marks states outside the two-step movement protocol.
	NoMovement Axis = iota
	// LandMovement moves armies overland.
	LandMovement
	// NavalMovement moves fleets, optionally carrying armies.
	NavalMovement
)

// movementAxis reads the axis off the engine's state label. The label set is
// owned by the engine; the harness only recognizes the movement substring.
func movementAxis(label string) Axis {
	switch {
	case strings.Contains(label, "land_movement"):
		return LandMovement
	case strings.Contains(label, "naval_movement"):
		return NavalMovement
	default:
		return NoMovement
	}
}

// Normalizer bridges abstract decisions to the positional argument tuples the
// engine expects for movement. A decision names only a destination; the engine
// wants (destination, armies) on land and (destination, fleets, armies) at
// sea. Unit counts are picked through the normalizer's own sequence generator,
// so one seed reproduces them.
type Normalizer struct {
	src *rng.Source
}

// NewNormalizer returns a Normalizer seeded with seed.
func NewNormalizer(seed int64) *Normalizer {
	return &Normalizer{src: rng.New(seed)}
}

// Normalize translates a movement decision into the engine's argument shape.
// Outside movement, during origin selection, and for decisions that already
// carry a fully-formed tuple it passes the decision through unchanged, so the
// operation is idempotent.
//
// Availability at the origin is derived strictly from the live state's units
// map, never from the view: the two are tracked independently inside the
// engine and this is exactly where they diverge.
func (n *Normalizer) Normalize(state *game.State, d game.Decision) (game.Decision, error) {
	if _, ok := d.Arg.([]any); ok {
		return d, nil
	}

	axis := movementAxis(state.Label)
	if axis == NoMovement {
		return d, nil
	}

	// Origin selection: the chosen place identifier goes through as a scalar.
	if state.From == "" {
		return d, nil
	}

	dest, ok := d.Arg.(string)
	if !ok {
		return d, nil
	}

	side := game.Side(state.Active)
	switch axis {
	case LandMovement:
		armies := state.ArmiesAt(side, state.From)
		if armies < 1 {
			return d, fmt.Errorf("no armies available at origin %q for land movement", state.From)
		}
		count, err := n.between(1, armies)
		if err != nil {
			return d, err
		}
		d.Arg = []any{dest, count}
		return d, nil

	case NavalMovement:
		fleets := state.FleetsAt(side, state.From)
		if fleets < 1 {
			return d, fmt.Errorf("no fleets available at origin %q for naval movement", state.From)
		}
		fleetCount, err := n.between(1, fleets)
		if err != nil {
			return d, err
		}

		// Armies only cross water on a carrying fleet: never more armies
		// than fleets in the move, and zero is a legal transport load.
		maxArmies := state.ArmiesAt(side, state.From)
		if fleetCount < maxArmies {
			maxArmies = fleetCount
		}
		armyCount, err := n.between(0, maxArmies)
		if err != nil {
			return d, err
		}
		d.Arg = []any{dest, fleetCount, armyCount}
		return d, nil
	}

	return d, nil
}

// between returns a value in [low, high] inclusive.
func (n *Normalizer) between(low, high int) (int, error) {
	v, err := n.src.Next(high - low + 1)
	if err != nil {
		return 0, err
	}
	return low + v, nil
}

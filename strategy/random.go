package strategy

import (
	"math"

	"earthwater/game"
	"earthwater/rng"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Random picks uniformly among the selectable action names, then uniformly
// among a chosen list's elements. Actions whose choice list contains a value
// invalid for its expected type are discarded before the draw. Each Random
// owns its own sequence generator, so a seed fully determines its play.
type Random struct {
	src       *rng.Source
	decisions int
}

// NewRandom returns a Random seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{src: rng.New(seed)}
}

// Decisions reports how many decisions this strategy has made.
func (r *Random) Decisions() int { return r.decisions }

// Decide implements Strategy.
func (r *Random) Decide(state *game.State, actions map[string]game.ActionValue, _ *game.View) (game.Decision, error) {
	names := maps.Keys(actions)
	slices.Sort(names) // map order is not deterministic; the draw must be

	candidates := names[:0]
	for _, name := range names {
		v := actions[name]
		if !v.Enabled() {
			continue
		}
		if v.Kind() == game.KindList && !choicesWellTyped(v.Choices()) {
			continue
		}
		candidates = append(candidates, name)
	}

	if len(candidates) == 0 {
		return game.Decision{}, &NoValidActionError{Participant: state.Active, Label: state.Label}
	}

	name, err := rng.Pick(r.src, candidates)
	if err != nil {
		return game.Decision{}, err
	}

	decision := game.Decision{Action: name, Rationale: "uniform"}
	switch v := actions[name]; v.Kind() {
	case game.KindList:
		arg, err := rng.Pick(r.src, v.Choices())
		if err != nil {
			return game.Decision{}, err
		}
		decision.Arg = arg
	case game.KindNumber:
		// 1 means plain enabled; any other number doubles as the argument.
		if n := v.Number(); n != 1 {
			decision.Arg = n
		}
	}

	r.decisions++
	return decision, nil
}

// choicesWellTyped reports whether every candidate argument is a place name or
// a whole number, the only argument types the engine accepts.
func choicesWellTyped(choices []any) bool {
	for _, c := range choices {
		switch v := c.(type) {
		case string:
		case int:
		case float64:
			if v != math.Trunc(v) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

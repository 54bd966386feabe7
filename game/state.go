// Package game defines the data model shared between the harness and the
// external 300: Earth & Water rules engine: the engine-owned game state, the
// per-participant view, and the ephemeral decision produced by a strategy.
package game

// Side identifies one of the two participants.
type Side string

const (
	Greece Side = "Greece"
	Persia Side = "Persia"
)

// Unit slot indices within a place's unit array. The engine keys every place
// to a four-slot array: [greek armies, persian armies, greek fleets, persian fleets].
const (
	slotGreekArmies = iota
	slotPersianArmies
	slotGreekFleets
	slotPersianFleets
)

// Reserve is the off-board pool entry in the units map.
const Reserve = "reserve"

// ArmySlot returns the side's army index in a unit array.
func (s Side) ArmySlot() int {
	if s == Persia {
		return slotPersianArmies
	}
	return slotGreekArmies
}

// FleetSlot returns the side's fleet index in a unit array.
func (s Side) FleetSlot() int {
	if s == Persia {
		return slotPersianFleets
	}
	return slotGreekFleets
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Persia {
		return Greece
	}
	return Persia
}

// State is a snapshot of the game state owned by the external rules engine.
// The harness reads and deep-copies it but never mutates it directly; only the
// engine's apply operation produces a new State.
type State struct {
	Label    string           `json:"game_state"`    // state-machine label
	Active   string           `json:"active_player"` // participant to move
	From     string           `json:"from,omitempty"` // movement origin, once selected
	To       []string         `json:"to,omitempty"`   // candidate movement destinations
	Units    map[string][]int `json:"units"`          // units per place
	VP       int              `json:"vp"`
	Campaign int              `json:"campaign"`
	Seed     int64            `json:"seed,omitempty"`
	Log      []string         `json:"log,omitempty"` // engine's append-only event log
	GameOver bool             `json:"game_over"`
	Winner   string           `json:"winner,omitempty"`
}

// Clone returns a deep copy of the state. The copy shares no references with
// the receiver, so later engine moves cannot reach into a diagnostic snapshot.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	toCopy := make([]string, len(s.To))
	copy(toCopy, s.To)

	unitsCopy := make(map[string][]int, len(s.Units))
	for place, slots := range s.Units {
		slotsCopy := make([]int, len(slots))
		copy(slotsCopy, slots)
		unitsCopy[place] = slotsCopy
	}

	logCopy := make([]string, len(s.Log))
	copy(logCopy, s.Log)

	return &State{
		Label:    s.Label,
		Active:   s.Active,
		From:     s.From,
		To:       toCopy,
		Units:    unitsCopy,
		VP:       s.VP,
		Campaign: s.Campaign,
		Seed:     s.Seed,
		Log:      logCopy,
		GameOver: s.GameOver,
		Winner:   s.Winner,
	}
}

// ArmiesAt returns the side's army count at place, 0 if the place is unknown.
func (s *State) ArmiesAt(side Side, place string) int {
	return s.unitAt(place, side.ArmySlot())
}

// FleetsAt returns the side's fleet count at place, 0 if the place is unknown.
func (s *State) FleetsAt(side Side, place string) int {
	return s.unitAt(place, side.FleetSlot())
}

func (s *State) unitAt(place string, slot int) int {
	slots, ok := s.Units[place]
	if !ok || slot >= len(slots) {
		return 0
	}
	return slots[slot]
}

// Forces is an on-board unit total for one side.
type Forces struct {
	Armies int
	Fleets int
}

// Totals sums on-board units per side, excluding the reserve pool.
func (s *State) Totals() map[Side]Forces {
	totals := map[Side]Forces{Greece: {}, Persia: {}}
	for place, slots := range s.Units {
		if place == Reserve {
			continue
		}
		for _, side := range []Side{Greece, Persia} {
			f := totals[side]
			if side.ArmySlot() < len(slots) {
				f.Armies += slots[side.ArmySlot()]
			}
			if side.FleetSlot() < len(slots) {
				f.Fleets += slots[side.FleetSlot()]
			}
			totals[side] = f
		}
	}
	return totals
}

package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"earthwater/capture"
	"earthwater/game"
	"earthwater/strategy"

	"github.com/stretchr/testify/require"
)

var greekPlaces = []string{"Athenai", "Sparta", "Thebai", "Korinthos"}
var persianPlaces = []string{"Ephesos", "Abydos", "Naxos", "Thera"}

// fakeEngine is a miniature deterministic rules engine: a draw phase, the
// two-step movement protocol on both axes, and scripted failures. It is only
// as much state machine as the executor needs to be driven through.
type fakeEngine struct {
	failOn  string
	failMsg string
}

func (f *fakeEngine) Setup(seed int64, scenario string, _ map[string]any) (*game.State, error) {
	if scenario != "Standard" {
		return nil, fmt.Errorf("unknown scenario %q", scenario)
	}
	return &game.State{
		Label:  "greek_preparation_draw",
		Active: "Greece",
		Seed:   seed,
		Units: map[string][]int{
			"Athenai":   {4, 0, 2, 0},
			"Sparta":    {3, 0, 1, 0},
			"Thebai":    {1, 0, 0, 0},
			"Korinthos": {0, 0, 0, 0},
			"Ephesos":   {0, 4, 0, 3},
			"Abydos":    {0, 2, 0, 2},
			"Naxos":     {0, 1, 0, 0},
			"Thera":     {0, 0, 0, 0},
		},
	}, nil
}

func (f *fakeEngine) View(s *game.State, participant string) (*game.View, error) {
	side := game.Side(participant)
	moveAction := "city"
	if movementAxis(s.Label) == NavalMovement {
		moveAction = "port"
	}

	switch {
	case strings.HasSuffix(s.Label, "_preparation_draw"):
		return &game.View{
			Prompt: participant + ": draw cards or continue.",
			Actions: map[string]game.ActionValue{
				"draw": game.Number(2),
				"next": game.Flag(true),
				"undo": game.Flag(true),
			},
		}, nil

	case movementAxis(s.Label) != NoMovement && s.From == "":
		var origins []any
		for _, place := range sidePlaces(side) {
			if f.available(s, side, place) > 0 {
				origins = append(origins, place)
			}
		}
		actions := map[string]game.ActionValue{
			"pass": game.Flag(true),
			"undo": game.Flag(true),
		}
		if len(origins) > 0 {
			actions[moveAction] = game.Choices(origins...)
		}
		return &game.View{Prompt: participant + ": select an origin.", Actions: actions}, nil

	case movementAxis(s.Label) != NoMovement:
		var dests []any
		for _, place := range s.To {
			dests = append(dests, place)
		}
		return &game.View{
			Prompt:  participant + ": select a destination.",
			Actions: map[string]game.ActionValue{moveAction: game.Choices(dests...)},
		}, nil
	}

	return &game.View{}, nil
}

func (f *fakeEngine) Apply(s *game.State, participant string, action string, arg any) (*game.State, error) {
	if f.failMsg != "" && action == f.failOn {
		return nil, errors.New(f.failMsg)
	}

	side := game.Side(participant)
	next := s.Clone()

	switch {
	case strings.HasSuffix(s.Label, "_preparation_draw"):
		if side == game.Greece {
			next.Label = "greek_land_movement"
		} else {
			next.Label = "persian_naval_movement"
		}

	case movementAxis(s.Label) != NoMovement && s.From == "":
		if action == "pass" {
			f.endMovement(next, side)
			break
		}
		origin, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("invalid argument: origin must be a place name, got %v", arg)
		}
		next.From = origin
		for _, place := range sidePlaces(side) {
			if place != origin {
				next.To = append(next.To, place)
			}
		}

	case movementAxis(s.Label) != NoMovement:
		tuple, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("invalid argument: expected a movement tuple, got %v", arg)
		}
		if err := f.applyMove(next, side, movementAxis(s.Label), tuple); err != nil {
			return nil, err
		}
		next.From = ""
		next.To = nil
		f.endMovement(next, side)

	default:
		return nil, fmt.Errorf("invalid action: %s in state %s", action, s.Label)
	}

	return next, nil
}

func (f *fakeEngine) applyMove(s *game.State, side game.Side, axis Axis, tuple []any) error {
	dest := tuple[0].(string)
	if _, ok := s.Units[dest]; !ok {
		return fmt.Errorf("TypeError: Cannot read properties of undefined (moving to %s)", dest)
	}

	if axis == LandMovement {
		armies := tuple[1].(int)
		s.Units[s.From][side.ArmySlot()] -= armies
		s.Units[dest][side.ArmySlot()] += armies
		return nil
	}

	fleets := tuple[1].(int)
	armies := tuple[2].(int)
	if armies > fleets || armies > s.ArmiesAt(side, s.From) {
		return fmt.Errorf("invalid argument: cannot transport %d armies on %d fleets", armies, fleets)
	}
	s.Units[s.From][side.FleetSlot()] -= fleets
	s.Units[dest][side.FleetSlot()] += fleets
	s.Units[s.From][side.ArmySlot()] -= armies
	s.Units[dest][side.ArmySlot()] += armies
	return nil
}

func (f *fakeEngine) endMovement(s *game.State, side game.Side) {
	if side == game.Greece {
		s.Active = string(game.Persia)
		s.Label = "persian_preparation_draw"
	} else {
		s.Active = string(game.Greece)
		s.Label = "greek_preparation_draw"
		s.Campaign++
	}
}

func (f *fakeEngine) available(s *game.State, side game.Side, place string) int {
	if movementAxis(s.Label) == NavalMovement {
		return s.FleetsAt(side, place)
	}
	return s.ArmiesAt(side, place)
}

func sidePlaces(side game.Side) []string {
	if side == game.Persia {
		return persianPlaces
	}
	return greekPlaces
}

func fixedClock() func() time.Time {
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestExecuteTurnSuccess(t *testing.T) {
	eng := &fakeEngine{}
	state, err := eng.Setup(12345, "Standard", nil)
	require.NoError(t, err)

	e := NewExecutor(eng, strategy.NewRandom(12345), 12345, WithExecutorClock(fixedClock()))
	next, err := e.ExecuteTurn(state, "Greece")
	require.NoError(t, err)
	require.Equal(t, "greek_land_movement", next.Label)

	require.Equal(t, map[string]int{"Greece": 1}, e.Counters())
	require.Equal(t, 1, e.History().Len())

	rec, ok := e.LastRecord()
	require.True(t, ok)
	require.True(t, rec.OK)
	require.Equal(t, "greek_preparation_draw", rec.PreState)
	require.Equal(t, "greek_land_movement", rec.PostState)
}

func TestExecuteTurnFiltersBlacklist(t *testing.T) {
	eng := &fakeEngine{}
	state, err := eng.Setup(1, "Standard", nil)
	require.NoError(t, err)

	// With everything but undo blacklisted, only undo would remain, and it
	// is excluded by default: the strategy must see an empty set.
	e := NewExecutor(eng, strategy.NewRandom(1), 1, WithBlacklist("undo", "draw", "next"))
	_, err = e.ExecuteTurn(state, "Greece")

	var nva *strategy.NoValidActionError
	require.True(t, errors.As(err, &nva), "blacklisted actions should never reach the strategy")
}

func TestExecuteTurnStateValidation(t *testing.T) {
	eng := &fakeEngine{}

	t.Run("unrecognized state", func(t *testing.T) {
		e := NewExecutor(eng, strategy.NewRandom(1), 1)
		state := &game.State{Label: "", Active: "Greece"}
		_, err := e.ExecuteTurn(state, "Greece")

		var sve *StateValidationError
		require.True(t, errors.As(err, &sve))
	})

	t.Run("empty legal-action set takes no capture", func(t *testing.T) {
		dir := t.TempDir()
		c, err := capture.NewCapturer(dir, 10, 1, "Standard")
		require.NoError(t, err)

		e := NewExecutor(eng, strategy.NewRandom(1), 1, WithCapturer(c))
		state := &game.State{Label: "greek_mystery_phase", Active: "Greece"}
		_, err = e.ExecuteTurn(state, "Greece")

		var sve *StateValidationError
		require.True(t, errors.As(err, &sve))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries, "no action was attempted, so no capture is taken")
	})
}

func TestExecuteTurnFailureCaptures(t *testing.T) {
	dir := t.TempDir()
	c, err := capture.NewCapturer(dir, 10, 12345, "Standard")
	require.NoError(t, err)

	eng := &fakeEngine{failOn: "city", failMsg: "TypeError: Cannot read properties of undefined (reading '0')"}
	e := NewExecutor(eng, strategy.NewRandom(12345), 12345, WithCapturer(c))

	// Destination phase pointed at a place the units map does not know.
	state := &game.State{
		Label:  "greek_land_movement",
		Active: "Greece",
		From:   "Athenai",
		To:     []string{"Phantom"},
		Units:  map[string][]int{"Athenai": {3, 0, 1, 0}},
	}

	_, err = e.ExecuteTurn(state, "Greece")
	require.Error(t, err)

	var aae *ActionApplicationError
	require.True(t, errors.As(err, &aae), "engine rejections should surface as ActionApplicationError")
	require.Equal(t, "city", aae.Action)
	require.Contains(t, aae.Error(), "undefined", "the original engine error should be preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "exactly one capture artifact per failure")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	var artifact capture.Artifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	require.Equal(t, capture.CategoryMissingPlace, artifact.Category,
		"a crash moving to a place absent from the units map should classify as missing_place")
	require.Equal(t, []string{"Phantom"}, artifact.Findings.ProblematicDestinations,
		"the consistency analysis should flag the referenced-but-missing destination")

	rec, ok := e.LastRecord()
	require.True(t, ok)
	require.False(t, rec.OK)
	require.NotEmpty(t, rec.Error)
	require.Len(t, e.Errors(), 1)
	require.Empty(t, e.Counters(), "failed actions do not count")
}

func TestExecuteTurnCaptureFailureNeverMasks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	c, err := capture.NewCapturer(dir, 10, 1, "Standard")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir)) // make every capture write fail

	eng := &fakeEngine{failOn: "next", failMsg: "invalid action: next"}
	e := NewExecutor(eng, pickOnly{"next"}, 1, WithCapturer(c))

	state, err := eng.Setup(1, "Standard", nil)
	require.NoError(t, err)

	_, err = e.ExecuteTurn(state, "Greece")
	var aae *ActionApplicationError
	require.True(t, errors.As(err, &aae),
		"a broken capture pipeline must never mask the original action error")
}

func TestExecuteTurnNoValidActionCapturesContext(t *testing.T) {
	dir := t.TempDir()
	c, err := capture.NewCapturer(dir, 10, 1, "Standard")
	require.NoError(t, err)

	eng := &fakeEngine{}
	e := NewExecutor(eng, strategy.NewRandom(1), 1, WithCapturer(c), WithBlacklist("undo", "draw", "next"))

	state, err := eng.Setup(1, "Standard", nil)
	require.NoError(t, err)

	_, err = e.ExecuteTurn(state, "Greece")
	var nva *strategy.NoValidActionError
	require.True(t, errors.As(err, &nva))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "selection failures are captured for context")
}

// pickOnly always chooses one fixed action.
type pickOnly struct{ action string }

func (p pickOnly) Decide(state *game.State, actions map[string]game.ActionValue, _ *game.View) (game.Decision, error) {
	if _, ok := actions[p.action]; !ok {
		return game.Decision{}, &strategy.NoValidActionError{Participant: state.Active, Label: state.Label}
	}
	return game.Decision{Action: p.action}, nil
}

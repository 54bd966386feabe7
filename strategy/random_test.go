package strategy

import (
	"errors"
	"testing"

	"earthwater/game"

	"github.com/stretchr/testify/require"
)

func movementState() *game.State {
	return &game.State{
		Label:  "greek_land_movement",
		Active: "Greece",
		Units:  map[string][]int{"Athenai": {2, 0, 1, 0}},
	}
}

func TestRandomSingleEnabledAction(t *testing.T) {
	r := NewRandom(12345)
	actions := map[string]game.ActionValue{"next": game.Flag(true)}

	for i := 0; i < 20; i++ {
		got, err := r.Decide(movementState(), actions, &game.View{})
		require.NoError(t, err)
		require.Equal(t, "next", got.Action, "the only enabled action should always be chosen")
		require.Nil(t, got.Arg, "flag actions carry no argument")
	}
}

func TestRandomSkipsDisabledSentinels(t *testing.T) {
	r := NewRandom(1)
	actions := map[string]game.ActionValue{
		"undo": game.Flag(false),
		"pass": game.Number(0),
		"city": game.Choices(),
		"next": game.Flag(true),
	}

	got, err := r.Decide(movementState(), actions, &game.View{})
	require.NoError(t, err)
	require.Equal(t, "next", got.Action, "disabled sentinels (false, 0, empty list) should never be chosen")
}

func TestRandomNoValidAction(t *testing.T) {
	r := NewRandom(1)

	for name, actions := range map[string]map[string]game.ActionValue{
		"empty set":    {},
		"all disabled": {"undo": game.Flag(false), "pass": game.Number(0), "city": game.Choices()},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Decide(movementState(), actions, &game.View{})

			var nva *NoValidActionError
			require.True(t, errors.As(err, &nva), "strategy should fail with NoValidActionError")
			require.Equal(t, "Greece", nva.Participant)
		})
	}
}

func TestRandomDiscardsBadlyTypedChoiceLists(t *testing.T) {
	r := NewRandom(7)
	actions := map[string]game.ActionValue{
		"city": game.Choices("Athenai", []any{"nested"}),
		"port": game.Choices("Abydos", 1.5),
		"next": game.Flag(true),
	}

	for i := 0; i < 20; i++ {
		got, err := r.Decide(movementState(), actions, &game.View{})
		require.NoError(t, err)
		require.Equal(t, "next", got.Action, "actions with invalid choice values should be discarded before the draw")
	}
}

func TestRandomPicksListArgument(t *testing.T) {
	r := NewRandom(12345)
	choices := []any{"Thebai", "Korinthos", "Sparta"}
	actions := map[string]game.ActionValue{"city": game.Choices(choices...)}

	got, err := r.Decide(movementState(), actions, &game.View{})
	require.NoError(t, err)
	require.Equal(t, "city", got.Action)
	require.Contains(t, choices, got.Arg, "the argument should come from the choice list")
}

func TestRandomNumberArgument(t *testing.T) {
	r := NewRandom(3)

	got, err := r.Decide(movementState(), map[string]game.ActionValue{"draw": game.Number(2)}, &game.View{})
	require.NoError(t, err)
	require.Equal(t, 2, got.Arg, "a count other than 1 doubles as the argument")

	got, err = r.Decide(movementState(), map[string]game.ActionValue{"draw": game.Number(1)}, &game.View{})
	require.NoError(t, err)
	require.Nil(t, got.Arg, "a count of 1 is plain enabled, no argument")
}

func TestRandomDeterministicSequence(t *testing.T) {
	actions := map[string]game.ActionValue{
		"city": game.Choices("Thebai", "Korinthos", "Sparta"),
		"port": game.Choices("Abydos", "Ephesos"),
		"next": game.Flag(true),
		"draw": game.Number(2),
	}

	a := NewRandom(12345)
	b := NewRandom(12345)
	for i := 0; i < 100; i++ {
		da, err := a.Decide(movementState(), actions, &game.View{})
		require.NoError(t, err)
		db, err := b.Decide(movementState(), actions, &game.View{})
		require.NoError(t, err)
		require.Equal(t, db, da, "the same seed should produce the same decision sequence")
	}
	require.Equal(t, 100, a.Decisions())
}

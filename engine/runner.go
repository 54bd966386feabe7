package engine

import (
	"fmt"

	"earthwater/game"
	"earthwater/metrics"

	"github.com/rs/zerolog/log"
)

// DefaultMaxTurns bounds a run that never reaches game over.
const DefaultMaxTurns = 10000

// Runner executes a whole game: it reads the active participant off the
// state, delegates the turn to that participant's executor, and stops on game
// over, the turn bound, or the first error. Errors are surfaced as-is; the
// capture artifact, not in-band recovery, is the designed diagnosis path.
type Runner struct {
	executors map[string]*Executor
	maxTurns  int
}

// NewRunner returns a Runner over one executor per participant. A
// non-positive maxTurns falls back to DefaultMaxTurns.
func NewRunner(executors map[string]*Executor, maxTurns int) *Runner {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Runner{executors: executors, maxTurns: maxTurns}
}

// Run plays from state until the game ends or the turn bound is hit. It
// returns the final state, the per-turn records, and the first error, with
// the state reached so far.
func (r *Runner) Run(state *game.State) (*game.State, []metrics.TurnRecord, error) {
	log.Info().Str("participant", state.Active).Msg("game starting")

	var turns []metrics.TurnRecord
	for turn := 1; !state.GameOver && turn <= r.maxTurns; turn++ {
		participant := state.Active
		executor, ok := r.executors[participant]
		if !ok {
			return state, turns, fmt.Errorf("no executor for participant %q", participant)
		}

		next, err := executor.ExecuteTurn(state, participant)
		if err != nil {
			return state, turns, err
		}

		if rec, ok := executor.LastRecord(); ok {
			turns = append(turns, metrics.TurnRecord{
				Step:        turn,
				Participant: rec.Participant,
				Action:      rec.Action,
				Elapsed:     rec.Elapsed,
				OK:          rec.OK,
			})
		}
		state = next
	}

	if state.GameOver {
		log.Info().Str("winner", state.Winner).Msg("game over")
	} else {
		log.Info().Int("turns", r.maxTurns).Msg("stopped at turn bound with no winner")
	}
	return state, turns, nil
}

// Package engine drives one agent through the external rules engine: fetch
// the participant's view, validate it, let the strategy decide, normalize
// movement arguments, apply the action, and record the outcome. On any
// unhandled failure while applying an action it hands the full context to
// diagnostic capture before re-raising.
package engine

import (
	"time"

	"earthwater/capture"
	"earthwater/game"
	"earthwater/history"
	"earthwater/rules"
	"earthwater/strategy"

	"github.com/rs/zerolog/log"
)

// Executor runs turns for one game instance. Turns execute strictly
// sequentially; the executor holds no shared mutable state beyond its own
// counters and history ring, so independent instances run in parallel without
// synchronization.
type Executor struct {
	rules     rules.Engine
	strategy  strategy.Strategy
	norm      *Normalizer
	ring      *history.Ring
	capturer  *capture.Capturer
	blacklist map[string]bool
	counters  map[string]int
	errs      []error
	step      int
	now       func() time.Time
}

// ExecutorOption adjusts an Executor at construction.
type ExecutorOption func(*Executor)

// WithBlacklist replaces the default action blacklist. The default excludes
// the reversible "undo" action to force committed play.
func WithBlacklist(actions ...string) ExecutorOption {
	return func(e *Executor) {
		e.blacklist = make(map[string]bool, len(actions))
		for _, a := range actions {
			e.blacklist[a] = true
		}
	}
}

// WithHistorySize bounds the action history ring.
func WithHistorySize(n int) ExecutorOption {
	return func(e *Executor) { e.ring = history.NewRing(n) }
}

// WithCapturer enables diagnostic capture on failure.
func WithCapturer(c *capture.Capturer) ExecutorOption {
	return func(e *Executor) { e.capturer = c }
}

// WithExecutorClock substitutes the time source.
func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// NewExecutor returns an Executor for one agent. The seed feeds the movement
// normalizer's sequence generator.
func NewExecutor(eng rules.Engine, strat strategy.Strategy, seed int64, options ...ExecutorOption) *Executor {
	e := &Executor{
		rules:     eng,
		strategy:  strat,
		norm:      NewNormalizer(seed),
		ring:      history.NewRing(history.DefaultCapacity),
		blacklist: map[string]bool{"undo": true},
		counters:  map[string]int{},
		now:       time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ExecuteTurn runs one turn for participant and returns the new game state.
// It may suspend while a human strategy waits for input. On failure it
// captures diagnostics, then re-raises; the caller is expected to stop its
// loop, there is no automatic retry.
func (e *Executor) ExecuteTurn(state *game.State, participant string) (*game.State, error) {
	view, err := e.rules.View(state, participant)
	if err != nil {
		return nil, &StateValidationError{Participant: participant, Label: state.Label,
			Reason: "failed to derive view: " + err.Error()}
	}
	if state.Label == "" {
		return nil, &StateValidationError{Participant: participant, Label: state.Label,
			Reason: "engine reported an unrecognized state"}
	}
	if len(view.Actions) == 0 {
		return nil, &StateValidationError{Participant: participant, Label: state.Label,
			Reason: "engine reported an empty legal-action set"}
	}

	filtered := make(map[string]game.ActionValue, len(view.Actions))
	for name, value := range view.Actions {
		if !e.blacklist[name] {
			filtered[name] = value
		}
	}

	decision, err := e.strategy.Decide(state, filtered, view)
	if err != nil {
		// Selection failed before any action was attempted; capture the
		// surrounding context anyway, it is usually an engine-state oddity.
		e.capture(state, err)
		return nil, err
	}

	decision, err = e.norm.Normalize(state, decision)
	if err != nil {
		return nil, e.recordFailure(state, participant, decision, e.now(), 0, err)
	}

	log.Debug().Str("participant", participant).Str("state", state.Label).
		Stringer("decision", decision).Msg("applying action")

	start := e.now()
	next, err := e.rules.Apply(state, participant, decision.Action, decision.Arg)
	elapsed := e.now().Sub(start)
	if err != nil {
		return nil, e.recordFailure(state, participant, decision, start, elapsed, err)
	}

	e.step++
	e.ring.Append(history.Record{
		Step:        e.step,
		Participant: participant,
		Action:      decision.Action,
		Arg:         decision.Arg,
		PreState:    state.Label,
		PostState:   next.Label,
		OK:          true,
		Elapsed:     elapsed,
		Timestamp:   start.UTC(),
	})
	e.counters[participant]++
	return next, nil
}

// recordFailure appends the failed attempt to the history ring and error
// list, captures diagnostics exactly once, and returns the wrapped original
// error. Capture problems are logged, never allowed to mask the cause.
func (e *Executor) recordFailure(state *game.State, participant string, d game.Decision, start time.Time, elapsed time.Duration, cause error) error {
	werr := &ActionApplicationError{
		Participant: participant,
		Action:      d.Action,
		Arg:         d.Arg,
		Label:       state.Label,
		Err:         cause,
	}

	e.step++
	e.ring.Append(history.Record{
		Step:        e.step,
		Participant: participant,
		Action:      d.Action,
		Arg:         d.Arg,
		PreState:    state.Label,
		OK:          false,
		Elapsed:     elapsed,
		Timestamp:   start.UTC(),
		Error:       werr.Error(),
	})
	e.errs = append(e.errs, werr)
	e.capture(state, werr)
	return werr
}

func (e *Executor) capture(state *game.State, cause error) {
	if e.capturer == nil {
		return
	}
	path, err := e.capturer.Capture(state, e.ring.Tail(capture.MaxTrailingRecords), cause)
	if err != nil {
		log.Warn().Err(err).Msg("diagnostic capture failed")
		return
	}
	log.Info().Str("path", path).Msg("captured diagnostics")
}

// History exposes the action history ring.
func (e *Executor) History() *history.Ring { return e.ring }

// LastRecord returns the most recent history record, if any.
func (e *Executor) LastRecord() (history.Record, bool) { return e.ring.Last() }

// Counters returns a copy of the per-participant successful-action counters.
func (e *Executor) Counters() map[string]int {
	out := make(map[string]int, len(e.counters))
	for k, v := range e.counters {
		out[k] = v
	}
	return out
}

// Errors returns the failures seen so far, oldest first.
func (e *Executor) Errors() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

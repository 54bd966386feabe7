package strategy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"earthwater/game"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Human renders the state and legal actions to an operator and suspends until
// a selection is read. This is the single designed suspension point in the
// turn pipeline; there is no timeout on the operator.
type Human struct {
	in  *bufio.Reader
	out io.Writer
}

// NewHuman returns a Human reading selections from in and rendering to out.
func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewReader(in), out: out}
}

// Decide implements Strategy.
func (h *Human) Decide(state *game.State, actions map[string]game.ActionValue, view *game.View) (game.Decision, error) {
	names := maps.Keys(actions)
	slices.Sort(names)

	selectable := names[:0]
	for _, name := range names {
		if actions[name].Enabled() {
			selectable = append(selectable, name)
		}
	}
	if len(selectable) == 0 {
		return game.Decision{}, &NoValidActionError{Participant: state.Active, Label: state.Label}
	}

	h.renderTurn(state, view, selectable, actions)

	for {
		fmt.Fprint(h.out, "Enter your choice: ")
		line, err := h.in.ReadString('\n')
		if err != nil {
			return game.Decision{}, fmt.Errorf("failed to read selection: %w", err)
		}
		choice := strings.ToLower(strings.TrimSpace(line))

		switch choice {
		case "s", "status":
			h.renderTurn(state, view, selectable, actions)
			continue
		case "":
			continue
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(selectable) {
			fmt.Fprintf(h.out, "Invalid choice. Enter 1-%d or 's' for status.\n", len(selectable))
			continue
		}

		name := selectable[idx-1]
		decision := game.Decision{Action: name, Rationale: "operator"}

		switch v := actions[name]; v.Kind() {
		case game.KindList:
			arg, err := h.pickChoice(name, v.Choices())
			if err != nil {
				return game.Decision{}, err
			}
			decision.Arg = arg
		case game.KindNumber:
			if n := v.Number(); n != 1 {
				decision.Arg = n
			}
		}
		return decision, nil
	}
}

func (h *Human) renderTurn(state *game.State, view *game.View, selectable []string, actions map[string]game.ActionValue) {
	fmt.Fprintf(h.out, "\n%s to play | campaign %d | vp %d | state %s\n",
		state.Active, state.Campaign, state.VP, state.Label)
	if view.Prompt != "" {
		fmt.Fprintf(h.out, "%s\n", view.Prompt)
	}

	totals := state.Totals()
	fmt.Fprintf(h.out, "Greece: %dA/%dF  Persia: %dA/%dF\n",
		totals[game.Greece].Armies, totals[game.Greece].Fleets,
		totals[game.Persia].Armies, totals[game.Persia].Fleets)

	fmt.Fprintln(h.out, "Available actions:")
	for i, name := range selectable {
		v := actions[name]
		switch v.Kind() {
		case game.KindList:
			fmt.Fprintf(h.out, "  %d. %s (choose from: %v)\n", i+1, name, v.Choices())
		case game.KindNumber:
			if n := v.Number(); n != 1 {
				fmt.Fprintf(h.out, "  %d. %s (%d)\n", i+1, name, n)
			} else {
				fmt.Fprintf(h.out, "  %d. %s\n", i+1, name)
			}
		default:
			fmt.Fprintf(h.out, "  %d. %s\n", i+1, name)
		}
	}
}

// pickChoice resolves a list argument: a single candidate is taken as-is,
// otherwise the operator picks by index or by literal value.
func (h *Human) pickChoice(action string, choices []any) (any, error) {
	if len(choices) == 1 {
		return choices[0], nil
	}

	fmt.Fprintf(h.out, "Choose argument for %s: %v\n", action, choices)
	for {
		fmt.Fprint(h.out, "Enter choice: ")
		line, err := h.in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read argument selection: %w", err)
		}
		input := strings.TrimSpace(line)

		for _, c := range choices {
			if input == fmt.Sprint(c) {
				return c, nil
			}
		}
		if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(choices) {
			return choices[idx-1], nil
		}
		fmt.Fprintf(h.out, "Invalid choice. Must be one of: %v\n", choices)
	}
}

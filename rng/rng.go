// Package rng provides the deterministic sequence generator the harness shares
// with the rules engine. The engine advances a 31-bit multiplicative
// congruential state (multiplier 48271, modulus 2^31-1); mirroring the same
// step here means every value derived from one seed is reproducible across
// runs and across the engine boundary.
package rng

import (
	"errors"
	"fmt"
)

const (
	multiplier = 48271
	modulus    = 1<<31 - 1
)

// ErrBound reports a request for a value from an empty or negative range.
var ErrBound = errors.New("rng: bound must be positive")

// Source is a seeded generator. Two Sources built with the same seed produce
// identical sequences. Each agent owns its own Source; there is no shared
// global state.
type Source struct {
	state int64
}

// New returns a Source seeded with seed. The seed is folded into the
// generator's valid state range [1, 2^31-2].
func New(seed int64) *Source {
	s := seed % modulus
	if s < 0 {
		s += modulus
	}
	if s == 0 {
		s = 1
	}
	return &Source{state: s}
}

// Next returns an integer in [0, bound). A bound of 1 has only one outcome,
// so the state is not advanced. A bound <= 0 is a domain error.
func (s *Source) Next(bound int) (int, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrBound, bound)
	}
	if bound == 1 {
		return 0, nil
	}
	s.state = s.state * multiplier % modulus
	return int(s.state % int64(bound)), nil
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](s *Source, items []T) (T, error) {
	var zero T
	i, err := s.Next(len(items))
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

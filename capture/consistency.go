package capture

import (
	"earthwater/game"

	"golang.org/x/exp/slices"
)

// Findings is the result of cross-checking the engine's movement-destination
// list against its units map. The two structures are tracked independently
// inside the engine; a destination with no units entry is the common root of
// otherwise unrelated-looking crashes.
type Findings struct {
	CheckedDestinations     int      `json:"checked_destinations"`
	ProblematicDestinations []string `json:"problematic_destinations,omitempty"`
	OriginMissing           bool     `json:"origin_missing,omitempty"`
}

// Consistent reports whether the cross-check found nothing wrong.
func (f Findings) Consistent() bool {
	return len(f.ProblematicDestinations) == 0 && !f.OriginMissing
}

// Analyze enumerates every place the destination list references and reports
// which are absent from the units map, plus whether the recorded movement
// origin itself is missing.
func Analyze(s *game.State) Findings {
	if s == nil {
		return Findings{}
	}

	f := Findings{CheckedDestinations: len(s.To)}
	for _, place := range s.To {
		if _, ok := s.Units[place]; !ok {
			f.ProblematicDestinations = append(f.ProblematicDestinations, place)
		}
	}
	slices.Sort(f.ProblematicDestinations)

	if s.From != "" {
		_, ok := s.Units[s.From]
		f.OriginMissing = !ok
	}
	return f
}

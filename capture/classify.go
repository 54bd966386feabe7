package capture

import "strings"

// Category is the closed classification of a captured failure.
type Category string

const (
	// CategoryMissingPlace marks engine crashes on a place that is
	// referenced by the movement-destination list but absent from the units
	// map. Several known failure modes reduce to this.
	CategoryMissingPlace Category = "missing_place"
	// CategoryIllegalAction marks actions the engine refused outright.
	CategoryIllegalAction Category = "illegal_action"
	// CategoryBadArgument marks actions refused because of their argument.
	CategoryBadArgument Category = "bad_argument"
	// CategoryNoValidAction marks strategy selection failures captured for
	// context.
	CategoryNoValidAction Category = "no_valid_action"
	// CategoryBridgeFault marks transport failures reaching the engine.
	CategoryBridgeFault Category = "bridge_fault"
	// CategoryUnclassified is the fallback.
	CategoryUnclassified Category = "unclassified"
)

// Classify buckets a failure by its message pattern plus the state label at
// the time of failure. The engine is a black box, so message patterns are the
// only signal available for its internal crashes.
func Classify(cause error, label string) Category {
	if cause == nil {
		return CategoryUnclassified
	}
	msg := strings.ToLower(cause.Error())

	inMovement := strings.Contains(label, "movement")
	crashed := strings.Contains(msg, "undefined") ||
		strings.Contains(msg, "cannot read") ||
		strings.Contains(msg, "not a function")

	switch {
	case strings.Contains(msg, "no valid action"):
		return CategoryNoValidAction
	case crashed && inMovement:
		return CategoryMissingPlace
	case strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "bad argument") ||
		strings.Contains(msg, "invalid arg"):
		return CategoryBadArgument
	case strings.Contains(msg, "invalid action") ||
		strings.Contains(msg, "illegal action") ||
		strings.Contains(msg, "unknown action"):
		return CategoryIllegalAction
	case strings.Contains(msg, "bridge") ||
		strings.Contains(msg, "no response") ||
		strings.Contains(msg, "broken pipe"):
		return CategoryBridgeFault
	default:
		return CategoryUnclassified
	}
}

// Package ratings stores user ratings: album ratings in a local msgpack file
// keyed by album key, track ratings as MPD stickers keyed by file path.
package ratings

import "fmt"

// Op describes what a rating mutation does.
type Op int

const (
	// OpNone leaves the stored rating untouched and never reports a change.
	OpNone Op = iota
	// OpUnset removes the stored rating entirely.
	OpUnset
	// OpSet stores a rating value "1".."10".
	OpSet
)

// Change is a decoded rating mutation. The wire vocabulary ("1".."10",
// "Delete", "---") is decoded exactly once, at the API boundary.
type Change struct {
	Op    Op
	Value string
}

// Valid wire values for ratings, in menu order.
var ratingValues = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {}, "5": {},
	"6": {}, "7": {}, "8": {}, "9": {}, "10": {},
}

// ParseChange decodes a wire rating value into a Change.
func ParseChange(s string) (Change, error) {
	switch s {
	case "---":
		return Change{Op: OpNone}, nil
	case "Delete":
		return Change{Op: OpUnset}, nil
	}
	if _, ok := ratingValues[s]; ok {
		return Change{Op: OpSet, Value: s}, nil
	}
	return Change{}, fmt.Errorf("invalid rating value %q", s)
}

package embed

import "strings"

// Modes is the set of interpolation shapes an environment allows.
// The zero value allows no interpolation at all.
type Modes uint8

const (
	// VariableReference treats an interpolation after a colon as a $variable
	VariableReference Modes = 1 << iota
	// TypedFragmentSpread treats an interpolation after a typed ... as the spread fragment name
	TypedFragmentSpread
	// ImplicitFragmentSpread treats any other interpolation as a fragment spread,
	// synthesising the ... the author did not type
	ImplicitFragmentSpread
)

// Has reports whether every mode in f is enabled
func (m Modes) Has(f Modes) bool {
	return f != 0 && m&f == f
}

func (m Modes) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	if m.Has(VariableReference) {
		names = append(names, "variable-reference")
	}
	if m.Has(TypedFragmentSpread) {
		names = append(names, "typed-fragment-spread")
	}
	if m.Has(ImplicitFragmentSpread) {
		names = append(names, "implicit-fragment-spread")
	}
	return strings.Join(names, "|")
}

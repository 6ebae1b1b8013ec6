package embed

import (
	"errors"
	"fmt"
)

// InvalidInterpolationMessage is reported at the offending expression
const InvalidInterpolationMessage = "Invalid interpolation - not a valid fragment or variable."

var (
	// ErrInvalidInterpolation indicates an interpolation no enabled mode accepts
	ErrInvalidInterpolation = errors.New("invalid interpolation")

	// ErrMalformedLiteral indicates a literal that breaks the segment/slot invariant
	ErrMalformedLiteral = errors.New("malformed template literal")
)

// InvalidInterpolationError pins an unclassifiable interpolation to its own expression
type InvalidInterpolationError struct {
	// Slot is the index of the interpolation within the literal
	Slot int
	// Position is where the interpolated expression starts in the host source
	Position Position
}

func (e *InvalidInterpolationError) Error() string {
	return fmt.Sprintf("invalid interpolation at slot %d (%s)", e.Slot, e.Position)
}

func (e *InvalidInterpolationError) Unwrap() error {
	return ErrInvalidInterpolation
}

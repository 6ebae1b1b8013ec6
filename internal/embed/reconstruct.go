package embed

import (
	"regexp"
	"strings"
)

const (
	filler = "x"

	variableSigil = "$"
	spreadSigil   = "..."

	// the author's interpolation brackets are stripped from the emitted
	// variable name but still occupy columns in the host source
	variableBrackets = 2
)

var (
	variableContext    = regexp.MustCompile(`:\s*$`)
	typedSpreadContext = regexp.MustCompile(`\.\.\.\s*$`)
	fragmentShorthand  = regexp.MustCompile(`\bfragment\s+on\b`)
)

// Filler returns n filler characters
func Filler(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(filler, n)
}

// Placeholder picks the text to emit for slot, given the text of the segment
// right before it. The second result is false when no enabled mode licenses the slot.
//
// Shapes are tried in a fixed order: variable reference, typed spread, implicit spread.
func Placeholder(preceding string, slot Slot, modes Modes) (string, bool) {
	switch {
	case modes.Has(VariableReference) && variableContext.MatchString(preceding):
		return variableSigil + Filler(slot.ExpressionLength+variableBrackets), true
	case modes.Has(TypedFragmentSpread) && typedSpreadContext.MatchString(preceding):
		return Filler(slot.ExpressionLength + len(spreadSigil)), true
	case modes.Has(ImplicitFragmentSpread):
		// the synthesised sigil was never in the host source, so it is not paid for
		return spreadSigil + Filler(slot.ExpressionLength), true
	default:
		return "", false
	}
}

// Reconstruct turns a template literal into GraphQL source text, replacing each
// interpolation with a placeholder of predictable length. The result is trimmed.
//
// An interpolation that no mode accepts yields an *InvalidInterpolationError;
// a literal breaking the segment/slot invariant yields ErrMalformedLiteral.
func Reconstruct(lit Literal, modes Modes) (string, error) {
	if err := lit.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, seg := range lit.Segments {
		b.WriteString(seg.Text)
		if i == len(lit.Slots) {
			break
		}

		slot := lit.Slots[i]
		placeholder, ok := Placeholder(seg.Text, slot, modes)
		if !ok {
			return "", &InvalidInterpolationError{Slot: i, Position: slot.Start}
		}
		b.WriteString(placeholder)
	}

	return strings.TrimSpace(b.String()), nil
}

// PatchFragmentShorthand rewrites the nameless "fragment on Type" sugar into
// valid GraphQL by giving the first such fragment the name "_".
func PatchFragmentShorthand(text string) string {
	loc := fragmentShorthand.FindStringIndex(text)
	if loc == nil {
		return text
	}
	at := loc[0] + len("fragment")
	return text[:at] + " _" + text[at:]
}

package embed

// ToSourcePosition maps a position reported against reconstructed text onto the
// host source, given where the template literal starts.
//
// Fillers never contain newlines and trimming only touches the ends, so line
// numbers carry over. Line 1 is offset from the literal's own column; later lines
// keep their column, rebased by one to the host convention.
func ToSourcePosition(nodeStart, errPos Position) Position {
	if errPos.Line == 1 {
		return Position{
			Line:   nodeStart.Line,
			Column: nodeStart.Column + errPos.Column,
		}
	}
	return Position{
		Line:   nodeStart.Line + errPos.Line,
		Column: errPos.Column - 1,
	}
}

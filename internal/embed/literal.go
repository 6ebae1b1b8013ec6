package embed

import "fmt"

// Position is a location in host source.
// Line is 1-based and Column is 0-based in UTF-16 code units, matching the host
// diagnostic format.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Segment is a chunk of literal text inside a template literal
type Segment struct {
	// Text is the raw text of the chunk, as written in the host source
	Text string
	// Start is where the chunk begins in the host source
	Start Position
}

// Slot is an interpolated ${...} expression sitting between two segments
type Slot struct {
	// ExpressionLength is the source length of the expression, without the ${ and }
	ExpressionLength int
	// Start is where the expression itself begins in the host source
	Start Position
}

// Literal is a template literal split into segments and interpolation slots.
// There is always exactly one more segment than there are slots.
type Literal struct {
	Segments []Segment
	Slots    []Slot
	// Start is the position of the opening backtick
	Start Position
}

// NewLiteral builds a literal from segment texts and expression lengths.
// Positions are left zero; this is mostly useful when the host source is not available.
func NewLiteral(texts []string, expressionLengths ...int) Literal {
	lit := Literal{
		Segments: make([]Segment, 0, len(texts)),
		Slots:    make([]Slot, 0, len(expressionLengths)),
	}
	for _, t := range texts {
		lit.Segments = append(lit.Segments, Segment{Text: t})
	}
	for _, n := range expressionLengths {
		lit.Slots = append(lit.Slots, Slot{ExpressionLength: n})
	}
	return lit
}

// Validate checks the segment/slot invariant
func (l Literal) Validate() error {
	if len(l.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrMalformedLiteral)
	}
	if len(l.Segments) != len(l.Slots)+1 {
		return fmt.Errorf("%w: %d segments for %d slots", ErrMalformedLiteral, len(l.Segments), len(l.Slots))
	}
	for i, s := range l.Slots {
		if s.ExpressionLength < 0 {
			return fmt.Errorf("%w: slot %d has negative expression length %d", ErrMalformedLiteral, i, s.ExpressionLength)
		}
	}
	return nil
}

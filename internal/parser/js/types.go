package js

import "bennypowers.dev/gqlint/internal/embed"

// TagKind is the syntactic shape of a template tag
type TagKind int

const (
	// TagIdentifier is a bare identifier tag, as in gql`...`
	TagIdentifier TagKind = iota
	// TagMember is a member access tag, as in Relay.QL`...`
	TagMember
)

// Tag is the tag expression of a tagged template literal
type Tag struct {
	Kind TagKind
	// Object is the member access receiver; empty for identifiers
	Object string
	// Name is the identifier, or the accessed property
	Name string
	// Start is where the tag begins
	Start embed.Position
}

func (t Tag) String() string {
	if t.Kind == TagMember {
		return t.Object + "." + t.Name
	}
	return t.Name
}

// TaggedTemplate is a tagged template literal found in JS/TS source
type TaggedTemplate struct {
	Tag     Tag
	Literal embed.Literal
}

// Offset moves every position in t as if its source were embedded at the given
// 0-based line and column of a larger document. Only positions on the first
// line of the embedded source gain the column offset.
func (t TaggedTemplate) Offset(line, column int) TaggedTemplate {
	shift := func(p embed.Position) embed.Position {
		if p.Line == 1 {
			p.Column += column
		}
		p.Line += line
		return p
	}

	out := t
	out.Tag.Start = shift(t.Tag.Start)
	out.Literal.Start = shift(t.Literal.Start)
	out.Literal.Segments = make([]embed.Segment, len(t.Literal.Segments))
	for i, seg := range t.Literal.Segments {
		seg.Start = shift(seg.Start)
		out.Literal.Segments[i] = seg
	}
	out.Literal.Slots = make([]embed.Slot, len(t.Literal.Slots))
	for i, slot := range t.Literal.Slots {
		slot.Start = shift(slot.Start)
		out.Literal.Slots[i] = slot
	}
	return out
}

package position

import "sort"

// LineIndex converts byte offsets in a source text into line/column pairs
type LineIndex struct {
	src    string
	starts []int
}

// NewLineIndex indexes the line starts of src
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Position returns the 0-based line and the 0-based UTF-16 column of a byte offset.
// Offsets outside the source are clamped.
func (ix *LineIndex) Position(offset int) (line, column int) {
	offset = max(0, min(offset, len(ix.src)))
	line = sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset }) - 1
	return line, StringLengthUTF16(ix.src[ix.starts[line]:offset])
}

// LineCount returns the number of lines, counting a trailing empty line
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

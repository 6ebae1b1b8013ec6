package html

// ScriptRegion is the body of a <script> element whose type is JavaScript
type ScriptRegion struct {
	Content string
	// StartLine is the 0-based line of the first content byte
	StartLine int
	// StartCol is the 0-based UTF-16 column of the first content byte
	StartCol int
	// Type is the element's type attribute, empty when absent
	Type string
}

package lint

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/gqlint/internal/embed"
)

// Kind classifies a diagnostic
type Kind string

const (
	// KindInvalidInterpolation marks an interpolation no enabled mode accepts
	KindInvalidInterpolation Kind = "invalid-interpolation"
	// KindSyntax marks a GraphQL parse error
	KindSyntax Kind = "syntax"
	// KindValidation marks a failed validation rule
	KindValidation Kind = "validation"
)

// Diagnostic is a single problem found in a tagged template, positioned in the
// host source
type Diagnostic struct {
	File     string         `json:"file,omitempty"`
	Message  string         `json:"message"`
	Position embed.Position `json:"position"`
	Kind     Kind           `json:"kind"`
	// Rule names the failed validation rule, for KindValidation only
	Rule string `json:"rule,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Rule != "" {
		return fmt.Sprintf("%s:%s: %s (%s)", d.File, d.Position, d.Message, d.Rule)
	}
	return fmt.Sprintf("%s:%s: %s", d.File, d.Position, d.Message)
}

// Sort orders diagnostics by file, then position
func Sort(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := strings.Compare(a.File, b.File); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Position.Line, b.Position.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Position.Column, b.Position.Column)
	})
}

// firstLine drops everything after the first line break
func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}

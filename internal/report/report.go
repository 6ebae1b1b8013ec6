// Package report prints lint diagnostics for humans or machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/lint"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Format selects the output representation
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. The empty name means text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", config.NewConfigurationError("format", name, "expected text or json")
}

// Reporter writes a batch of diagnostics
type Reporter interface {
	Report(diags []lint.Diagnostic) error
}

// New creates a reporter for format writing to w
func New(format Format, w io.Writer, color bool) Reporter {
	if format == FormatJSON {
		return &JSONReporter{w: w}
	}
	return NewTextReporter(w, color)
}

// UseColor reports whether f is a terminal that should get coloured output.
// NO_COLOR is honoured.
func UseColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// JSONReporter writes diagnostics as a JSON array
type JSONReporter struct {
	w io.Writer
}

func (r *JSONReporter) Report(diags []lint.Diagnostic) error {
	if diags == nil {
		diags = []lint.Diagnostic{}
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diags); err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}
	return nil
}

// TextReporter writes diagnostics grouped by file
type TextReporter struct {
	w        io.Writer
	color    bool
	file     lipgloss.Style
	position lipgloss.Style
	kind     lipgloss.Style
	rule     lipgloss.Style
	summary  lipgloss.Style
	ok       lipgloss.Style
}

// NewTextReporter creates a text reporter; without color every style is plain
func NewTextReporter(w io.Writer, color bool) *TextReporter {
	r := &TextReporter{w: w, color: color}
	if !color {
		return r
	}

	renderer := lipgloss.NewRenderer(w)
	r.file = renderer.NewStyle().Bold(true).Underline(true)
	r.position = renderer.NewStyle().Foreground(lipgloss.Color("240")) // Grey
	r.kind = renderer.NewStyle().Foreground(lipgloss.Color("196"))     // Red
	r.rule = renderer.NewStyle().Foreground(lipgloss.Color("240"))
	r.summary = renderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	r.ok = renderer.NewStyle().Foreground(lipgloss.Color("42")) // Green
	return r
}

func (r *TextReporter) Report(diags []lint.Diagnostic) error {
	var b strings.Builder
	files := 0
	current := ""
	for i, d := range diags {
		if i == 0 || d.File != current {
			if i > 0 {
				b.WriteString("\n")
			}
			current = d.File
			files++
			b.WriteString(r.render(r.file, d.File))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s  %s  %s", r.render(r.position, d.Position.String()), r.render(r.kind, string(d.Kind)), d.Message)
		if d.Rule != "" {
			b.WriteString("  ")
			b.WriteString(r.render(r.rule, d.Rule))
		}
		b.WriteString("\n")
	}

	if len(diags) == 0 {
		b.WriteString(r.render(r.ok, "No problems found"))
	} else {
		b.WriteString("\n")
		b.WriteString(r.render(r.summary, fmt.Sprintf("%s in %s", plural(len(diags), "problem"), plural(files, "file"))))
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *TextReporter) render(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

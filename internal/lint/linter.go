// Package lint runs embedded GraphQL documents through reconstruction, parsing
// and validation, reporting at most one diagnostic per tagged template.
package lint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/embed"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/parser/html"
	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/internal/position"
	"bennypowers.dev/gqlint/internal/rules"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// Linter lints tagged templates for one configuration. It holds no mutable
// state and is safe for concurrent use.
type Linter struct {
	env        config.Environment
	tag        config.TagName
	modes      embed.Modes
	schema     *ast.Schema
	rules      []rules.Rule
	validators []validator.Rule
}

// New creates a linter. A nil schema means documents are parsed but not validated.
func New(cfg *config.Config, schema *ast.Schema) *Linter {
	selected := rules.Select(rules.Catalogue, cfg.Env)
	return &Linter{
		env:        cfg.Env,
		tag:        cfg.Tag,
		modes:      cfg.Env.Modes(),
		schema:     schema,
		rules:      selected,
		validators: rules.Validators(selected),
	}
}

// Rules returns the validation rules this linter runs
func (l *Linter) Rules() []rules.Rule {
	return l.rules
}

// HasSchema reports whether documents are validated, not only parsed
func (l *Linter) HasSchema() bool {
	return l.schema != nil
}

// Matches reports whether tag is the configured GraphQL tag. The comparison is
// structural: Relay.QL never matches a bare QL, and vice versa.
func (l *Linter) Matches(tag js.Tag) bool {
	if l.tag.IsMember() {
		return tag.Kind == js.TagMember && tag.Object == l.tag.Object && tag.Name == l.tag.Name
	}
	return tag.Kind == js.TagIdentifier && tag.Name == l.tag.Name
}

// LintTemplate checks one tagged template. Templates with another tag yield
// nil. The error result is reserved for internal failures, never for problems
// in the document.
func (l *Linter) LintTemplate(t js.TaggedTemplate) (*Diagnostic, error) {
	if !l.Matches(t.Tag) {
		return nil, nil
	}

	text, err := embed.Reconstruct(t.Literal, l.modes)
	if err != nil {
		var invalid *embed.InvalidInterpolationError
		if errors.As(err, &invalid) {
			return &Diagnostic{
				Message:  embed.InvalidInterpolationMessage,
				Position: invalid.Position,
				Kind:     KindInvalidInterpolation,
			}, nil
		}
		return nil, fmt.Errorf("reconstructing %s template at %s: %w", t.Tag, t.Literal.Start, err)
	}

	if l.env.PatchesFragmentShorthand() {
		text = embed.PatchFragmentShorthand(text)
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: t.Tag.String(), Input: text})
	if err != nil {
		return l.diagnose(t, text, KindSyntax, err), nil
	}

	if l.schema == nil {
		return nil, nil
	}

	// Validate runs the rules in catalogue order. ValidateWithRules sorts them by
	// name, which would change which error is reported first.
	errs := validator.Validate(l.schema, doc, l.validators...)
	if len(errs) == 0 {
		return nil, nil
	}
	return l.diagnose(t, text, KindValidation, errs[0]), nil
}

// diagnose maps the first location of a GraphQL error in text onto the host source
func (l *Linter) diagnose(t js.TaggedTemplate, text string, kind Kind, err error) *Diagnostic {
	d := &Diagnostic{
		Message:  firstLine(err.Error()),
		Position: embed.ToSourcePosition(t.Literal.Start, embed.Position{Line: 1}),
		Kind:     kind,
	}

	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		return d
	}

	d.Message = firstLine(gqlErr.Message)
	if kind == KindValidation {
		d.Rule = gqlErr.Rule
	}
	if len(gqlErr.Locations) > 0 {
		loc := gqlErr.Locations[0]
		d.Position = embed.ToSourcePosition(t.Literal.Start, embed.Position{Line: loc.Line, Column: utf16Column(text, loc)})
	}
	return d
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// utf16Column converts gqlparser's 1-based rune column to 1-based UTF-16 units,
// the unit host columns are counted in.
func utf16Column(text string, loc gqlerror.Location) int {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	if loc.Line < 1 || loc.Line > len(lines) || loc.Column < 1 {
		return loc.Column
	}
	return position.RunesToUTF16(lines[loc.Line-1], loc.Column-1) + 1
}

// LintTemplates checks each template in turn. Internal failures are collected
// and returned alongside whatever diagnostics were produced.
func (l *Linter) LintTemplates(file string, templates []js.TaggedTemplate) ([]Diagnostic, error) {
	var (
		diags []Diagnostic
		errs  []error
	)
	for _, t := range templates {
		d, err := l.LintTemplate(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if d != nil {
			d.File = file
			diags = append(diags, *d)
		}
	}
	return diags, errors.Join(errs...)
}

// LintSource extracts tagged templates from a JS/TS or HTML source and lints them
func (l *Linter) LintSource(file, source string) ([]Diagnostic, error) {
	templates := ExtractTemplates(file, source)
	log.Debug("Found %d tagged template(s) in %s", len(templates), file)
	return l.LintTemplates(file, templates)
}

// ExtractTemplates parses source with the parser its file extension calls for
func ExtractTemplates(file, source string) []js.TaggedTemplate {
	if IsHTML(file) {
		return ExtractHTMLTemplates(source)
	}
	return ExtractJSTemplates(source)
}

// ExtractJSTemplates finds tagged templates in JS/TS/JSX source
func ExtractJSTemplates(source string) []js.TaggedTemplate {
	p := js.AcquireParser()
	defer js.ReleaseParser(p)
	return p.ParseTemplates(source)
}

// ExtractHTMLTemplates finds tagged templates in the inline scripts of an HTML page
func ExtractHTMLTemplates(source string) []js.TaggedTemplate {
	p := html.AcquireParser()
	defer html.ReleaseParser(p)
	return p.ParseTemplates(source)
}

// IsHTML reports whether file is linted through its inline scripts
func IsHTML(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm":
		return true
	}
	return false
}

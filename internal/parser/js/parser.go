package js

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"bennypowers.dev/gqlint/internal/embed"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser finds tagged template literals in JS/TS source
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query // matches gql<Type>`...` (parsed by the JS grammar as binary_expression)
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: [(identifier) (member_expression)] @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		// Generic form: gql<Type>`...` is valid TypeScript but tree-sitter-javascript
		// misparses it as nested binary expressions.
		// See: https://github.com/tree-sitter/tree-sitter-typescript/issues/341
		genericQuery, qerr := sitter.NewQuery(jsLang, `
			(binary_expression
				left: (binary_expression
					left: (identifier) @tag)
				right: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile generic query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
			genericQuery:  genericQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close releases the parser's tree-sitter resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// ClosePool closes pooled parsers
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseTemplates returns every tagged template literal in source, in source order.
// Positions use 1-based lines and 0-based UTF-16 columns.
func (p *Parser) ParseTemplates(source string) []TaggedTemplate {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	lines := position.NewLineIndex(source)

	var templates []TaggedTemplate
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		templates = p.runTemplateQuery(query, root, sourceBytes, lines, templates)
	}

	slices.SortFunc(templates, func(a, b TaggedTemplate) int {
		if c := cmp.Compare(a.Literal.Start.Line, b.Literal.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Literal.Start.Column, b.Literal.Start.Column)
	})
	return templates
}

func (p *Parser) runTemplateQuery(query *sitter.Query, root *sitter.Node, sourceBytes []byte, lines *position.LineIndex, templates []TaggedTemplate) []TaggedTemplate {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tagNode, templateNode sitter.Node
		foundTag, foundTemplate := false, false

		for _, capture := range match.Captures {
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tagNode = capture.Node
				foundTag = true
			case "template":
				templateNode = capture.Node
				foundTemplate = true
			}
		}
		if !foundTag || !foundTemplate {
			continue
		}

		tag, ok := extractTag(&tagNode, sourceBytes, lines)
		if !ok {
			continue
		}

		templates = append(templates, TaggedTemplate{
			Tag:     tag,
			Literal: extractLiteral(&templateNode, sourceBytes, lines),
		})
	}
	return templates
}

// extractTag describes the tag node structurally. Computed member accesses
// (a["b"]`...`) and deeper chains are not tags we can match.
func extractTag(node *sitter.Node, src []byte, lines *position.LineIndex) (Tag, bool) {
	start := positionAt(lines, int(node.StartByte())) //nolint:gosec // G115: offsets are bounded by file size

	switch node.Kind() {
	case "identifier":
		return Tag{Kind: TagIdentifier, Name: text(node, src), Start: start}, true
	case "member_expression":
		object := node.ChildByFieldName("object")
		property := node.ChildByFieldName("property")
		if object == nil || property == nil || object.Kind() != "identifier" {
			log.Debug("Skipping tag %q: not a simple member access", text(node, src))
			return Tag{}, false
		}
		return Tag{Kind: TagMember, Object: text(object, src), Name: text(property, src), Start: start}, true
	}
	return Tag{}, false
}

// extractLiteral splits a template_string node at its ${...} substitutions.
// Segment text is the raw source between the backticks and substitutions.
func extractLiteral(node *sitter.Node, src []byte, lines *position.LineIndex) embed.Literal {
	start := int(node.StartByte()) //nolint:gosec // G115: offsets are bounded by file size
	end := int(node.EndByte())     //nolint:gosec // G115: offsets are bounded by file size

	lit := embed.Literal{Start: positionAt(lines, start)}

	segStart := start + 1 // past the opening backtick
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "template_substitution" {
			continue
		}
		subStart := int(child.StartByte()) //nolint:gosec // G115: offsets are bounded by file size

		lit.Segments = append(lit.Segments, embed.Segment{
			Text:  string(src[segStart:subStart]),
			Start: positionAt(lines, segStart),
		})
		lit.Slots = append(lit.Slots, extractSlot(child, src, lines))
		segStart = int(child.EndByte()) //nolint:gosec // G115: offsets are bounded by file size
	}

	segEnd := max(segStart, end-1) // before the closing backtick
	lit.Segments = append(lit.Segments, embed.Segment{
		Text:  string(src[segStart:segEnd]),
		Start: positionAt(lines, segStart),
	})
	return lit
}

// extractSlot measures the expression inside ${...}, excluding the delimiters
func extractSlot(sub *sitter.Node, src []byte, lines *position.LineIndex) embed.Slot {
	var expr *sitter.Node
	for i := uint(0); i < sub.NamedChildCount(); i++ {
		if c := sub.NamedChild(i); c != nil && c.Kind() != "comment" {
			expr = c
			break
		}
	}

	if expr == nil {
		// ${} is a host syntax error; pin the empty slot right after the ${
		at := int(sub.StartByte()) + 2 //nolint:gosec // G115: offsets are bounded by file size
		return embed.Slot{Start: positionAt(lines, at)}
	}

	return embed.Slot{
		ExpressionLength: position.StringLengthUTF16(text(expr, src)),
		Start:            positionAt(lines, int(expr.StartByte())), //nolint:gosec // G115: offsets are bounded by file size
	}
}

func positionAt(lines *position.LineIndex, offset int) embed.Position {
	line, col := lines.Position(offset)
	return embed.Position{Line: line + 1, Column: col}
}

func text(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

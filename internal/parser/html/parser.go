package html

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser handles parsing HTML to extract script regions
type Parser struct {
	parser      *sitter.Parser
	scriptQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// scriptTypes are the type attribute values whose content is parsed as JavaScript
var scriptTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/babel":             true,
}

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		scriptQuery, qerr := sitter.NewQuery(htmlLang, `
			(script_element
				(start_tag) @start
				(raw_text) @js)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile script query: %v", qerr))
		}

		return &Parser{
			parser:      parser,
			scriptQuery: scriptQuery,
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

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.scriptQuery != nil {
		p.scriptQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseScriptRegions extracts JavaScript regions from HTML source
func (p *Parser) ParseScriptRegions(source string) []ScriptRegion {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	lines := position.NewLineIndex(source)
	var regions []ScriptRegion

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(p.scriptQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var startTag, body *sitter.Node
		for _, capture := range match.Captures {
			node := capture.Node
			switch p.scriptQuery.CaptureNames()[capture.Index] {
			case "start":
				startTag = &node
			case "js":
				body = &node
			}
		}
		if startTag == nil || body == nil || body.StartByte() == body.EndByte() {
			continue
		}

		scriptType := typeAttribute(startTag, sourceBytes)
		if !scriptTypes[scriptType] {
			continue
		}

		line, col := lines.Position(int(body.StartByte())) //nolint:gosec // G115: offsets are bounded by file size
		regions = append(regions, ScriptRegion{
			Content:   string(sourceBytes[body.StartByte():body.EndByte()]),
			StartLine: line,
			StartCol:  col,
			Type:      scriptType,
		})
	}

	return regions
}

// typeAttribute returns the normalised value of a start tag's type attribute
func typeAttribute(startTag *sitter.Node, src []byte) string {
	for i := uint(0); i < startTag.NamedChildCount(); i++ {
		attr := startTag.NamedChild(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}
		var name, value string
		for j := uint(0); j < attr.NamedChildCount(); j++ {
			child := attr.NamedChild(j)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "attribute_name":
				name = string(src[child.StartByte():child.EndByte()])
			case "attribute_value":
				value = string(src[child.StartByte():child.EndByte()])
			case "quoted_attribute_value":
				if v := child.NamedChild(0); v != nil {
					value = string(src[v.StartByte():v.EndByte()])
				}
			}
		}
		if strings.EqualFold(name, "type") {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

// ParseTemplates extracts tagged templates from every script region,
// mapping their positions back to HTML document coordinates
func (p *Parser) ParseTemplates(source string) []js.TaggedTemplate {
	regions := p.ParseScriptRegions(source)
	if len(regions) == 0 {
		return nil
	}

	jsParser := js.AcquireParser()
	defer js.ReleaseParser(jsParser)

	var templates []js.TaggedTemplate
	for _, region := range regions {
		for _, tmpl := range jsParser.ParseTemplates(region.Content) {
			templates = append(templates, tmpl.Offset(region.StartLine, region.StartCol))
		}
	}
	return templates
}

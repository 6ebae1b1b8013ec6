package diagnostic

import (
	"fmt"

	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/internal/uriutil"
	"bennypowers.dev/gqlint/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source is the diagnostic source shown by clients
const Source = "gqlint"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics)
//
// glsp v0.2.2 only knows LSP 3.16, so CustomHandler routes this method here
// before it reaches protocol.Handler.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:  string(DiagnosticFull),
		Items: diagnostics,
	}, nil
}

// GetDiagnostics lints the embedded GraphQL in an open document.
// The result is never nil, so that an empty list clears the client's view.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	diagnostics := []protocol.Diagnostic{}

	doc := ctx.Document(uri)
	if doc == nil || !doc.Lintable() {
		return diagnostics, nil
	}

	linter := ctx.Linter()
	if linter == nil {
		return diagnostics, nil
	}

	var templates []js.TaggedTemplate
	if doc.LanguageID() == "html" || lint.IsHTML(uriutil.URIToPath(uri)) {
		templates = lint.ExtractHTMLTemplates(doc.Content())
	} else {
		templates = lint.ExtractJSTemplates(doc.Content())
	}

	found, err := linter.LintTemplates(uri, templates)
	for _, d := range found {
		diagnostics = append(diagnostics, ToProtocol(d))
	}
	if err != nil {
		return diagnostics, fmt.Errorf("failed to lint %s: %w", uri, err)
	}
	return diagnostics, nil
}

// ToProtocol converts a lint diagnostic to its LSP form. Lint positions have
// 1-based lines and UTF-16 columns, so only the line shifts. The range covers
// the single character at the reported position.
func ToProtocol(d lint.Diagnostic) protocol.Diagnostic {
	line := uint32(0)
	if d.Position.Line > 0 {
		line = uint32(d.Position.Line - 1)
	}
	character := uint32(0)
	if d.Position.Column > 0 {
		character = uint32(d.Position.Column)
	}

	severity := protocol.DiagnosticSeverityError
	source := Source
	diag := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: character},
			End:   protocol.Position{Line: line, Character: character + 1},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: string(d.Kind)},
		Source:   &source,
		Message:  d.Message,
	}
	if d.Rule != "" {
		diag.Data = map[string]string{"rule": d.Rule}
	}
	return diag
}

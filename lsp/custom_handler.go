package lsp

import (
	"encoding/json"

	"bennypowers.dev/gqlint/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/gqlint/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add custom method support
//
// WORKAROUND: glsp v0.2.2 only implements LSP 3.16. protocol.Handler has no
// field for textDocument/diagnostic, so we intercept it here. Switch to
// protocol_3_17.Handler once glsp ships it.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            types.ServerContext
}

// Handle implements glsp.Handler interface
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "initialize":
		// The parsed 3.16 InitializeParams drop the "diagnostic" capability, so
		// read it from the raw params and fall through to the normal handler.
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))

	case diagnostic.MethodDocumentDiagnostic:
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}

		result, err := method(h.server, diagnostic.MethodDocumentDiagnostic, diagnostic.DocumentDiagnostic)(context, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil
	}

	return h.Handler.Handle(context)
}

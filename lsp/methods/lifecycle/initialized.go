package lifecycle

import (
	"errors"

	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/schema"
	"bennypowers.dev/gqlint/lsp/methods/workspace"
	"bennypowers.dev/gqlint/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized loads the project once the client is ready to receive messages
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadProject(); err != nil {
		// Linting continues without validation; tell the user once
		if errors.Is(err, schema.ErrSchemaUnavailable) {
			workspace.ShowMessage(req.GLSP, protocol.MessageTypeWarning,
				"gqlint: GraphQL schema unavailable, only syntax is checked. "+err.Error())
		}
		workspace.LogWarning(req.GLSP, "Failed to load project: %v", err)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	workspace.RepublishDiagnostics(req.Server)
	return nil
}

package workspace

import (
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/uriutil"
	"bennypowers.dev/gqlint/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles reloads the project when a config or schema file changes
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	needsReload := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		if req.Server.IsProjectFile(path) {
			log.Info("Project file changed: %s (type: %d)", path, change.Type)
			needsReload = true
		}
	}
	if !needsReload {
		return nil
	}

	if err := req.Server.LoadProject(); err != nil {
		LogWarning(req.GLSP, "Failed to reload project: %v", err)
	}
	RepublishDiagnostics(req.Server)
	return nil
}

package lifecycle

import (
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace maps the client's trace value onto our log level
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)
	if params.Value == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
	}
	return nil
}

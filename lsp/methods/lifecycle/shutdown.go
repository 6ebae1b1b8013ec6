package lifecycle

import (
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/parser/html"
	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/lsp/types"
)

// Shutdown releases pooled parsers
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	js.ClosePool()
	html.ClosePool()
	return nil
}

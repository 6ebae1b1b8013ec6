package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/documents"
	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/log"
	"bennypowers.dev/gqlint/internal/parser/html"
	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/lsp/methods/lifecycle"
	"bennypowers.dev/gqlint/lsp/methods/textDocument"
	"bennypowers.dev/gqlint/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/gqlint/lsp/methods/workspace"
	"bennypowers.dev/gqlint/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the gqlint language server
type Server struct {
	documents                  *documents.Manager
	glspServer                 *server.Server
	context                    *glsp.Context
	rootURI                    string             // Workspace root URI
	rootPath                   string             // Workspace root path (file system)
	config                     types.ServerConfig // Client settings
	project                    *config.Config     // Resolved project configuration
	linter                     *lint.Linter
	configMu                   sync.RWMutex // Protects everything above except documents and glspServer
	clientDiagnosticCapability *bool        // Detected from raw initialize params (nil = not detected yet)
	usePullDiagnostics         bool         // Pull diagnostics (LSP 3.17) vs push
}

// NewServer creates a server that lints with default settings until the
// project is loaded.
func NewServer() (*Server, error) {
	cfg, err := config.Resolve("", config.File{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default configuration: %w", err)
	}

	s := &Server{
		documents: documents.NewManager(),
		config:    types.DefaultConfig(),
		project:   cfg,
		linter:    lint.New(cfg, nil),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
	}

	// WORKAROUND: CustomHandler routes LSP 3.17 methods that protocol.Handler lacks
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, lifecycle.ServerName, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the parser pools. It is safe to call more than once.
func (s *Server) Close() error {
	js.ClosePool()
	html.ClosePool()
	return nil
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Linter returns the linter for the current project
func (s *Server) Linter() *lint.Linter {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.linter
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GLSPContext returns the context notifications are sent through
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the context notifications are sent through
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability returns the detected client diagnostic capability,
// or nil before initialize.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records what CustomHandler found in the raw
// initialize params.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client requests diagnostics itself.
// When true the server never sends textDocument/publishDiagnostics.
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics sets whether to use pull diagnostics based on client capabilities
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics publishes diagnostics for a document
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}
	if workingContext == nil || workingContext.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		// partial results are still worth showing
		log.Warn("%v", err)
	}

	log.Debug("Publishing %d diagnostics for: %s", len(diagnostics), uri)
	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

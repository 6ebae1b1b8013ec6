package types

import (
	"bennypowers.dev/gqlint/internal/documents"
	"bennypowers.dev/gqlint/internal/lint"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface so tests can inject a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Linter returns the linter for the current project configuration
	Linter() *lint.Linter

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)

	// LoadProject resolves configuration and schema and swaps in a new linter.
	// A schema error still installs a parse-only linter.
	LoadProject() error
	// IsProjectFile reports whether a change to path calls for LoadProject
	IsProjectFile(path string) bool
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostic model negotiated at initialize
	ClientDiagnosticCapability() *bool
	SetClientDiagnosticCapability(hasCapability bool)
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)

	// PublishDiagnostics pushes diagnostics for uri unless the client pulls them
	PublishDiagnostics(context *glsp.Context, uri string) error
}

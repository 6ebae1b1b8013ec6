package testutil

import (
	"sync"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/documents"
	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext for testing, with behavior
// overridable through callback fields.
type MockServerContext struct {
	mu                         sync.Mutex
	docs                       *documents.Manager
	linter                     *lint.Linter
	rootURI                    string
	rootPath                   string
	config                     types.ServerConfig
	glspContext                *glsp.Context
	clientDiagnosticCapability *bool
	usePullDiagnostics         bool

	// Optional callbacks for custom behavior in tests
	LoadProjectFunc        func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	IsProjectFileFunc      func(string) bool
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that verify calls
	LoadProjectCalled      bool
	RegisterWatchersCalled bool
	Published              []string
}

// NewMockServerContext creates a mock that lints with the default environment
// and no schema.
func NewMockServerContext() *MockServerContext {
	cfg, _ := config.Resolve("", config.File{})
	return &MockServerContext{
		docs:   documents.NewManager(),
		linter: lint.New(cfg, nil),
		config: types.DefaultConfig(),
	}
}

// SetLinter replaces the linter returned by Linter
func (m *MockServerContext) SetLinter(linter *lint.Linter) {
	m.linter = linter
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// AllDocuments returns all tracked documents
func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

// Linter returns the configured linter
func (m *MockServerContext) Linter() *lint.Linter {
	return m.linter
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// GetConfig returns the client settings
func (m *MockServerContext) GetConfig() types.ServerConfig {
	return m.config
}

// SetConfig sets the client settings
func (m *MockServerContext) SetConfig(config types.ServerConfig) {
	m.config = config
}

// LoadProject records the call and defers to LoadProjectFunc
func (m *MockServerContext) LoadProject() error {
	m.LoadProjectCalled = true
	if m.LoadProjectFunc != nil {
		return m.LoadProjectFunc()
	}
	return nil
}

// IsProjectFile defers to IsProjectFileFunc, false otherwise
func (m *MockServerContext) IsProjectFile(path string) bool {
	if m.IsProjectFileFunc != nil {
		return m.IsProjectFileFunc(path)
	}
	return false
}

// RegisterFileWatchers records the call and defers to RegisterWatchersFunc
func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// ClientDiagnosticCapability returns the recorded capability
func (m *MockServerContext) ClientDiagnosticCapability() *bool {
	return m.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records the capability
func (m *MockServerContext) SetClientDiagnosticCapability(hasCapability bool) {
	m.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics returns the negotiated diagnostic model
func (m *MockServerContext) UsePullDiagnostics() bool {
	return m.usePullDiagnostics
}

// SetUsePullDiagnostics sets the negotiated diagnostic model
func (m *MockServerContext) SetUsePullDiagnostics(use bool) {
	m.usePullDiagnostics = use
}

// PublishDiagnostics records uri and defers to PublishDiagnosticsFunc
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Published = append(m.Published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

// PublishedURIs returns a copy of the URIs passed to PublishDiagnostics
func (m *MockServerContext) PublishedURIs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Published...)
}

package testutil

import (
	"bennypowers.dev/lupls/internal/documents"
	"bennypowers.dev/lupls/internal/workspace"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext for testing.
// Behavior is configurable via callback functions.
type MockServerContext struct {
	docs        *documents.Manager
	ws          *workspace.Workspace
	rootURI     string
	rootPath    string
	config      types.ServerConfig
	glspContext *glsp.Context
	pull        bool
	settings    any

	// Optional callbacks for custom behavior in tests
	LoadWorkspaceFunc      func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that need to verify methods were called
	LoadWorkspaceCalled    bool
	RegisterWatchersCalled bool
	Published              []string
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: types.DefaultConfig(),
	}
}

// NewMockWithWorkspace returns a mock serving ws.
func NewMockWithWorkspace(ws *workspace.Workspace) *MockServerContext {
	m := NewMockServerContext()
	m.SetWorkspace(ws)
	return m
}

func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

func (m *MockServerContext) Workspace() *workspace.Workspace {
	return m.ws
}

// SetWorkspace installs ws and adopts its root and configuration.
func (m *MockServerContext) SetWorkspace(ws *workspace.Workspace) {
	m.ws = ws
	if ws != nil {
		m.rootPath = ws.Root
		m.config = ws.Config
	}
}

func (m *MockServerContext) LoadWorkspace() error {
	m.LoadWorkspaceCalled = true
	if m.LoadWorkspaceFunc != nil {
		return m.LoadWorkspaceFunc()
	}
	return nil
}

func (m *MockServerContext) RootURI() string         { return m.rootURI }
func (m *MockServerContext) RootPath() string        { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)   { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string) { m.rootPath = path }

func (m *MockServerContext) GetConfig() types.ServerConfig {
	return m.config
}

func (m *MockServerContext) SetConfig(config types.ServerConfig) {
	m.config = config
}

func (m *MockServerContext) SetClientSettings(settings any) {
	m.settings = settings
}

// ClientSettings returns what SetClientSettings stored.
func (m *MockServerContext) ClientSettings() any {
	return m.settings
}

func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

func (m *MockServerContext) UsePullDiagnostics() bool {
	return m.pull
}

func (m *MockServerContext) SetUsePullDiagnostics(use bool) {
	m.pull = use
}

// PublishDiagnostics records uri and calls PublishDiagnosticsFunc if set.
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.Published = append(m.Published, uri)
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

package types

import (
	"bennypowers.dev/lupls/internal/documents"
	"bennypowers.dev/lupls/internal/workspace"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Workspace returns the loaded project, or nil before initialization.
	Workspace() *workspace.Workspace
	LoadWorkspace() error

	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	// SetClientSettings stores settings from the client. They are applied
	// over the project files on the next LoadWorkspace.
	SetClientSettings(settings any)

	RegisterFileWatchers(ctx *glsp.Context) error

	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics publishing
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)
	PublishDiagnostics(context *glsp.Context, uri string) error
}

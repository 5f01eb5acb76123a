package lsp

import (
	"fmt"
	"sync"
	"time"

	"bennypowers.dev/lupls/internal/documents"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/parser/css"
	"bennypowers.dev/lupls/internal/parser/html"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/internal/workspace"
	"bennypowers.dev/lupls/lsp/methods/lifecycle"
	"bennypowers.dev/lupls/lsp/methods/textDocument"
	codeaction "bennypowers.dev/lupls/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/lupls/lsp/methods/textDocument/completion"
	"bennypowers.dev/lupls/lsp/methods/textDocument/definition"
	"bennypowers.dev/lupls/lsp/methods/textDocument/diagnostic"
	documentcolor "bennypowers.dev/lupls/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/lupls/lsp/methods/textDocument/hover"
	"bennypowers.dev/lupls/lsp/methods/textDocument/references"
	semantictokens "bennypowers.dev/lupls/lsp/methods/textDocument/semanticTokens"
	lspworkspace "bennypowers.dev/lupls/lsp/methods/workspace"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.uber.org/multierr"
)

// Name is the server name reported to clients.
const Name = "lupos-language-server"

// SweepInterval is how often idle cache entries are evicted.
const SweepInterval = time.Minute

var _ types.ServerContext = (*Server)(nil)

// Server is the lupos template language server.
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	fs         afero.Fs

	configMu           sync.RWMutex // guards everything below
	context            *glsp.Context
	rootURI            string
	rootPath           string
	config             types.ServerConfig
	settings           any
	ws                 *workspace.Workspace
	usePullDiagnostics bool

	stopSweep chan struct{}
	closeOnce sync.Once
}

// NewServer creates a server reading projects from the OS filesystem
func NewServer() (*Server, error) {
	return NewServerWithFs(afero.NewOsFs())
}

// NewServerWithFs creates a server reading projects from fs
func NewServerWithFs(fs afero.Fs) (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		fs:        fs,
		config:    types.DefaultConfig(),
		stopSweep: make(chan struct{}),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", lspworkspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", lspworkspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", hover.Hover),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		CompletionItemResolve:           method(s, "completionItem/resolve", completion.CompletionResolve),
		TextDocumentDefinition:          method(s, "textDocument/definition", definition.Definition),
		TextDocumentReferences:          method(s, "textDocument/references", references.References),
		TextDocumentColor:               method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
		TextDocumentSemanticTokensFull:  method(s, "textDocument/semanticTokens/full", semantictokens.SemanticTokensFull),
	}

	// protocol.Handler only knows LSP 3.16; CustomHandler adds pull diagnostics.
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, Name, false)
	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	go s.sweepLoop(SweepInterval)
	return s.glspServer.RunStdio()
}

func (s *Server) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopSweep:
			return
		case <-ticker.C:
			if ws := s.Workspace(); ws != nil {
				if n := ws.Service.Sweep(); n > 0 {
					log.Debug("Evicted %d idle cache entries", n)
				}
			}
		}
	}
}

// Close stops background work and releases the parser pools.
// It is safe to call Close multiple times.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopSweep)
		ts.ClosePool()
		html.ClosePool()
		css.ClosePool()
	})
	return nil
}

func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Workspace returns the loaded project, or nil before LoadWorkspace succeeds
func (s *Server) Workspace() *workspace.Workspace {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.ws
}

// LoadWorkspace reads the project configuration, applies the client
// settings over it and loads the project sources. Open documents keep the
// editor's text. Configuration and load problems are returned but do not
// prevent the new workspace from being used.
func (s *Server) LoadWorkspace() error {
	root := s.RootPath()
	if root == "" {
		return workspace.ErrNoRoot
	}

	cfg, errs := workspace.LoadConfig(s.fs, root)
	s.configMu.RLock()
	settings := s.settings
	s.configMu.RUnlock()
	if withSettings, err := cfg.WithSettings(settings); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		cfg = withSettings
	}
	applyLogLevel(cfg.LogLevel)

	ws, err := workspace.New(s.fs, root, cfg)
	if err != nil {
		return multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, ws.Load())

	for _, doc := range s.documents.GetAll() {
		if !doc.IsTemplateHost() {
			continue
		}
		if err := ws.SetFile(uriutil.URIToPath(doc.URI()), doc.Content()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	s.configMu.Lock()
	s.ws = ws
	s.config = cfg
	s.configMu.Unlock()
	return errs
}

func applyLogLevel(name string) {
	if level, ok := log.ParseLevel(name); ok {
		log.SetLevel(level)
	}
}

func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

func (s *Server) SetClientSettings(settings any) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.settings = settings
}

func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// UsePullDiagnostics reports whether the client requests diagnostics itself
// (LSP 3.17), in which case nothing is pushed.
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

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
		return err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debug("Publishing %d diagnostics for: %s", len(diagnostics), uri)
	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// RegisterFileWatchers asks the client to report changes to project sources
// and configuration files.
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// Empty contexts appear in tests without a client connection
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	root := s.RootPath()
	if root == "" {
		log.Info("No file watchers to register")
		return nil
	}

	var watchers []protocol.FileSystemWatcher
	for _, pattern := range s.GetConfig().Include {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: root + "/" + pattern})
	}
	for _, name := range lspworkspace.ConfigFiles {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: root + "/" + name})
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "lupos-file-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Calling it synchronously would
	// block the message loop that must read the client's response.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call("client/registerCapability", params, &result)
		log.Info("File watcher registration completed")
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}

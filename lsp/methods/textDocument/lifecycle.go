package textDocument

import (
	"bennypowers.dev/lupls/internal/documents"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	log.Debug("Document opened: %s (language: %s, version: %d)",
		params.TextDocument.URI, params.TextDocument.LanguageID, int(params.TextDocument.Version))

	doc := req.Server.DocumentManager().DidOpen(params.TextDocument.URI, params.TextDocument.LanguageID,
		int(params.TextDocument.Version), params.TextDocument.Text)
	if err := syncProgram(req, doc); err != nil {
		return err
	}
	publish(req, doc.URI())
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	doc, err := req.Server.DocumentManager().DidChange(uri, version, params.ContentChanges)
	if err != nil {
		return err
	}
	if err := syncProgram(req, doc); err != nil {
		return err
	}
	publish(req, uri)
	return nil
}

// DidClose handles the textDocument/didClose notification. The program
// falls back to the file on disk.
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	if ws := req.Server.Workspace(); ws != nil {
		return ws.Close(uriutil.URIToPath(uri))
	}
	return nil
}

// syncProgram copies the editor's text of a template host into the program.
func syncProgram(req *types.RequestContext, doc *documents.Document) error {
	ws := req.Server.Workspace()
	if ws == nil || !doc.IsTemplateHost() {
		return nil
	}
	return ws.SetFile(uriutil.URIToPath(doc.URI()), doc.Content())
}

func publish(req *types.RequestContext, uri string) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(glspCtx, uri); err != nil {
		req.AddWarning(err)
	}
}

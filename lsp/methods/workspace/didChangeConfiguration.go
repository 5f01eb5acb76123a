package workspace

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	if _, err := req.Server.GetConfig().WithSettings(params.Settings); err != nil {
		// Keep the current configuration
		req.AddWarning(err)
		return nil
	}
	req.Server.SetClientSettings(params.Settings)

	if err := req.Server.LoadWorkspace(); err != nil {
		req.AddWarning(err)
	}

	RepublishDiagnostics(req)
	return nil
}

// RepublishDiagnostics pushes diagnostics again for every open document.
func RepublishDiagnostics(req *types.RequestContext) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			req.AddWarning(err)
		}
	}
}

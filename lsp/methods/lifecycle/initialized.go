package lifecycle

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification. Load and watcher
// problems are reported as warnings; initialization still succeeds.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadWorkspace(); err != nil {
		req.AddWarning(err)
	}
	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}
	return nil
}

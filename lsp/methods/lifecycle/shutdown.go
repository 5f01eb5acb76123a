package lifecycle

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/types"
)

// Shutdown handles the LSP shutdown request. Parser pools are released by
// Server.Close once the connection ends.
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	return nil
}

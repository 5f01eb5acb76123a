package workspace

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles notification
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Info("Watched files changed: %d files", len(params.Changes))

	ws := req.Server.Workspace()
	if ws == nil {
		return nil
	}

	configChanged := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		log.Debug("File change: %s (type: %d)", path, change.Type)

		if isConfigFile(ws.Root, path) {
			configChanged = true
			continue
		}

		switch change.Type {
		case protocol.FileChangeTypeDeleted:
			ws.Remove(path)
		default:
			if err := ws.Reload(path); err != nil {
				req.AddWarning(err)
			}
		}
	}

	if configChanged {
		if err := req.Server.LoadWorkspace(); err != nil {
			req.AddWarning(err)
		}
	}

	RepublishDiagnostics(req)
	return nil
}

// ConfigFiles are the project files that carry server settings, relative to
// the root.
var ConfigFiles = []string{
	"tsconfig.json",
	"package.json",
	".config/lupos.yaml",
	".config/lupos.yml",
}

func isConfigFile(root, path string) bool {
	for _, name := range ConfigFiles {
		if path == root+"/"+name {
			return true
		}
	}
	return false
}

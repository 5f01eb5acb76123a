package helpers

import (
	"errors"

	"bennypowers.dev/lupls/internal/position"
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/internal/workspace"
	"bennypowers.dev/lupls/lsp/types"
)

// File is a document resolved to its program snapshot.
type File struct {
	Workspace *workspace.Workspace
	Service   *service.Service
	Path      string
	Index     *position.Index
}

// ResolveFile finds the program file behind uri. It reports false before the
// workspace is loaded and for files outside the program.
func ResolveFile(server types.ServerContext, uri string) (*File, bool) {
	ws := server.Workspace()
	if ws == nil {
		return nil, false
	}
	path := uriutil.URIToPath(uri)
	f := ws.Context.Program.File(path)
	if f == nil {
		return nil, false
	}
	return &File{Workspace: ws, Service: ws.Service, Path: path, Index: f.Index()}, true
}

// IgnoreMiss drops the errors a service returns for offsets outside any
// template, which are not failures for an editor request.
func IgnoreMiss(err error) error {
	if errors.Is(err, service.ErrNoTemplate) || errors.Is(err, service.ErrUnknownFile) {
		return nil
	}
	return err
}

package references

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// References handles the textDocument/references request on a component tag
func References(req *types.RequestContext, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	refs, err := file.Service.References(file.Path, helpers.Offset(file.Index, params.Position), params.Context.IncludeDeclaration)
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}

	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		if loc, ok := helpers.Location(file.Workspace, ref.File, ref.Span); ok {
			locations = append(locations, loc)
		}
	}
	log.Debug("Found %d references", len(locations))
	return locations, nil
}

package definition

import (
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Definition handles the textDocument/definition request. Components,
// properties, events and project bindings jump to their declaration;
// built-in vocabulary has none.
func Definition(req *types.RequestContext, params *protocol.DefinitionParams) (any, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	targets, err := file.Service.Definition(file.Path, helpers.Offset(file.Index, params.Position))
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}

	var locations []protocol.Location
	for _, target := range targets {
		if loc, ok := helpers.Location(file.Workspace, target.File, target.Span); ok {
			locations = append(locations, loc)
		}
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

package documentColor

import (
	"bennypowers.dev/lupls/internal/color"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor handles the textDocument/documentColor request. It reports
// literal colors in the style regions of templates.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return []protocol.ColorInformation{}, nil
	}
	infos, err := file.Service.Colors(file.Path)
	if err != nil {
		return []protocol.ColorInformation{}, helpers.IgnoreMiss(err)
	}

	colors := make([]protocol.ColorInformation, 0, len(infos))
	for _, info := range infos {
		colors = append(colors, protocol.ColorInformation{
			Range: helpers.SpanToRange(file.Index, info.Span),
			Color: protocol.Color{
				Red:   protocol.Decimal(info.Color.R),
				Green: protocol.Decimal(info.Color.G),
				Blue:  protocol.Decimal(info.Color.B),
				Alpha: protocol.Decimal(info.Color.A),
			},
		})
	}
	log.Debug("Found %d colors", len(colors))
	return colors, nil
}

// ColorPresentation handles the textDocument/colorPresentation request. The
// picked color is offered in hex, rgb, hsl and hwb notation; each replaces
// the original literal.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	c := csscolorparser.Color{
		R: float64(params.Color.Red),
		G: float64(params.Color.Green),
		B: float64(params.Color.Blue),
		A: float64(params.Color.Alpha),
	}

	var presentations []protocol.ColorPresentation
	for _, text := range color.Presentations(c) {
		presentations = append(presentations, protocol.ColorPresentation{
			Label: text,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: text,
			},
		})
	}
	return presentations, nil
}

package hover

import (
	"bytes"
	"text/template"

	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var quickInfoTemplate = template.Must(template.New("quickInfo").Parse("```ts\n{{.Header}}\n```" + `
{{if .Documentation}}
{{.Documentation}}
{{end}}`))

func renderQuickInfo(info *service.QuickInfo) (string, error) {
	var buf bytes.Buffer
	if err := quickInfoTemplate.Execute(&buf, info); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Hover handles the textDocument/hover request
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	info, err := file.Service.QuickInfo(file.Path, helpers.Offset(file.Index, params.Position))
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}
	if info == nil {
		return nil, nil
	}

	content, err := renderQuickInfo(info)
	if err != nil {
		return nil, err
	}
	r := helpers.SpanToRange(file.Index, info.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

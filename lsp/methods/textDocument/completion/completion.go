package completion

import (
	"bytes"
	"text/template"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Documentation of a completion entry.
var entryDocTemplate = template.Must(template.New("entryDoc").Parse(`{{if .Type}}` + "`{{.Type}}`" + `
{{end}}{{if .Description}}
{{.Description}}
{{end}}{{if .File}}
*Defined in: {{.File.Path}}*
{{end}}`))

func renderEntryDoc(e *service.CompletionEntry) (string, error) {
	var buf bytes.Buffer
	if err := entryDocTemplate.Execute(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var itemKinds = map[service.LookupKind]protocol.CompletionItemKind{
	service.LookupComponent:        protocol.CompletionItemKindClass,
	service.LookupProperty:         protocol.CompletionItemKindProperty,
	service.LookupComponentEvent:   protocol.CompletionItemKindEvent,
	service.LookupBinding:          protocol.CompletionItemKindFunction,
	service.LookupControlFlow:      protocol.CompletionItemKindKeyword,
	service.LookupDOMEvent:         protocol.CompletionItemKindEvent,
	service.LookupSimulatedEvent:   protocol.CompletionItemKindEvent,
	service.LookupModifier:         protocol.CompletionItemKindEnumMember,
	service.LookupStyleProperty:    protocol.CompletionItemKindProperty,
	service.LookupBooleanAttribute: protocol.CompletionItemKindProperty,
	service.LookupIcon:             protocol.CompletionItemKindFile,
	service.LookupSlot:             protocol.CompletionItemKindField,
	service.LookupValue:            protocol.CompletionItemKindValue,
	service.LookupMember:           protocol.CompletionItemKindField,
}

// Completion handles the textDocument/completion request
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	file, ok := helpers.ResolveFile(req.Server, uri)
	if !ok {
		return nil, nil
	}
	offset := helpers.Offset(file.Index, params.Position)
	entries, err := file.Service.Completions(file.Path, offset)
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(entries))
	for i := range entries {
		items = append(items, toItem(file, &entries[i]))
	}
	log.Debug("Returning %d completion items", len(items))

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func toItem(file *helpers.File, e *service.CompletionEntry) protocol.CompletionItem {
	kind := itemKinds[e.Kind]
	sortText := e.SortText
	item := protocol.CompletionItem{
		Label:    e.Label,
		Kind:     &kind,
		SortText: &sortText,
		TextEdit: protocol.TextEdit{
			Range:   helpers.SpanToRange(file.Index, e.ReplacementSpan),
			NewText: e.InsertText,
		},
	}
	if e.Type != "" {
		detail := e.Type
		item.Detail = &detail
	}
	if imp, ok := e.Import(); ok {
		item.Data = map[string]any{
			"uri":      uriutil.PathToURI(file.Path),
			"name":     imp.Name,
			"declFile": imp.DeclFile,
		}
	}
	if doc, err := renderEntryDoc(e); err == nil && doc != "" {
		item.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: doc,
		}
	}
	return item
}

// CompletionResolve adds the import an unimported component or binding needs
func CompletionResolve(req *types.RequestContext, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	data, ok := item.Data.(map[string]any)
	if !ok {
		return item, nil
	}
	uri, _ := data["uri"].(string)
	name, _ := data["name"].(string)
	declFile, _ := data["declFile"].(string)
	if uri == "" || name == "" || declFile == "" {
		return item, nil
	}

	file, ok := helpers.ResolveFile(req.Server, uri)
	if !ok {
		return item, nil
	}
	fix, err := file.Service.ResolveCompletion(file.Path, service.CompletionImport{Name: name, DeclFile: declFile})
	if err != nil {
		return item, helpers.IgnoreMiss(err)
	}
	if fix == nil {
		return item, nil
	}

	for _, fc := range fix.Changes {
		if fc.File != file.Path {
			continue
		}
		edits, ok := helpers.TextEdits(file.Workspace, fc.File, fc.Edits)
		if ok {
			item.AdditionalTextEdits = append(item.AdditionalTextEdits, edits...)
		}
	}
	detail := fix.Description
	item.Detail = &detail
	return item, nil
}

package helpers

import (
	"bennypowers.dev/lupls/internal/imports"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/internal/workspace"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TextEdits converts byte edits of the program file at path.
func TextEdits(ws *workspace.Workspace, path string, edits []imports.TextEdit) ([]protocol.TextEdit, bool) {
	f := ws.Context.Program.File(path)
	if f == nil {
		return nil, false
	}
	ix := f.Index()
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{
			Range:   protocol.Range{Start: Position(ix, e.Start), End: Position(ix, e.End)},
			NewText: e.NewText,
		})
	}
	return out, true
}

// WorkspaceEdit converts a code fix. Files that left the program are skipped.
func WorkspaceEdit(ws *workspace.Workspace, fix *service.CodeFix) *protocol.WorkspaceEdit {
	changes := make(map[protocol.DocumentUri][]protocol.TextEdit)
	for _, fc := range fix.Changes {
		edits, ok := TextEdits(ws, fc.File, fc.Edits)
		if !ok {
			continue
		}
		uri := uriutil.PathToURI(fc.File)
		changes[uri] = append(changes[uri], edits...)
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}

// Location converts a span of the program file at path.
func Location(ws *workspace.Workspace, path string, span ts.Span) (protocol.Location, bool) {
	f := ws.Context.Program.File(path)
	if f == nil {
		return protocol.Location{}, false
	}
	return protocol.Location{
		URI:   uriutil.PathToURI(path),
		Range: SpanToRange(f.Index(), span),
	}, true
}

package codeAction

import (
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CodeAction handles the textDocument/codeAction request. It offers an
// import for each component or binding reported missing in the range.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	file, ok := helpers.ResolveFile(req.Server, params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	start := helpers.Offset(file.Index, params.Range.Start)
	end := helpers.Offset(file.Index, params.Range.End)
	fixes, err := file.Service.CodeFixes(file.Path, start, end)
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}
	if len(fixes) == 0 {
		return nil, nil
	}

	kind := protocol.CodeActionKindQuickFix
	actions := make([]protocol.CodeAction, 0, len(fixes))
	for i := range fixes {
		action := protocol.CodeAction{
			Title:       fixes[i].Description,
			Kind:        &kind,
			Diagnostics: relatedDiagnostics(params.Context.Diagnostics, params.Range),
			Edit:        helpers.WorkspaceEdit(file.Workspace, &fixes[i]),
		}
		if len(fixes) == 1 {
			preferred := true
			action.IsPreferred = &preferred
		}
		actions = append(actions, action)
	}
	log.Debug("Returning %d code actions", len(actions))
	return actions, nil
}

// relatedDiagnostics picks the client's missing-import diagnostics that
// intersect r.
func relatedDiagnostics(diags []protocol.Diagnostic, r protocol.Range) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, d := range diags {
		if d.Code == nil || d.Code.Value != protocol.Integer(service.DiagnosticMissingImportOrDeclaration) {
			continue
		}
		if helpers.RangesIntersect(d.Range, r) || d.Range == r {
			out = append(out, d)
		}
	}
	return out
}

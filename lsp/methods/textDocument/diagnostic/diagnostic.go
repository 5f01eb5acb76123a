package diagnostic

import (
	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/lsp/helpers"
	"bennypowers.dev/lupls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source is reported on every diagnostic.
const Source = "lupos"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics)
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	diagnostics, err := GetDiagnostics(req.Server, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	return RelatedFullDocumentDiagnosticReport{
		Kind:  string(DiagnosticFull),
		Items: diagnostics,
	}, nil
}

// GetDiagnostics returns the template diagnostics of a document. Nothing is
// reported when diagnostics are disabled in the configuration.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	if !ctx.GetConfig().Diagnostics {
		return nil, nil
	}
	file, ok := helpers.ResolveFile(ctx, uri)
	if !ok {
		return nil, nil
	}
	diags, err := file.Service.Diagnostics(file.Path)
	if err != nil {
		return nil, helpers.IgnoreMiss(err)
	}

	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, ToProtocol(file, d))
	}
	return out, nil
}

// ToProtocol converts a service diagnostic of file.
func ToProtocol(file *helpers.File, d service.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverity(d.Severity)
	source := Source
	return protocol.Diagnostic{
		Range:    helpers.SpanToRange(file.Index, d.Span),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: protocol.Integer(d.Code)},
		Source:   &source,
		Message:  d.Message,
	}
}

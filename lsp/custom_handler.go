package lsp

import (
	"encoding/json"

	"bennypowers.dev/lupls/lsp/methods/textDocument/diagnostic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler to add the LSP 3.17 methods glsp
// v0.2.2 does not route.
type CustomHandler struct {
	*protocol.Handler // pointer: the handler embeds a mutex
	server            *Server
}

// Handle implements glsp.Handler
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "initialize":
		// The 3.16 InitializeParams drop the diagnostic capability, so it is
		// read from the raw params before the regular handler runs.
		h.server.SetUsePullDiagnostics(DetectPullDiagnosticsSupport(context.Params))

	case "textDocument/diagnostic":
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		result, err := method(h.server, context.Method, diagnostic.DocumentDiagnostic)(context, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil
	}

	return h.Handler.Handle(context)
}

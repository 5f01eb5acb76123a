package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether raw initialize params declare
// the textDocument.diagnostic capability. Presence alone counts, even when
// the value is empty. Unparseable params fall back to push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}
	if initParams.Capabilities.TextDocument == nil {
		return false
	}
	return initParams.Capabilities.TextDocument.Diagnostic != nil
}

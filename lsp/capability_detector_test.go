package lsp_test

import (
	"encoding/json"
	"testing"

	"bennypowers.dev/lupls/lsp"
	"github.com/stretchr/testify/assert"
)

func TestDetectPullDiagnosticsSupport(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   bool
	}{
		{"diagnostic capability", `{"capabilities": {"textDocument": {"diagnostic": {"dynamicRegistration": false}}}}`, true},
		{"empty diagnostic capability", `{"capabilities": {"textDocument": {"diagnostic": {}}}}`, true},
		{"no diagnostic capability", `{"capabilities": {"textDocument": {"hover": {}}}}`, false},
		{"no text document capabilities", `{"capabilities": {}}`, false},
		{"invalid json", `{"capabilities": `, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lsp.DetectPullDiagnosticsSupport(json.RawMessage(tt.params)))
		})
	}
}

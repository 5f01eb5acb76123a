package diagnostic

import (
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const app = "import {html, css} from '@pucelle/lupos.js'\n" +
	"export const view = html`<Foo></Foo><div :style.width.pt=${1}></div>`\n" +
	"export const style = css`.a { color: red; ;; }`\n"

func setup(t *testing.T) *testutil.MockServerContext {
	t.Helper()
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/app.ts": app,
	})
	require.NoError(t, err)
	return testutil.NewMockWithWorkspace(ws)
}

func codes(diags []protocol.Diagnostic) []any {
	var out []any
	for _, d := range diags {
		out = append(out, d.Code.Value)
	}
	return out
}

func TestGetDiagnostics(t *testing.T) {
	ctx := setup(t)
	diags, err := GetDiagnostics(ctx, testutil.URI("src/app.ts"))
	require.NoError(t, err)

	assert.Contains(t, codes(diags), protocol.Integer(-21001))
	assert.Contains(t, codes(diags), protocol.Integer(-21002))

	for _, d := range diags {
		require.NotNil(t, d.Source)
		assert.Equal(t, Source, *d.Source)
		if d.Code.Value == protocol.Integer(-21001) {
			assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
			assert.Equal(t, `Can't find definition for "Foo"`, d.Message)
			assert.Equal(t, protocol.Position{Line: 1, Character: 26}, d.Range.Start)
			assert.Equal(t, protocol.Position{Line: 1, Character: 29}, d.Range.End)
		}
	}
}

func TestGetDiagnosticsDisabled(t *testing.T) {
	ctx := setup(t)
	cfg := ctx.GetConfig()
	cfg.Diagnostics = false
	ctx.SetConfig(cfg)

	diags, err := GetDiagnostics(ctx, testutil.URI("src/app.ts"))
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestGetDiagnosticsUnknownFile(t *testing.T) {
	diags, err := GetDiagnostics(setup(t), testutil.URI("src/missing.ts"))
	require.NoError(t, err)
	assert.Nil(t, diags)
}

func TestDocumentDiagnostic(t *testing.T) {
	req := types.NewRequestContext(setup(t), &glsp.Context{})
	result, err := DocumentDiagnostic(req, &DocumentDiagnosticParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testutil.URI("src/app.ts")},
	})
	require.NoError(t, err)
	report, ok := result.(RelatedFullDocumentDiagnosticReport)
	require.True(t, ok)
	assert.Equal(t, "full", report.Kind)
	assert.NotEmpty(t, report.Items)
}

package hover

import (
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const app = "import {html} from '@pucelle/lupos.js'\nimport {Foo} from './foo'\nexport const view = html`<Foo .size=\"small\" @@open=${() => {}}></Foo>`\n"

func hover(t *testing.T, char uint32) *protocol.Hover {
	t.Helper()
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/foo.ts": testutil.FooSource,
		testutil.Root + "/src/app.ts": app,
	})
	require.NoError(t, err)
	req := types.NewRequestContext(testutil.NewMockWithWorkspace(ws), &glsp.Context{})
	result, err := Hover(req, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testutil.URI("src/app.ts")},
			Position:     protocol.Position{Line: 2, Character: char},
		},
	})
	require.NoError(t, err)
	return result
}

func TestHover(t *testing.T) {
	t.Run("component", func(t *testing.T) {
		// on "Foo"
		h := hover(t, 27)
		require.NotNil(t, h)
		content := h.Contents.(protocol.MarkupContent)
		assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
		assert.Contains(t, content.Value, "<Foo>")
		assert.Contains(t, content.Value, "Foo component.")
		require.NotNil(t, h.Range)
		assert.Equal(t, uint32(26), h.Range.Start.Character)
		assert.Equal(t, uint32(29), h.Range.End.Character)
	})

	t.Run("property", func(t *testing.T) {
		// on "size"
		h := hover(t, 32)
		require.NotNil(t, h)
		content := h.Contents.(protocol.MarkupContent)
		assert.Contains(t, content.Value, ".size")
		assert.Contains(t, content.Value, "Size of the foo.")
	})

	t.Run("component event", func(t *testing.T) {
		// on "open"
		h := hover(t, 47)
		require.NotNil(t, h)
		content := h.Contents.(protocol.MarkupContent)
		assert.Contains(t, content.Value, "Fires when opened.")
	})

	t.Run("outside template", func(t *testing.T) {
		assert.Nil(t, hover(t, 3))
	})
}

package definition

import (
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const app = "import {html} from '@pucelle/lupos.js'\nimport {Foo} from './foo'\nexport const view = html`<Foo .size=\"small\"></Foo><lu:if ${true}></lu:if>`\n"

func definition(t *testing.T, char uint32) any {
	t.Helper()
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/foo.ts": testutil.FooSource,
		testutil.Root + "/src/app.ts": app,
	})
	require.NoError(t, err)
	req := types.NewRequestContext(testutil.NewMockWithWorkspace(ws), &glsp.Context{})
	result, err := Definition(req, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testutil.URI("src/app.ts")},
			Position:     protocol.Position{Line: 2, Character: char},
		},
	})
	require.NoError(t, err)
	return result
}

func TestDefinition(t *testing.T) {
	t.Run("component", func(t *testing.T) {
		result := definition(t, 27)
		require.IsType(t, []protocol.Location{}, result)
		locations := result.([]protocol.Location)
		require.Len(t, locations, 1)
		assert.Equal(t, testutil.URI("src/foo.ts"), locations[0].URI)
		// export class Foo
		assert.Equal(t, protocol.Position{Line: 6, Character: 13}, locations[0].Range.Start)
		assert.Equal(t, protocol.Position{Line: 6, Character: 16}, locations[0].Range.End)
	})

	t.Run("property", func(t *testing.T) {
		result := definition(t, 32)
		require.IsType(t, []protocol.Location{}, result)
		locations := result.([]protocol.Location)
		require.Len(t, locations, 1)
		assert.Equal(t, uint32(8), locations[0].Range.Start.Line)
	})

	t.Run("control flow tag has no declaration", func(t *testing.T) {
		// on "lu:if"
		assert.Nil(t, definition(t, 51))
	})
}

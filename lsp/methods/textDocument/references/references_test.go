package references

import (
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	app   = "import {html} from '@pucelle/lupos.js'\nimport {Foo} from './foo'\nexport const view = html`<Foo></Foo>`\n"
	other = "import {html} from '@pucelle/lupos.js'\nimport {Foo as Bar} from './foo'\nexport const other = html`<div><Bar /></div>`\n"
)

func references(t *testing.T, includeDecl bool) []protocol.Location {
	t.Helper()
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/foo.ts":   testutil.FooSource,
		testutil.Root + "/src/app.ts":   app,
		testutil.Root + "/src/other.ts": other,
	})
	require.NoError(t, err)
	req := types.NewRequestContext(testutil.NewMockWithWorkspace(ws), &glsp.Context{})
	locations, err := References(req, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testutil.URI("src/app.ts")},
			Position:     protocol.Position{Line: 2, Character: 27},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: includeDecl},
	})
	require.NoError(t, err)
	return locations
}

func uris(locations []protocol.Location) []string {
	var out []string
	for _, l := range locations {
		out = append(out, l.URI)
	}
	return out
}

func TestReferences(t *testing.T) {
	t.Run("tags across files", func(t *testing.T) {
		locations := references(t, false)
		assert.ElementsMatch(t, []string{testutil.URI("src/app.ts"), testutil.URI("src/other.ts")}, uris(locations))
	})

	t.Run("with declaration", func(t *testing.T) {
		locations := references(t, true)
		require.NotEmpty(t, locations)
		assert.Equal(t, testutil.URI("src/foo.ts"), locations[0].URI)
		assert.Len(t, locations, 3)
	})
}

package semanticTokens

import (
	"testing"

	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const app = "import {html} from '@pucelle/lupos.js'\n" +
	"import {Foo} from './foo'\n" +
	"export const view = html`<Foo .size=\"small\"\n" +
	"  :class=\"a\" @click=${fn}></Foo>`\n" +
	"declare const fn: () => void\n"

func tokens(t *testing.T, uri string) []protocol.UInteger {
	t.Helper()
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/foo.ts": testutil.FooSource,
		testutil.Root + "/src/app.ts": app,
	})
	require.NoError(t, err)
	req := types.NewRequestContext(testutil.NewMockWithWorkspace(ws), &glsp.Context{})
	result, err := SemanticTokensFull(req, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result.Data
}

func TestSemanticTokensFull(t *testing.T) {
	data := tokens(t, testutil.URI("src/app.ts"))
	assert.Equal(t, []protocol.UInteger{
		// Foo at 2:26
		2, 26, 3, 0, 0,
		// size at 2:31
		0, 5, 4, 2, 0,
		// class at 3:3
		1, 3, 5, 1, 0,
		// click at 3:14
		0, 11, 5, 3, 0,
	}, data)
}

func TestSemanticTokensUnknownFile(t *testing.T) {
	assert.Empty(t, tokens(t, testutil.URI("src/missing.ts")))
}

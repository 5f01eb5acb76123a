package lifecycle

import (
	"errors"
	"testing"

	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func initialize(t *testing.T, ctx *testutil.MockServerContext, params *protocol.InitializeParams) InitializeResult {
	t.Helper()
	result, err := Initialize(types.NewRequestContext(ctx, &glsp.Context{}), params)
	require.NoError(t, err)
	require.IsType(t, InitializeResult{}, result)
	return result.(InitializeResult)
}

func TestInitialize(t *testing.T) {
	t.Run("sets root from params.RootURI", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		rootURI := "file:///workspace"
		initialize(t, ctx, &protocol.InitializeParams{RootURI: &rootURI})
		assert.Equal(t, "file:///workspace", ctx.RootURI())
		assert.Equal(t, "/workspace", ctx.RootPath())
	})

	t.Run("sets root from params.RootPath", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		rootPath := "/workspace"
		initialize(t, ctx, &protocol.InitializeParams{RootPath: &rootPath})
		assert.Equal(t, "/workspace", ctx.RootPath())
		assert.Equal(t, "file:///workspace", ctx.RootURI())
	})

	t.Run("stores initialization options", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		opts := map[string]any{"diagnostics": false}
		initialize(t, ctx, &protocol.InitializeParams{InitializationOptions: opts})
		assert.Equal(t, opts, ctx.ClientSettings())
	})

	t.Run("capabilities", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		result := initialize(t, ctx, &protocol.InitializeParams{})
		require.NotNil(t, result.ServerInfo)
		assert.Equal(t, ServerName, result.ServerInfo.Name)

		caps := result.Capabilities
		for _, key := range []string{
			"textDocumentSync",
			"hoverProvider",
			"completionProvider",
			"definitionProvider",
			"referencesProvider",
			"codeActionProvider",
			"colorProvider",
			"semanticTokensProvider",
		} {
			assert.Contains(t, caps, key)
		}
		assert.NotContains(t, caps, "diagnosticProvider")

		legend := caps["semanticTokensProvider"].(map[string]any)["legend"].(map[string]any)
		assert.Equal(t, service.TokenTypes, legend["tokenTypes"])
	})

	t.Run("advertises pull diagnostics when the client supports them", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetUsePullDiagnostics(true)
		result := initialize(t, ctx, &protocol.InitializeParams{})
		assert.Contains(t, result.Capabilities, "diagnosticProvider")
	})
}

func TestInitialized(t *testing.T) {
	t.Run("loads the workspace and registers watchers", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		glspCtx := &glsp.Context{}
		req := types.NewRequestContext(ctx, glspCtx)

		require.NoError(t, Initialized(req, &protocol.InitializedParams{}))
		assert.True(t, ctx.LoadWorkspaceCalled)
		assert.True(t, ctx.RegisterWatchersCalled)
		assert.Same(t, glspCtx, ctx.GLSPContext())
		assert.False(t, req.HasWarnings())
	})

	t.Run("load failures become warnings", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.LoadWorkspaceFunc = func() error { return errors.New("no root") }
		req := types.NewRequestContext(ctx, &glsp.Context{})

		require.NoError(t, Initialized(req, &protocol.InitializedParams{}))
		assert.True(t, req.HasWarnings())
		assert.True(t, ctx.RegisterWatchersCalled)
	})
}

func TestShutdown(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), &glsp.Context{})
	assert.NoError(t, Shutdown(req))
}

func TestSetTrace(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), &glsp.Context{})
	assert.NoError(t, SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueOff}))
}

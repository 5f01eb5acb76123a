package lsp

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/lsp/testutil"
	"bennypowers.dev/lupls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.LevelInfo)
	})
	return &buf
}

func TestMethod_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext, params string) (string, error) {
		panic("test panic")
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", panicHandler)

	// A nil context never reaches the client
	result, err := wrapped(nil, "test params")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, err.Error(), "testMethod")
	assert.Empty(t, result)
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestMethod_ErrorWrapping(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	errHandler := func(req *types.RequestContext, params string) (string, error) {
		return "", errors.New("handler error")
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", errHandler)

	result, err := wrapped(nil, "params")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "testMethod")
	assert.Contains(t, err.Error(), "handler error")
	assert.Empty(t, result)
	assert.Contains(t, logBuf.String(), "ERROR")
}

func TestMethod_SuccessLogging(t *testing.T) {
	logBuf := captureLog(t, log.LevelDebug)

	successHandler := func(req *types.RequestContext, params string) (string, error) {
		return "success result", nil
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", successHandler)

	result, err := wrapped(nil, "params")

	require.NoError(t, err)
	assert.Equal(t, "success result", result)
	assert.Contains(t, logBuf.String(), "started")
	assert.Contains(t, logBuf.String(), "completed")
}

func TestMethod_LogsWarnings(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	handler := func(req *types.RequestContext, params string) (string, error) {
		req.AddWarning(errors.New("config is odd"))
		return "ok", nil
	}
	wrapped := method(testutil.NewMockServerContext(), "testMethod", handler)

	result, err := wrapped(nil, "params")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Contains(t, logBuf.String(), "testMethod: config is odd")
}

func TestMethod_SeesEarlierEdits(t *testing.T) {
	ws, err := testutil.NewWorkspace(map[string]string{
		testutil.Root + "/src/foo.ts": testutil.FooSource,
	})
	require.NoError(t, err)
	server := testutil.NewMockWithWorkspace(ws)
	appPath := testutil.Root + "/src/app.ts"

	// Adding a file inside a request must be visible to the next one.
	add := method(server, "add", func(req *types.RequestContext, text string) (bool, error) {
		return true, req.Server.Workspace().SetFile(appPath, text)
	})
	check := method(server, "check", func(req *types.RequestContext, path string) (int, error) {
		diags, err := req.Server.Workspace().Service.Diagnostics(path)
		return len(diags), err
	})

	_, err = add(nil, "import {html} from '@pucelle/lupos.js'\nexport const v = html`<Bar></Bar>`\n")
	require.NoError(t, err)
	n, err := check(nil, appPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNotify_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext, params int) error {
		panic("notify panic")
	}
	wrapped := notify(testutil.NewMockServerContext(), "testNotify", panicHandler)

	err := wrapped(nil, 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestNoParam_PanicRecovery(t *testing.T) {
	logBuf := captureLog(t, log.LevelInfo)

	panicHandler := func(req *types.RequestContext) error {
		panic("noParam panic")
	}
	wrapped := noParam(testutil.NewMockServerContext(), "shutdown", panicHandler)

	err := wrapped(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, logBuf.String(), "PANIC")
}

func TestNoParam_Success(t *testing.T) {
	called := false
	wrapped := noParam(testutil.NewMockServerContext(), "shutdown", func(req *types.RequestContext) error {
		called = true
		return nil
	})

	require.NoError(t, wrapped(nil))
	assert.True(t, called)
}

package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/service"
)

// A component tag is completed only when some file declares it; otherwise
// the tag is reported, and once declared an import fixes it.
func TestUndeclaredComponentTag(t *testing.T) {
	typing, at := cursor(t, app("<Fo|"))

	t.Run("no declaration anywhere", func(t *testing.T) {
		svc := newService(t, map[string]string{appPath: typing})
		entries, err := svc.Completions(appPath, at)
		require.NoError(t, err)
		assert.NotContains(t, labels(entries), "Foo")

		src := app("<Foo></Foo>")
		svc = newService(t, map[string]string{appPath: src})
		diags, err := svc.Diagnostics(appPath)
		require.NoError(t, err)
		require.Len(t, diags, 1)
		d := diags[0]
		assert.Equal(t, service.DiagnosticMissingImportOrDeclaration, d.Code)
		assert.Equal(t, service.SeverityError, d.Severity)
		assert.Equal(t, `Can't find definition for "Foo"`, d.Message)
		start := strings.Index(src, "<Foo") + 1
		assert.Equal(t, start, d.Span.Start)
		assert.Equal(t, start+len("Foo"), d.Span.End)

		fixes, err := svc.CodeFixes(appPath, d.Span.Start, d.Span.End)
		require.NoError(t, err)
		assert.Empty(t, fixes)
	})

	t.Run("declared in another file", func(t *testing.T) {
		svc := newService(t, map[string]string{
			appPath:            typing,
			"/proj/src/foo.ts": fooSource,
		})
		entries, err := svc.Completions(appPath, at)
		require.NoError(t, err)
		foo := entry(t, entries, "Foo")
		assert.Equal(t, service.LookupComponent, foo.Kind)
		assert.True(t, foo.Unimported)
		assert.Equal(t, "Foo component.", foo.Description)
		imp, ok := foo.Import()
		require.True(t, ok)
		assert.Equal(t, "/proj/src/foo.ts", imp.DeclFile)

		fix, err := svc.ResolveCompletion(appPath, imp)
		require.NoError(t, err)
		require.NotNil(t, fix)
		assert.Equal(t, "Import `Foo` from \"./foo\"", fix.Description)
	})

	t.Run("code fix inserts the import", func(t *testing.T) {
		src := app("<Foo></Foo>")
		svc := newService(t, map[string]string{
			appPath:            src,
			"/proj/src/foo.ts": fooSource,
		})
		diags, err := svc.Diagnostics(appPath)
		require.NoError(t, err)
		require.Len(t, diags, 1)

		fixes, err := svc.CodeFixes(appPath, diags[0].Span.Start, diags[0].Span.End)
		require.NoError(t, err)
		require.Len(t, fixes, 1)
		fix := fixes[0]
		assert.Equal(t, "Import `Foo` from \"./foo\"", fix.Description)
		require.Len(t, fix.Changes, 1)
		assert.Equal(t, appPath, fix.Changes[0].File)
		require.Len(t, fix.Changes[0].Edits, 1)
		fixed := apply(src, fix.Changes[0].Edits[0])
		assert.Contains(t, fixed, "import {Foo} from './foo'\n")
		assert.Equal(t, 1, strings.Count(fixed, "import {Foo}"))
	})

	t.Run("imported tag is clean", func(t *testing.T) {
		svc := newService(t, map[string]string{
			appPath:            "import {Foo} from './foo'\n" + app("<Foo></Foo>"),
			"/proj/src/foo.ts": fooSource,
		})
		diags, err := svc.Diagnostics(appPath)
		require.NoError(t, err)
		assert.Empty(t, diags)
	})
}

func TestMissingBindingImport(t *testing.T) {
	src := app(`<div :tooltip="hi" :class="a"></div>`)
	svc := newService(t, map[string]string{
		appPath:                src,
		"/proj/src/tooltip.ts": tooltipSource,
	})
	diags, err := svc.Diagnostics(appPath)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, `Can't find definition for "tooltip"`, diags[0].Message)
	start := strings.Index(src, ":tooltip") + 1
	assert.Equal(t, start, diags[0].Span.Start)

	fixes, err := svc.CodeFixes(appPath, diags[0].Span.Start, diags[0].Span.End)
	require.NoError(t, err)
	require.Len(t, fixes, 1)
	assert.Equal(t, "Import `tooltip` from \"./tooltip\"", fixes[0].Description)
}

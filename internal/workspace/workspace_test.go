package workspace_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/service"
	"bennypowers.dev/lupls/internal/workspace"
)

const luposDir = "/proj/node_modules/@pucelle/lupos.js"

var luposFiles = map[string]string{
	luposDir + "/package.json":      `{"name": "@pucelle/lupos.js", "types": "out/index.d.ts"}`,
	luposDir + "/out/index.d.ts":    "export * from './component'\nexport * from './template'\n",
	luposDir + "/out/template.d.ts": "export declare function html(strings: TemplateStringsArray, ...values: any[]): any\n",
	luposDir + "/out/component.d.ts": `export interface ComponentEvents {
	connected: () => void
}
export declare class Component<E = any> {
}
`,
}

const fooSource = `import {Component} from '@pucelle/lupos.js'
export class Foo extends Component {
}
`

const appSource = "import {html} from '@pucelle/lupos.js'\nexport const view = html`<Foo />`\n"

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, set := range []map[string]string{luposFiles, files} {
		for path, content := range set {
			require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
		}
	}
	return fs
}

func TestMatches(t *testing.T) {
	w, err := workspace.New(afero.NewMemMapFs(), "/proj", workspace.DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/proj/src/app.ts", true},
		{"/proj/app.js", true},
		{"/proj/src/types.d.ts", false},
		{"/proj/node_modules/x/index.ts", false},
		{"/proj/src/style.css", false},
		{"/other/app.ts", false},
		{"/proj", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Matches(tt.path))
		})
	}
}

func TestNewWithoutRoot(t *testing.T) {
	_, err := workspace.New(afero.NewMemMapFs(), "", workspace.DefaultConfig())
	assert.ErrorIs(t, err, workspace.ErrNoRoot)
}

func TestOpen(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/src/foo.ts":     fooSource,
		"/proj/src/app.ts":     appSource,
		"/proj/src/notes.md":   "# notes",
		"/proj/.cache/skip.ts": "export const x = 1\n",
	})
	w, err := workspace.Open(fs, "/proj")
	require.NoError(t, err)

	prog := w.Context.Program
	assert.NotNil(t, prog.File("/proj/src/foo.ts"))
	assert.NotNil(t, prog.File("/proj/src/app.ts"))
	assert.Nil(t, prog.File("/proj/src/notes.md"))
	assert.Nil(t, prog.File("/proj/.cache/skip.ts"))
}

func TestOpenAppliesConfig(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/package.json": `{"luposLanguageServer": {"templateTags": ["tpl"], "exclude": ["gen/**"]}}`,
		"/proj/gen/out.ts":   "export const x = 1\n",
		"/proj/src/app.ts":   appSource,
	})
	w, err := workspace.Open(fs, "/proj")
	require.NoError(t, err)
	assert.Equal(t, []string{"tpl"}, w.Context.TemplateTags)
	assert.Nil(t, w.Context.Program.File("/proj/gen/out.ts"))
	assert.NotNil(t, w.Context.Program.File("/proj/src/app.ts"))
}

func TestCheck(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/src/foo.ts": fooSource,
		"/proj/src/app.ts": appSource,
	})
	w, err := workspace.Open(fs, "/proj")
	require.NoError(t, err)

	results, err := w.Check()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/proj/src/app.ts", results[0].Path)
	require.Len(t, results[0].Diagnostics, 1)
	assert.Equal(t, service.DiagnosticMissingImportOrDeclaration, results[0].Diagnostics[0].Code)
}

func TestDocumentLifecycle(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/src/foo.ts": fooSource,
		"/proj/src/app.ts": appSource,
	})
	w, err := workspace.Open(fs, "/proj")
	require.NoError(t, err)

	fixed := "import {html} from '@pucelle/lupos.js'\nimport {Foo} from './foo'\nexport const view = html`<Foo />`\n"
	require.NoError(t, w.SetFile("/proj/src/app.ts", fixed))
	assert.True(t, w.IsOpen("/proj/src/app.ts"))

	diags, err := w.Service.Diagnostics("/proj/src/app.ts")
	require.NoError(t, err)
	assert.Empty(t, diags)

	// Disk changes do not replace an open document.
	require.NoError(t, w.Reload("/proj/src/app.ts"))
	assert.Equal(t, fixed, w.Context.Program.File("/proj/src/app.ts").Text)

	require.NoError(t, w.Close("/proj/src/app.ts"))
	assert.False(t, w.IsOpen("/proj/src/app.ts"))
	assert.Equal(t, appSource, w.Context.Program.File("/proj/src/app.ts").Text)
}

func TestReloadAndRemove(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/src/app.ts": appSource,
	})
	w, err := workspace.Open(fs, "/proj")
	require.NoError(t, err)

	diags, err := w.Service.Diagnostics("/proj/src/app.ts")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Can't find definition")

	t.Run("created file becomes importable", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/proj/src/foo.ts", []byte(fooSource), 0o644))
		require.NoError(t, w.Reload("/proj/src/foo.ts"))
		require.NotNil(t, w.Context.Program.File("/proj/src/foo.ts"))

		fixes, err := w.Service.CodeFixes("/proj/src/app.ts", 0, len(appSource))
		require.NoError(t, err)
		require.Len(t, fixes, 1)
		assert.Equal(t, "Import `Foo` from \"./foo\"", fixes[0].Description)
	})

	t.Run("deleted file is removed", func(t *testing.T) {
		require.NoError(t, fs.Remove("/proj/src/foo.ts"))
		require.NoError(t, w.Reload("/proj/src/foo.ts"))
		assert.Nil(t, w.Context.Program.File("/proj/src/foo.ts"))

		fixes, err := w.Service.CodeFixes("/proj/src/app.ts", 0, len(appSource))
		require.NoError(t, err)
		assert.Empty(t, fixes)
	})
}

package program_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/program"
)

var fixture = map[string]string{
	"/proj/node_modules/@pucelle/lupos.js/package.json": `{
		// comments are allowed
		"name": "@pucelle/lupos.js",
		"types": "out/index.d.ts",
	}`,
	"/proj/node_modules/@pucelle/lupos.js/out/index.d.ts":     "export * from './component'\n",
	"/proj/node_modules/@pucelle/lupos.js/out/component.d.ts": "export declare class Component<E = any> {\n}\nexport interface Binding {\n}\n",
	"/proj/src/base.ts": `import {Component} from '@pucelle/lupos.js'
export type Size = 'small' | 'large'
export interface BaseEvents {
	open: () => void
}
export class Base<E = {}> extends Component<BaseEvents & E> {}
`,
	"/proj/src/button.ts": `import {Base, Size} from './base'
import type {Binding} from '@pucelle/lupos.js'
interface ButtonEvents {
	click: (e: MouseEvent) => void
}
export class Button extends Base<ButtonEvents> {
	size: Size | 'medium' = 'small'
}
class Plain {}
export class Tooltip implements Binding {}
`,
	"/proj/src/index.ts": "export {Button as Btn} from './button.js'\nexport * from './base'\n",
}

func newContext(t *testing.T) *program.ProjectContext {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range fixture {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return program.NewProjectContext("/proj", fs)
}

func load(t *testing.T, ctx *program.ProjectContext, path string) *program.SourceFile {
	t.Helper()
	f, err := ctx.Program.LoadFile(path)
	require.NoError(t, err)
	return f
}

func TestSetFileVersions(t *testing.T) {
	prog := program.New(afero.NewMemMapFs())

	a1, err := prog.SetFile("/a.ts", "let a = 1")
	require.NoError(t, err)
	b1, err := prog.SetFile("/b.ts", "let b = 1")
	require.NoError(t, err)
	assert.Less(t, a1.Version, b1.Version)

	same, err := prog.SetFile("/a.ts", "let a = 1")
	require.NoError(t, err)
	assert.Same(t, a1, same, "unchanged text keeps the snapshot")

	a2, err := prog.SetFile("/a.ts", "let a = 2")
	require.NoError(t, err)
	assert.Greater(t, a2.Version, b1.Version)
	assert.Same(t, a2, prog.File("/a.ts"))

	assert.True(t, prog.RemoveFile("/b.ts"))
	assert.False(t, prog.RemoveFile("/b.ts"))
	require.Len(t, prog.SourceFiles(), 1)
}

func TestModuleResolution(t *testing.T) {
	ctx := newContext(t)
	mods := ctx.Resolver.Modules

	tests := []struct {
		from, spec, want string
	}{
		{"/proj/src/button.ts", "./base", "/proj/src/base.ts"},
		{"/proj/src/index.ts", "./button.js", "/proj/src/button.ts"},
		{"/proj/src/button.ts", "@pucelle/lupos.js", "/proj/node_modules/@pucelle/lupos.js/out/index.d.ts"},
		{"/proj/src/button.ts", "@pucelle/lupos.js/out/component", "/proj/node_modules/@pucelle/lupos.js/out/component.d.ts"},
	}
	for _, tt := range tests {
		got, ok := mods.Resolve(tt.from, tt.spec)
		assert.True(t, ok, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}

	_, ok := mods.Resolve("/proj/src/button.ts", "./missing")
	assert.False(t, ok)
	_, ok = mods.Resolve("/proj/src/button.ts", "not-installed")
	assert.False(t, ok)
}

func TestResolveExportFollowsReexports(t *testing.T) {
	ctx := newContext(t)
	index := load(t, ctx, "/proj/src/index.ts")

	d, ok := ctx.Resolver.ResolveExport(index, "Btn")
	require.True(t, ok)
	assert.Equal(t, program.DeclClass, d.Kind)
	assert.Equal(t, "Button", d.Name)
	assert.Equal(t, "/proj/src/button.ts", d.File.Path)

	d, ok = ctx.Resolver.ResolveExport(index, "Base")
	require.True(t, ok, "star re-export")
	assert.Equal(t, "/proj/src/base.ts", d.File.Path)

	_, ok = ctx.Resolver.ResolveExport(index, "Plain")
	assert.False(t, ok)
}

func TestDerivesFrom(t *testing.T) {
	ctx := newContext(t)
	button := load(t, ctx, "/proj/src/button.ts")
	r := ctx.Resolver

	assert.True(t, r.DerivesFrom(button, button.Class("Button"), program.LuposModule, "Component"))
	assert.False(t, r.DerivesFrom(button, button.Class("Plain"), program.LuposModule, "Component"))
	assert.True(t, r.DerivesFrom(button, button.Class("Tooltip"), program.LuposModule, "Binding"))
	assert.False(t, r.DerivesFrom(button, button.Class("Tooltip"), program.LuposModule, "Component"))

	chain := r.Ancestors(button, button.Class("Button"))
	var names []string
	for _, ref := range chain {
		names = append(names, ref.Class.Name)
	}
	assert.Equal(t, []string{"Button", "Base", "Component"}, names)
}

func TestPropertiesAndLiterals(t *testing.T) {
	ctx := newContext(t)
	base := load(t, ctx, "/proj/src/base.ts")
	button := load(t, ctx, "/proj/src/button.ts")
	r := ctx.Resolver

	props := r.Properties(button, "ButtonEvents & BaseEvents")
	var names []string
	for _, p := range props {
		names = append(names, p.Owner+"."+p.Name)
	}
	assert.Equal(t, []string{"ButtonEvents.click"}, names, "BaseEvents is not visible from button.ts")

	props = r.Properties(base, "BaseEvents")
	require.Len(t, props, 1)
	assert.Equal(t, "open", props[0].Name)

	assert.Equal(t, []string{"small", "large", "medium"}, r.StringLiterals(button, "Size | 'medium'"))
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"A<B | C>", "'x|y'", "(a: number) => void"},
		program.SplitTopLevel("A<B | C> | 'x|y' | (a: number) => void", '|'))
}

func TestScopeLookup(t *testing.T) {
	prog := program.New(afero.NewMemMapFs())
	f, err := prog.SetFile("/s.ts", `import {Popup as P} from './popup'
class Outer {}
function render() {
	class Inner {}
	return html`+"`<Inner />`"+`
}
`)
	require.NoError(t, err)
	scope := program.NewScope(f)

	sym, ok := scope.Lookup("P", 0)
	require.True(t, ok)
	assert.Equal(t, program.SymbolImport, sym.Kind)
	assert.Equal(t, "Popup", sym.Binding.ImportedName)

	_, ok = scope.Lookup("Inner", 0)
	assert.False(t, ok, "nested class is not visible before its block")
	sym, ok = scope.Lookup("Inner", len(f.Text)-5)
	require.True(t, ok)
	assert.Equal(t, program.SymbolClass, sym.Kind)

	assert.True(t, scope.Has("Outer"))
	assert.False(t, scope.Has("Missing"))
}

func TestTemplateAtPrefersInnermost(t *testing.T) {
	prog := program.New(afero.NewMemMapFs())
	src := "const v = html`<ul>${xs.map(x => html`<li>${x}</li>`)}</ul>`\n"
	f, err := prog.SetFile("/t.ts", src)
	require.NoError(t, err)
	require.Len(t, f.Templates, 2)
	tags := []string{"html"}

	inner := f.TemplateAt(strings.Index(src, "<li>")+1, tags)
	require.NotNil(t, inner)
	assert.Equal(t, "<li>${x}</li>", src[inner.ContentSpan().Start:inner.ContentSpan().End])

	outer := f.TemplateAt(strings.Index(src, "</ul>")+1, tags)
	require.NotNil(t, outer)
	assert.Equal(t, 0, strings.Index(src[outer.ContentSpan().Start:], "<ul>"))

	assert.Nil(t, f.TemplateAt(strings.Index(src, "<li>")+1, []string{"css"}))
}

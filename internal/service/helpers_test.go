package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/imports"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/service"
)

const luposDir = "/proj/node_modules/@pucelle/lupos.js"

var luposFiles = map[string]string{
	luposDir + "/package.json":   `{"name": "@pucelle/lupos.js", "types": "out/index.d.ts"}`,
	luposDir + "/out/index.d.ts": "export * from './component'\nexport * from './binding'\nexport * from './template'\n",
	luposDir + "/out/template.d.ts": `export declare function html(strings: TemplateStringsArray, ...values: any[]): any
export declare function css(strings: TemplateStringsArray, ...values: any[]): any
`,
	luposDir + "/out/component.d.ts": `export interface ComponentEvents {
	connected: () => void
}
export declare class EventFirer<E> {
}
export declare class Component<E = any> extends EventFirer<E & ComponentEvents> {
}
`,
	luposDir + "/out/binding.d.ts": `export interface Binding {
	update(value: any): void
}
/** Toggles class names. */
export declare class ClassBinding implements Binding {
	update(value: any): void
}
`,
}

const fooSource = `import {Component} from '@pucelle/lupos.js'
interface FooEvents {
	/** Fires when opened. */
	open: () => void
}
/** Foo component. */
export class Foo extends Component<FooEvents> {
	/** Size of the foo. */
	size: 'small' | 'large' = 'small'
	slotElements: {
		icon: HTMLElement | null
	} = {icon: null}
}
`

const tooltipSource = `import {Binding} from '@pucelle/lupos.js'
/** Shows a tip. */
export class tooltip implements Binding {
	update(value: any) {}
}
`

const appPath = "/proj/src/app.ts"

// newService builds a project from files plus the lupos package, the way the
// workspace loader does.
func newService(t *testing.T, files map[string]string) *service.Service {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range luposFiles {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	ctx := program.NewProjectContext("/proj", fs)
	for path, content := range files {
		_, err := ctx.Program.SetFile(path, content)
		require.NoError(t, err)
	}
	return service.New(ctx, time.Minute)
}

// cursor removes the `|` marker from src and returns its offset.
func cursor(t *testing.T, src string) (string, int) {
	t.Helper()
	i := strings.Index(src, "|")
	require.GreaterOrEqual(t, i, 0, "source has no cursor")
	return src[:i] + src[i+1:], i
}

// app wraps markup in an html literal of a module importing html.
func app(markup string) string {
	return "import {html} from '@pucelle/lupos.js'\nexport const view = html`" + markup + "`\n"
}

func labels(entries []service.CompletionEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}

func entry(t *testing.T, entries []service.CompletionEntry, label string) service.CompletionEntry {
	t.Helper()
	for _, e := range entries {
		if e.Label == label {
			return e
		}
	}
	require.Failf(t, "missing completion", "%q not in %v", label, labels(entries))
	return service.CompletionEntry{}
}

func apply(text string, e imports.TextEdit) string {
	return text[:e.Start] + e.NewText + text[e.End:]
}

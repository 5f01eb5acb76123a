package analyzer_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/lupls/internal/analyzer"
	"bennypowers.dev/lupls/internal/program"
)

const luposDir = "/proj/node_modules/@pucelle/lupos.js"

var luposFiles = map[string]string{
	luposDir + "/package.json":   `{"name": "@pucelle/lupos.js", "types": "out/index.d.ts"}`,
	luposDir + "/out/index.d.ts": "export * from './component'\nexport * from './binding'\n",
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

var projectFiles = map[string]string{
	"/proj/src/base.ts": `import {Component} from '@pucelle/lupos.js'
export interface BaseEvents {
	open: () => void
}
export class Base<E = {}> extends Component<BaseEvents & E> {
	size: string = ''
	readonly id: number = 1
	static count = 0
	private secret = 1
	set label(value: string) {}
}
`,
	"/proj/src/index.ts": "export * from './base'\n",
	"/proj/src/button.ts": `import {Base} from './base'
import closeIcon from '../icons/close.svg'
interface ButtonEvents {
	click: (e: MouseEvent) => void
}
/** A button. */
export class Button extends Base<ButtonEvents> {
	size: 'small' | 'large' = 'small'
	slotElements: {
		icon: HTMLElement | null
	} = {icon: null}
}
`,
	"/proj/src/card.ts": `import {Base} from './index'
export class Card extends Base {}
`,
	"/proj/src/tip.ts": `import {Binding} from '@pucelle/lupos.js'
export class Tip implements Binding {
	update(value: any) {}
}
class Plain {}
`,
}

// newProject loads the project files into a program the way the workspace
// loader does. Library files are left to import resolution.
func newProject(t *testing.T) (*program.ProjectContext, *analyzer.Analyzer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range luposFiles {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	ctx := program.NewProjectContext("/proj", fs)
	for path, content := range projectFiles {
		_, err := ctx.Program.SetFile(path, content)
		require.NoError(t, err)
	}
	a := analyzer.New(ctx)
	a.Update()
	a.EndTick()
	return ctx, a
}

func componentNames(cs []*analyzer.Component) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

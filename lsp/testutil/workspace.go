package testutil

import (
	"bennypowers.dev/lupls/internal/uriutil"
	"bennypowers.dev/lupls/internal/workspace"
	"github.com/spf13/afero"
)

// Root is the project root of NewWorkspace.
const Root = "/proj"

const luposDir = Root + "/node_modules/@pucelle/lupos.js"

// LuposPackage is a minimal copy of the lupos declarations.
var LuposPackage = map[string]string{
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

// FooSource declares the Foo component in src/foo.ts.
const FooSource = `import {Component} from '@pucelle/lupos.js'
interface FooEvents {
	/** Fires when opened. */
	open: () => void
}
/** Foo component. */
export class Foo extends Component<FooEvents> {
	/** Size of the foo. */
	size: 'small' | 'large' = 'small'
}
`

// NewWorkspace writes files and the lupos package to a memory filesystem
// and opens a workspace over it.
func NewWorkspace(files map[string]string) (*workspace.Workspace, error) {
	fs := afero.NewMemMapFs()
	for _, set := range []map[string]string{LuposPackage, files} {
		for path, content := range set {
			if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return workspace.Open(fs, Root)
}

// URI returns the file URI of a path under Root.
func URI(rel string) string {
	return uriutil.PathToURI(Root + "/" + rel)
}

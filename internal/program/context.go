package program

import (
	"github.com/spf13/afero"

	"bennypowers.dev/lupls/internal/template"
)

// LuposModule is the package that defines Component and Binding.
const LuposModule = "@pucelle/lupos.js"

// ProjectContext carries the per-project collaborators. It is created once
// per workspace and handed to every component that needs the host model.
type ProjectContext struct {
	Root         string
	Program      *Program
	Resolver     *Resolver
	TemplateTags []string
	LuposModule  string
}

// NewProjectContext builds a context rooted at root over fs.
func NewProjectContext(root string, fs afero.Fs) *ProjectContext {
	prog := New(fs)
	return &ProjectContext{
		Root:         root,
		Program:      prog,
		Resolver:     NewResolver(prog, root),
		TemplateTags: append([]string(nil), template.DefaultTags...),
		LuposModule:  LuposModule,
	}
}

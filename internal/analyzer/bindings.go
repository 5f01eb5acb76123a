package analyzer

import (
	"strings"

	"bennypowers.dev/lupls/internal/completedata"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
)

func newBinding(ctx *program.ProjectContext, file *program.SourceFile, cls *ts.Class) *Binding {
	b := &Binding{
		Name:        cls.Name,
		NameSpan:    cls.NameSpan,
		Description: cls.Description,
		File:        file,
		Class:       cls,
	}
	if strings.Contains(file.Path, "/node_modules/"+ctx.LuposModule+"/") {
		if known, ok := completedata.InternalBindingByClass(cls.Name); ok {
			b.Name = known.Name
			b.Internal = true
			if b.Description == "" {
				b.Description = known.Description
			}
		}
	}
	return b
}

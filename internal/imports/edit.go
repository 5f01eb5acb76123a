package imports

import (
	"fmt"

	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
)

// TextEdit replaces the host text in [Start, End) with NewText.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// ImportEdit returns the edit that imports name from importPath into file.
// It returns false when name is already imported from importPath.
func (r *Resolver) ImportEdit(file *program.SourceFile, name, importPath string) (TextEdit, bool) {
	for _, imp := range file.ImportsFrom(importPath) {
		if imp.NamedSpan == nil || imp.TypeOnly {
			continue
		}
		for _, spec := range imp.Named {
			if spec.LocalName() == name {
				return TextEdit{}, false
			}
		}
		if len(imp.Named) == 0 {
			at := imp.NamedSpan.End - 1
			return TextEdit{Start: at, End: at, NewText: name}, true
		}
		last := imp.Named[len(imp.Named)-1]
		return TextEdit{
			Start:   last.Span.End,
			End:     last.Span.End,
			NewText: "," + leadingSpace(file.Text, last.Span.Start) + name,
		}, true
	}

	line := fmt.Sprintf("import {%s} from '%s'", name, importPath)
	k := importsEnd(file.Statements)
	switch {
	case k > 0:
		at := file.Statements[k-1].Span.End
		return TextEdit{Start: at, End: at, NewText: "\n" + line}, true
	default:
		return TextEdit{Start: 0, End: 0, NewText: line + "\n"}, true
	}
}

// importsEnd is the index of the first statement that is not an import, or
// len(stmts) when every statement is one.
func importsEnd(stmts []ts.Statement) int {
	for i, s := range stmts {
		if s.Kind != "import_statement" {
			return i
		}
	}
	return len(stmts)
}

// leadingSpace returns the whitespace right before offset, or a single
// space when there is none.
func leadingSpace(text string, offset int) string {
	i := offset
	for i > 0 {
		switch text[i-1] {
		case ' ', '\t', '\n', '\r':
			i--
			continue
		}
		break
	}
	if i == offset {
		return " "
	}
	return text[i:offset]
}

// Fix is an import to add: the module path and the edit adding it.
type Fix struct {
	Path string
	Edit TextEdit
}

// ImportFix computes the best path for name, declared in declFile, and the
// edit importing it into file.
func (r *Resolver) ImportFix(file *program.SourceFile, name, declFile string) (Fix, bool) {
	importPath, ok := r.BestImportPath(name, declFile, file.Path)
	if !ok {
		return Fix{}, false
	}
	edit, ok := r.ImportEdit(file, name, importPath)
	if !ok {
		return Fix{}, false
	}
	return Fix{Path: importPath, Edit: edit}, true
}

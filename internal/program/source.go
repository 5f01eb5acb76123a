package program

import (
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"sync"

	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/position"
)

// SourceFile is an immutable snapshot of one parsed host file.
type SourceFile struct {
	*ts.File
	Path string
	Text string
	// Version increases across the whole program each time any file changes,
	// so two snapshots of one path never share a version.
	Version uint64

	indexOnce sync.Once
	index     *position.Index
}

// FilePath and Fingerprint let snapshots validate cache entries.
func (f *SourceFile) FilePath() string    { return f.Path }
func (f *SourceFile) Fingerprint() uint64 { return f.Version }

// Index returns the line index of the snapshot text.
func (f *SourceFile) Index() *position.Index {
	f.indexOnce.Do(func() { f.index = position.NewIndex(f.Text) })
	return f.index
}

// IsDeclaration reports whether this is a `.d.ts` file.
func (f *SourceFile) IsDeclaration() bool {
	return strings.HasSuffix(f.Path, ".d.ts")
}

// InNodeModules reports whether the file belongs to an installed package.
func (f *SourceFile) InNodeModules() bool {
	return strings.Contains(f.Path, "/node_modules/")
}

// IsStandardLibrary matches the compiler's own lib files, which never
// contain components.
func (f *SourceFile) IsStandardLibrary() bool {
	base := path.Base(f.Path)
	return strings.Contains(f.Path, "/node_modules/typescript/") ||
		(strings.HasPrefix(base, "lib.") && strings.HasSuffix(base, ".d.ts"))
}

// Class returns the top-level class with the given name.
func (f *SourceFile) Class(name string) *ts.Class {
	for _, c := range f.Classes {
		if c.TopLevel && c.Name == name {
			return c
		}
	}
	return nil
}

// TopLevelClasses lists classes declared directly in the file.
func (f *SourceFile) TopLevelClasses() []*ts.Class {
	var out []*ts.Class
	for _, c := range f.Classes {
		if c.TopLevel {
			out = append(out, c)
		}
	}
	return out
}

func (f *SourceFile) Interface(name string) *ts.Interface {
	for _, i := range f.Interfaces {
		if i.Name == name {
			return i
		}
	}
	return nil
}

func (f *SourceFile) TypeAlias(name string) *ts.TypeAlias {
	for _, a := range f.TypeAliases {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (f *SourceFile) Local(name string) *ts.Local {
	for _, l := range f.Locals {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// ImportBinding describes how a local name was imported.
type ImportBinding struct {
	Import *ts.Import
	// Spec is nil for default and namespace imports.
	Spec *ts.ImportSpecifier
	// ImportedName is "default" for default imports and "*" for namespaces.
	ImportedName string
}

// ImportOf finds the import that binds localName.
func (f *SourceFile) ImportOf(localName string) (*ImportBinding, bool) {
	for _, imp := range f.Imports {
		if imp.Default == localName {
			return &ImportBinding{Import: imp, ImportedName: "default"}, true
		}
		if imp.Namespace == localName {
			return &ImportBinding{Import: imp, ImportedName: "*"}, true
		}
		for _, spec := range imp.Named {
			if spec.LocalName() == localName {
				return &ImportBinding{Import: imp, Spec: spec, ImportedName: spec.Name}, true
			}
		}
	}
	return nil, false
}

// ImportsFrom returns the imports whose source is exactly module.
func (f *SourceFile) ImportsFrom(module string) []*ts.Import {
	var out []*ts.Import
	for _, imp := range f.Imports {
		if imp.Source == module {
			out = append(out, imp)
		}
	}
	return out
}

// LiteralKey identifies a literal by position and tag, like a node reference
// into one syntax tree.
func LiteralKey(lit *ts.Template) string {
	return fmt.Sprintf("%s@%d", lit.Tag, lit.Span.Start)
}

// LiteralIdentity hashes the literal's source text. Two snapshots whose
// literals share a key but not an identity hold different nodes.
func (f *SourceFile) LiteralIdentity(lit *ts.Template) uint64 {
	h := fnv.New64a()
	h.Write([]byte(f.Text[lit.Span.Start:lit.Span.End]))
	return h.Sum64()
}

// TemplateAt returns the innermost literal whose content contains offset and
// whose tag is in tags. Literals nested in an interpolation win over the
// literal holding them.
func (f *SourceFile) TemplateAt(offset int, tags []string) *ts.Template {
	var best *ts.Template
	for _, lit := range f.Templates {
		cs := lit.ContentSpan()
		if cs.Start > offset || offset > cs.End || !hasTag(tags, lit.Tag) {
			continue
		}
		if best == nil || cs.End-cs.Start < best.ContentSpan().End-best.ContentSpan().Start {
			best = lit
		}
	}
	return best
}

// TemplatesWithTags filters the file's literals by tag.
func (f *SourceFile) TemplatesWithTags(tags []string) []*ts.Template {
	var out []*ts.Template
	for _, lit := range f.Templates {
		if hasTag(tags, lit.Tag) {
			out = append(out, lit)
		}
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

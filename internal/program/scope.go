package program

import (
	"sort"

	"bennypowers.dev/lupls/internal/parser/ts"
)

// SymbolKind is how a file-level name was declared.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolImport
	SymbolInterface
	SymbolTypeAlias
	SymbolLocal
)

// Symbol is a name visible at file level.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Span    ts.Span
	Class   *ts.Class
	Binding *ImportBinding
}

// Scope is the declaration tree of one snapshot: the names a template can
// refer to without further imports.
type Scope struct {
	File    *SourceFile
	symbols map[string]*Symbol
	nested  []*ts.Class
}

// NewScope indexes the declarations of file.
func NewScope(file *SourceFile) *Scope {
	s := &Scope{File: file, symbols: make(map[string]*Symbol)}
	for _, imp := range file.Imports {
		if imp.Default != "" {
			s.add(&Symbol{Name: imp.Default, Kind: SymbolImport, Span: imp.DefaultSpan,
				Binding: &ImportBinding{Import: imp, ImportedName: "default"}})
		}
		if imp.Namespace != "" {
			s.add(&Symbol{Name: imp.Namespace, Kind: SymbolImport, Span: imp.Span,
				Binding: &ImportBinding{Import: imp, ImportedName: "*"}})
		}
		for _, spec := range imp.Named {
			s.add(&Symbol{Name: spec.LocalName(), Kind: SymbolImport, Span: spec.Span,
				Binding: &ImportBinding{Import: imp, Spec: spec, ImportedName: spec.Name}})
		}
	}
	for _, c := range file.Classes {
		if !c.TopLevel {
			s.nested = append(s.nested, c)
			continue
		}
		s.add(&Symbol{Name: c.Name, Kind: SymbolClass, Span: c.NameSpan, Class: c})
	}
	for _, i := range file.Interfaces {
		s.add(&Symbol{Name: i.Name, Kind: SymbolInterface, Span: i.NameSpan})
	}
	for _, a := range file.TypeAliases {
		s.add(&Symbol{Name: a.Name, Kind: SymbolTypeAlias, Span: a.NameSpan})
	}
	for _, l := range file.Locals {
		s.add(&Symbol{Name: l.Name, Kind: SymbolLocal, Span: l.NameSpan})
	}
	return s
}

func (s *Scope) add(sym *Symbol) {
	if _, ok := s.symbols[sym.Name]; !ok {
		s.symbols[sym.Name] = sym
	}
}

// Lookup finds name as seen from offset. A nested class is visible when the
// offset lies inside the block that encloses it.
func (s *Scope) Lookup(name string, offset int) (*Symbol, bool) {
	var best *ts.Class
	for _, c := range s.nested {
		if c.Name != name || c.Span.Start > offset {
			continue
		}
		if best == nil || c.Span.Start > best.Span.Start {
			best = c
		}
	}
	if best != nil {
		return &Symbol{Name: name, Kind: SymbolClass, Span: best.NameSpan, Class: best}, true
	}
	sym, ok := s.symbols[name]
	return sym, ok
}

// Has reports whether name is visible anywhere in the file.
func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name, len(s.File.Text))
	return ok
}

// Names lists the file-level names in order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for n := range s.symbols {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

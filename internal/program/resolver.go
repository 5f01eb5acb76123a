package program

import (
	"strings"

	"bennypowers.dev/lupls/internal/parser/ts"
)

// DeclKind is the kind of a resolved declaration.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclInterface
	DeclTypeAlias
	DeclLocal
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclTypeAlias:
		return "type"
	case DeclLocal:
		return "local"
	}
	return "unknown"
}

// Declaration is a resolved top-level declaration. Exactly one of Class,
// Interface, Alias and Local is set, matching Kind.
type Declaration struct {
	Kind      DeclKind
	Name      string
	NameSpan  ts.Span
	File      *SourceFile
	Class     *ts.Class
	Interface *ts.Interface
	Alias     *ts.TypeAlias
	Local     *ts.Local
}

// ClassRef pairs a class with the snapshot that declares it.
type ClassRef struct {
	File  *SourceFile
	Class *ts.Class
}

// Resolver answers name, export and heritage questions over a Program.
type Resolver struct {
	prog    *Program
	root    string
	Modules *ModuleResolver
}

// NewResolver creates a resolver over prog for the project at root.
func NewResolver(prog *Program, root string) *Resolver {
	return &Resolver{prog: prog, root: root, Modules: newModuleResolver(prog)}
}

// Module resolves specifier from file and loads the target into the program.
// A file loaded for the first time brings the files it imports along, as
// the host compiler includes every file reachable from a root.
func (r *Resolver) Module(from *SourceFile, specifier string) (*SourceFile, bool) {
	target, ok := r.Modules.Resolve(from.Path, specifier)
	if !ok {
		return nil, false
	}
	if f := r.prog.File(target); f != nil {
		return f, true
	}
	f, err := r.prog.LoadFile(target)
	if err != nil {
		return nil, false
	}
	r.loadReachable(f, map[string]bool{f.Path: true})
	return f, true
}

func (r *Resolver) loadReachable(f *SourceFile, visited map[string]bool) {
	var specifiers []string
	for _, imp := range f.Imports {
		specifiers = append(specifiers, imp.Source)
	}
	for _, exp := range f.Exports {
		if exp.Source != "" {
			specifiers = append(specifiers, exp.Source)
		}
	}
	for _, spec := range specifiers {
		target, ok := r.Modules.Resolve(f.Path, spec)
		if !ok || visited[target] || r.prog.File(target) != nil {
			continue
		}
		visited[target] = true
		loaded, err := r.prog.LoadFile(target)
		if err != nil {
			continue
		}
		r.loadReachable(loaded, visited)
	}
}

// Local resolves a name declared in file itself. Nested classes are found
// when no top-level declaration matches.
func Local(file *SourceFile, name string) (*Declaration, bool) {
	if c := file.Class(name); c != nil {
		return classDecl(file, c), true
	}
	if i := file.Interface(name); i != nil {
		return &Declaration{Kind: DeclInterface, Name: name, NameSpan: i.NameSpan, File: file, Interface: i}, true
	}
	if a := file.TypeAlias(name); a != nil {
		return &Declaration{Kind: DeclTypeAlias, Name: name, NameSpan: a.NameSpan, File: file, Alias: a}, true
	}
	if l := file.Local(name); l != nil {
		return &Declaration{Kind: DeclLocal, Name: name, NameSpan: l.NameSpan, File: file, Local: l}, true
	}
	for _, c := range file.Classes {
		if c.Name == name {
			return classDecl(file, c), true
		}
	}
	return nil, false
}

func classDecl(file *SourceFile, c *ts.Class) *Declaration {
	return &Declaration{Kind: DeclClass, Name: c.Name, NameSpan: c.NameSpan, File: file, Class: c}
}

// ResolveName follows name from file to its declaration through imports and
// re-exports. Qualified names like `ns.Foo` go through namespace imports.
func (r *Resolver) ResolveName(file *SourceFile, name string) (*Declaration, bool) {
	return r.resolveName(file, name, map[string]bool{})
}

func (r *Resolver) resolveName(file *SourceFile, name string, visited map[string]bool) (*Declaration, bool) {
	name = baseTypeName(name)
	if ns, member, ok := strings.Cut(name, "."); ok {
		binding, found := file.ImportOf(ns)
		if !found || binding.ImportedName != "*" {
			return nil, false
		}
		target, ok := r.Module(file, binding.Import.Source)
		if !ok {
			return nil, false
		}
		return r.resolveExport(target, member, visited)
	}
	if d, ok := Local(file, name); ok {
		return d, true
	}
	binding, ok := file.ImportOf(name)
	if !ok || binding.ImportedName == "*" {
		return nil, false
	}
	target, ok := r.Module(file, binding.Import.Source)
	if !ok {
		return nil, false
	}
	return r.resolveExport(target, binding.ImportedName, visited)
}

// ResolveExport finds the declaration file exports as name, following
// re-exports and `export *`.
func (r *Resolver) ResolveExport(file *SourceFile, name string) (*Declaration, bool) {
	return r.resolveExport(file, name, map[string]bool{})
}

func (r *Resolver) resolveExport(file *SourceFile, name string, visited map[string]bool) (*Declaration, bool) {
	key := file.Path + "\x00" + name
	if visited[key] {
		return nil, false
	}
	visited[key] = true

	for _, exp := range file.Exports {
		if exp.Star || exp.Name != name {
			continue
		}
		if exp.Source == "" {
			return r.resolveName(file, exp.LocalName, visited)
		}
		if exp.LocalName == "*" {
			return nil, false
		}
		target, ok := r.Module(file, exp.Source)
		if !ok {
			return nil, false
		}
		return r.resolveExport(target, exp.LocalName, visited)
	}
	// Ambient declaration files may declare exported classes without an
	// export statement the extractor recognized.
	if file.IsDeclaration() {
		if c := file.Class(name); c != nil && c.Exported {
			return classDecl(file, c), true
		}
	}
	if name == "default" {
		return nil, false
	}
	for _, exp := range file.Exports {
		if !exp.Star {
			continue
		}
		target, ok := r.Module(file, exp.Source)
		if !ok {
			continue
		}
		if d, ok := r.resolveExport(target, name, visited); ok {
			return d, true
		}
	}
	return nil, false
}

// Supertype resolves the class that cls extends.
func (r *Resolver) Supertype(file *SourceFile, cls *ts.Class) (ClassRef, bool) {
	if cls.Extends == "" || strings.ContainsAny(cls.Extends, "()") {
		return ClassRef{}, false
	}
	d, ok := r.ResolveName(file, cls.Extends)
	if !ok || d.Kind != DeclClass {
		return ClassRef{}, false
	}
	return ClassRef{File: d.File, Class: d.Class}, true
}

// Ancestors returns cls followed by its resolvable supertypes, nearest first.
func (r *Resolver) Ancestors(file *SourceFile, cls *ts.Class) []ClassRef {
	chain := []ClassRef{{File: file, Class: cls}}
	seen := map[*ts.Class]bool{cls: true}
	for cur := chain[0]; ; {
		next, ok := r.Supertype(cur.File, cur.Class)
		if !ok || seen[next.Class] {
			return chain
		}
		seen[next.Class] = true
		chain = append(chain, next)
		cur = next
	}
}

// IsModuleSymbol reports whether name, as written in file, denotes the
// export exported by module.
func (r *Resolver) IsModuleSymbol(file *SourceFile, name, module, exported string) bool {
	name = baseTypeName(name)
	if ns, member, ok := strings.Cut(name, "."); ok {
		binding, found := file.ImportOf(ns)
		return found && binding.ImportedName == "*" && binding.Import.Source == module && member == exported
	}
	if binding, ok := file.ImportOf(name); ok && binding.Import.Source == module && binding.ImportedName == exported {
		return true
	}
	// Inside the module package itself the symbol is declared locally.
	if name == exported && inPackage(file.Path, module) {
		return true
	}
	return false
}

func inPackage(filePath, module string) bool {
	return strings.Contains(filePath, "/node_modules/"+module+"/")
}

// DerivesFrom reports whether cls extends or implements the given export of
// module, directly or through any chain of supertypes.
func (r *Resolver) DerivesFrom(file *SourceFile, cls *ts.Class, module, exported string) bool {
	type item struct {
		file *SourceFile
		name string
	}
	var queue []item
	push := func(f *SourceFile, c *ts.Class) {
		if c.Extends != "" {
			queue = append(queue, item{f, c.Extends})
		}
		for _, impl := range c.Implements {
			queue = append(queue, item{f, impl})
		}
	}
	push(file, cls)

	visited := map[string]bool{}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		key := it.file.Path + "\x00" + it.name
		if visited[key] {
			continue
		}
		visited[key] = true

		if r.IsModuleSymbol(it.file, it.name, module, exported) {
			return true
		}
		d, ok := r.ResolveName(it.file, it.name)
		if !ok {
			continue
		}
		if d.Name == exported && inPackage(d.File.Path, module) {
			return true
		}
		switch d.Kind {
		case DeclClass:
			push(d.File, d.Class)
		case DeclInterface:
			for _, ext := range d.Interface.Extends {
				queue = append(queue, item{d.File, ext})
			}
		}
	}
	return false
}

// Property is an interface or type literal property with its owner.
type Property struct {
	*ts.PropertySignature
	File  *SourceFile
	Owner string
}

// Properties expands a type expression like `A & B` into the properties of
// the named interfaces and object type aliases it mentions.
func (r *Resolver) Properties(file *SourceFile, typeText string) []Property {
	var out []Property
	visited := map[string]bool{}
	var expand func(f *SourceFile, text string)
	expand = func(f *SourceFile, text string) {
		for _, part := range SplitTopLevel(text, '&') {
			name := baseTypeName(part)
			if name == "" || strings.HasPrefix(name, "{") {
				continue
			}
			d, ok := r.ResolveName(f, name)
			if !ok {
				continue
			}
			key := d.File.Path + "\x00" + d.Name
			if visited[key] {
				continue
			}
			visited[key] = true
			switch d.Kind {
			case DeclInterface:
				for _, p := range d.Interface.Properties {
					out = append(out, Property{PropertySignature: p, File: d.File, Owner: d.Name})
				}
				for _, ext := range d.Interface.Extends {
					expand(d.File, ext)
				}
			case DeclTypeAlias:
				if d.Alias.Properties != nil {
					for _, p := range d.Alias.Properties {
						out = append(out, Property{PropertySignature: p, File: d.File, Owner: d.Name})
					}
				} else {
					expand(d.File, d.Alias.Type)
				}
			}
		}
	}
	expand(file, typeText)
	return out
}

// StringLiterals returns the string literal members of a union type,
// following type aliases.
func (r *Resolver) StringLiterals(file *SourceFile, typeText string) []string {
	var out []string
	seen := map[string]bool{}
	visited := map[string]bool{}
	var expand func(f *SourceFile, text string)
	expand = func(f *SourceFile, text string) {
		for _, part := range SplitTopLevel(text, '|') {
			part = strings.TrimSpace(part)
			if v, ok := unquoteLiteral(part); ok {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
				continue
			}
			name := baseTypeName(part)
			if name == "" {
				continue
			}
			d, ok := r.ResolveName(f, name)
			if !ok || d.Kind != DeclTypeAlias {
				continue
			}
			key := d.File.Path + "\x00" + d.Name
			if visited[key] {
				continue
			}
			visited[key] = true
			expand(d.File, d.Alias.Type)
		}
	}
	expand(file, typeText)
	return out
}

func unquoteLiteral(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q == '\'' || q == '"' || q == '`') && s[len(s)-1] == q {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// baseTypeName strips whitespace and type arguments: `Foo<Bar> ` is `Foo`.
func baseTypeName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// SplitTopLevel splits a type expression on sep outside of brackets and
// string literals.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '<' || c == '(' || c == '{' || c == '[':
			depth++
		case c == '>' && i > 0 && s[i-1] == '=':
		case c == '>' || c == ')' || c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

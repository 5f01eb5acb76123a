// Package analyzer indexes the lupos components, bindings and icons declared
// across the program and keeps that index current as files change.
package analyzer

import (
	"sort"

	"bennypowers.dev/lupls/internal/collections"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
)

type fileState int

const (
	stateUnseen fileState = iota
	stateAnalyzed
	stateExpired
)

func (s fileState) String() string {
	switch s {
	case stateUnseen:
		return "unseen"
	case stateAnalyzed:
		return "analyzed"
	case stateExpired:
		return "expired"
	}
	return "unknown"
}

type fileRecord struct {
	version uint64
	state   fileState
	// deps are the resolved paths of the file's imports and re-exports.
	deps []string
}

// maxRounds bounds reconciliation. Each round can only add files that
// resolution pulled into the program during the previous one.
const maxRounds = 8

// Analyzer is not safe for concurrent use. The service serializes access.
type Analyzer struct {
	ctx *program.ProjectContext

	files map[string]*fileRecord

	componentsByName *collections.ListMap[string, *Component]
	componentsByFile *collections.ListMap[string, *Component]
	bindingsByName   *collections.ListMap[string, *Binding]
	bindingsByFile   *collections.ListMap[string, *Binding]
	iconsByName      *collections.ListMap[string, *Icon]
	iconsByFile      *collections.ListMap[string, *Icon]
	exports          map[string]exportRecord

	freshing bool
}

// New creates an empty analyzer over ctx. The first Update indexes the
// program.
func New(ctx *program.ProjectContext) *Analyzer {
	return &Analyzer{
		ctx:              ctx,
		files:            make(map[string]*fileRecord),
		componentsByName: collections.NewListMap[string, *Component](),
		componentsByFile: collections.NewListMap[string, *Component](),
		bindingsByName:   collections.NewListMap[string, *Binding](),
		bindingsByFile:   collections.NewListMap[string, *Binding](),
		iconsByName:      collections.NewListMap[string, *Icon](),
		iconsByFile:      collections.NewListMap[string, *Icon](),
		exports:          make(map[string]exportRecord),
	}
}

// Update brings the index in line with the program. Calls after the first
// in one tick return immediately; EndTick re-arms it.
func (a *Analyzer) Update() {
	if a.freshing {
		return
	}
	a.freshing = true
	for round := 0; round < maxRounds; round++ {
		if a.reconcile() == 0 {
			return
		}
	}
	log.Warn("analyzer did not settle after %d rounds", maxRounds)
}

// EndTick ends the current tick so the next Update reconciles again.
func (a *Analyzer) EndTick() {
	a.freshing = false
}

// reconcile diffs the program against tracked files, expires stale records
// and analyzes changed files. It returns how many files it analyzed.
func (a *Analyzer) reconcile() int {
	current := make(map[string]*program.SourceFile)
	for _, f := range a.ctx.Program.SourceFiles() {
		if !f.IsStandardLibrary() {
			current[f.Path] = f
		}
	}

	changed := collections.NewSet[string]()
	for path, rec := range a.files {
		f, ok := current[path]
		switch {
		case !ok:
			a.expire(path)
			delete(a.files, path)
			changed.Add(path)
		case f.Version != rec.version:
			a.expire(path)
			changed.Add(path)
		}
	}
	for path := range current {
		if _, tracked := a.files[path]; !tracked {
			changed.Add(path)
		}
	}
	if changed.Len() == 0 {
		return 0
	}

	for _, path := range a.dependents(changed) {
		if rec := a.files[path]; rec != nil && rec.state == stateAnalyzed {
			a.expire(path)
			changed.Add(path)
		}
	}

	paths := changed.Members()
	sort.Strings(paths)
	analyzed := 0
	for _, path := range paths {
		if f, ok := current[path]; ok {
			a.analyze(f)
			analyzed++
		}
	}
	log.Debug("analyzer: analyzed %d files", analyzed)
	return analyzed
}

// dependents returns tracked files that import, directly or transitively,
// any file in changed.
func (a *Analyzer) dependents(changed collections.Set[string]) []string {
	reverse := make(map[string][]string)
	for path, rec := range a.files {
		for _, dep := range rec.deps {
			reverse[dep] = append(reverse[dep], path)
		}
	}
	seen := collections.NewSet[string]()
	queue := changed.Members()
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dependent := range reverse[cur] {
			if seen.Has(dependent) || changed.Has(dependent) {
				continue
			}
			seen.Add(dependent)
			out = append(out, dependent)
			queue = append(queue, dependent)
		}
	}
	return out
}

// expire purges every record keyed to path.
func (a *Analyzer) expire(path string) {
	for _, c := range a.componentsByFile.Get(path) {
		a.componentsByName.Delete(c.Name, c)
	}
	a.componentsByFile.DeleteKey(path)
	for _, b := range a.bindingsByFile.Get(path) {
		a.bindingsByName.Delete(b.Name, b)
	}
	a.bindingsByFile.DeleteKey(path)
	for _, i := range a.iconsByFile.Get(path) {
		a.iconsByName.Delete(i.Name, i)
	}
	a.iconsByFile.DeleteKey(path)
	delete(a.exports, path)
	if rec := a.files[path]; rec != nil {
		rec.state = stateExpired
	}
}

// analyze records file from scratch.
func (a *Analyzer) analyze(file *program.SourceFile) {
	r := a.ctx.Resolver
	delete(a.exports, file.Path)
	for _, cls := range file.TopLevelClasses() {
		if cls.Name == "" {
			continue
		}
		switch {
		case r.DerivesFrom(file, cls, a.ctx.LuposModule, "Component"):
			c := newComponent(r, file, cls)
			a.componentsByName.Add(c.Name, c)
			a.componentsByFile.Add(file.Path, c)
		case r.DerivesFrom(file, cls, a.ctx.LuposModule, "Binding"):
			b := newBinding(a.ctx, file, cls)
			a.bindingsByName.Add(b.Name, b)
			a.bindingsByFile.Add(file.Path, b)
		}
	}
	for _, icon := range fileIcons(file) {
		a.iconsByName.Add(icon.Name, icon)
		a.iconsByFile.Add(file.Path, icon)
	}
	a.files[file.Path] = &fileRecord{
		version: file.Version,
		state:   stateAnalyzed,
		deps:    a.fileDeps(file),
	}
}

func (a *Analyzer) fileDeps(file *program.SourceFile) []string {
	var deps []string
	mods := a.ctx.Resolver.Modules
	for _, imp := range file.Imports {
		if p, ok := mods.Resolve(file.Path, imp.Source); ok {
			deps = append(deps, p)
		}
	}
	for _, exp := range file.Exports {
		if exp.Source == "" {
			continue
		}
		if p, ok := mods.Resolve(file.Path, exp.Source); ok {
			deps = append(deps, p)
		}
	}
	return deps
}

// ensure analyzes file when its current snapshot has not been analyzed.
func (a *Analyzer) ensure(file *program.SourceFile) {
	rec := a.files[file.Path]
	if rec != nil && rec.state == stateAnalyzed && rec.version == file.Version {
		return
	}
	a.expire(file.Path)
	a.analyze(file)
}

// ComponentByDeclaration returns the component declared by ref, analyzing
// its file on demand. Nested classes are built fresh on each call.
func (a *Analyzer) ComponentByDeclaration(ref program.ClassRef) (*Component, bool) {
	if !ref.Class.TopLevel {
		if !a.ctx.Resolver.DerivesFrom(ref.File, ref.Class, a.ctx.LuposModule, "Component") {
			return nil, false
		}
		return newComponent(a.ctx.Resolver, ref.File, ref.Class), true
	}
	a.ensure(ref.File)
	for _, c := range a.componentsByFile.Get(ref.File.Path) {
		if c.Class == ref.Class {
			return c, true
		}
	}
	return nil, false
}

// BindingByDeclaration returns the binding declared by ref.
func (a *Analyzer) BindingByDeclaration(ref program.ClassRef) (*Binding, bool) {
	if !ref.Class.TopLevel {
		if !a.ctx.Resolver.DerivesFrom(ref.File, ref.Class, a.ctx.LuposModule, "Binding") {
			return nil, false
		}
		return newBinding(a.ctx, ref.File, ref.Class), true
	}
	a.ensure(ref.File)
	for _, b := range a.bindingsByFile.Get(ref.File.Path) {
		if b.Class == ref.Class {
			return b, true
		}
	}
	return nil, false
}

// resolveClass finds the class name refers to as seen from offset in file.
func (a *Analyzer) resolveClass(file *program.SourceFile, scope *program.Scope, name string, offset int) (program.ClassRef, bool) {
	sym, ok := scope.Lookup(name, offset)
	if !ok {
		return program.ClassRef{}, false
	}
	if sym.Kind == program.SymbolClass {
		return program.ClassRef{File: file, Class: sym.Class}, true
	}
	if sym.Kind != program.SymbolImport {
		return program.ClassRef{}, false
	}
	d, ok := a.ctx.Resolver.ResolveName(file, name)
	if !ok || d.Kind != program.DeclClass {
		return program.ClassRef{}, false
	}
	return program.ClassRef{File: d.File, Class: d.Class}, true
}

// ComponentForTag resolves a component tag used in a template of file.
func (a *Analyzer) ComponentForTag(file *program.SourceFile, scope *program.Scope, tag string, offset int) (*Component, bool) {
	ref, ok := a.resolveClass(file, scope, tag, offset)
	if !ok {
		return nil, false
	}
	return a.ComponentByDeclaration(ref)
}

// BindingForName resolves a `:name` binding used in a template of file.
// Names not in scope fall back to internal bindings.
func (a *Analyzer) BindingForName(file *program.SourceFile, scope *program.Scope, name string, offset int) (*Binding, bool) {
	if ref, ok := a.resolveClass(file, scope, name, offset); ok {
		return a.BindingByDeclaration(ref)
	}
	for _, b := range a.bindingsByName.Get(name) {
		if b.Internal {
			return b, true
		}
	}
	return nil, false
}

// ComponentsByName returns every component declared with name.
func (a *Analyzer) ComponentsByName(name string) []*Component {
	return a.componentsByName.Get(name)
}

// ComponentsByFile returns the components declared in path.
func (a *Analyzer) ComponentsByFile(path string) []*Component {
	return a.componentsByFile.Get(path)
}

// Components returns every component ordered by name then path.
func (a *Analyzer) Components() []*Component {
	out := a.componentsByName.Values()
	sortComponents(out)
	return out
}

// ComponentsForCompletion returns components whose name starts with prefix.
func (a *Analyzer) ComponentsForCompletion(prefix string) []*Component {
	var out []*Component
	for _, c := range a.Components() {
		if hasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func sortComponents(cs []*Component) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].File.Path < cs[j].File.Path
	})
}

// BindingsByName returns every binding registered under name.
func (a *Analyzer) BindingsByName(name string) []*Binding {
	return a.bindingsByName.Get(name)
}

// BindingsByFile returns the bindings declared in path.
func (a *Analyzer) BindingsByFile(path string) []*Binding {
	return a.bindingsByFile.Get(path)
}

// BindingsForCompletion returns bindings whose name starts with prefix.
func (a *Analyzer) BindingsForCompletion(prefix string) []*Binding {
	var out []*Binding
	for _, b := range a.bindingsByName.Values() {
		if hasPrefix(b.Name, prefix) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].File.Path < out[j].File.Path
	})
	return out
}

// Icon returns the first icon registered as name.
func (a *Analyzer) Icon(name string) (*Icon, bool) {
	icons := a.iconsByName.Get(name)
	if len(icons) == 0 {
		return nil, false
	}
	return icons[0], true
}

// IconsForCompletion returns one icon per name starting with prefix.
func (a *Analyzer) IconsForCompletion(prefix string) []*Icon {
	var out []*Icon
	for _, name := range a.iconsByName.Keys() {
		if hasPrefix(name, prefix) {
			out = append(out, a.iconsByName.Get(name)[0])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// classKey identifies a declaration across lookups.
type classKey struct {
	path  string
	class *ts.Class
}

// Package ts extracts the syntax facts the analyzer needs from TypeScript and
// JavaScript sources: imports, exports, class shapes, interfaces and tagged
// template literals.
package ts

import (
	"fmt"
	"path"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Dialect selects the grammar used for a file.
type Dialect int

const (
	DialectTypeScript Dialect = iota
	DialectTSX
	DialectJavaScript
)

// DialectForPath picks a dialect from the file extension. ok is false for
// files that cannot host templates.
func DialectForPath(p string) (Dialect, bool) {
	switch path.Ext(p) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript, true
	case ".tsx":
		return DialectTSX, true
	case ".js", ".mjs", ".cjs", ".jsx":
		return DialectJavaScript, true
	}
	return DialectTypeScript, false
}

var languages = map[Dialect]*sitter.Language{
	DialectTypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	DialectTSX:        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	DialectJavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
}

const taggedTemplateQuery = `
	(call_expression
		function: (identifier) @tag
		arguments: (template_string) @template)
`

// Parser wraps a tree-sitter parser and its compiled template query.
type Parser struct {
	dialect       Dialect
	parser        *sitter.Parser
	templateQuery *sitter.Query
}

func newParser(d Dialect) *Parser {
	lang := languages[d]
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		panic(fmt.Sprintf("failed to set host language: %v", err))
	}
	query, qerr := sitter.NewQuery(lang, taggedTemplateQuery)
	if qerr != nil {
		panic(fmt.Sprintf("failed to compile tagged template query: %v", qerr))
	}
	return &Parser{dialect: d, parser: parser, templateQuery: query}
}

var pools = map[Dialect]*sync.Pool{}

func init() {
	for d := range languages {
		pools[d] = &sync.Pool{New: func() any { return newParser(d) }}
	}
}

// AcquireParser takes a parser for the dialect from its pool.
func AcquireParser(d Dialect) *Parser {
	p := pools[d].Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns p to the pool of its dialect.
func ReleaseParser(p *Parser) {
	if p != nil {
		pools[p.dialect].Put(p)
	}
}

// Close frees the parser and its compiled query.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
}

// ClosePool releases pooled parsers. Call on shutdown.
func ClosePool() {
	for _, pool := range pools {
		for range 32 {
			if p, ok := pool.Get().(*Parser); ok && p != nil {
				p.Close()
			}
		}
	}
}

// ParseFile is a convenience wrapper that acquires a pooled parser.
func ParseFile(filePath string, source []byte) (*File, error) {
	d, ok := DialectForPath(filePath)
	if !ok {
		return nil, fmt.Errorf("not a script file: %s", filePath)
	}
	p := AcquireParser(d)
	defer ReleaseParser(p)
	return p.Parse(source)
}

// Parse extracts the syntax facts of source.
func (p *Parser) Parse(source []byte) (*File, error) {
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("host parse returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	x := &extractor{src: source, file: &File{HasErrors: root.HasError()}}
	x.program(root)
	x.classesIn(root)
	x.templates(p.templateQuery, root)
	return x.file, nil
}

type extractor struct {
	src  []byte
	file *File
}

func (x *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(x.src[n.StartByte():n.EndByte()])
}

func span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (x *extractor) program(root *sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt.Kind() == "comment" {
			continue
		}
		x.file.Statements = append(x.file.Statements, Statement{Kind: stmt.Kind(), Span: span(stmt)})
		switch stmt.Kind() {
		case "import_statement":
			if imp := x.importStatement(stmt); imp != nil {
				x.file.Imports = append(x.file.Imports, imp)
			}
		case "export_statement":
			x.exportStatement(stmt)
		default:
			x.declaration(stmt, false)
		}
	}
}

func (x *extractor) importStatement(n *sitter.Node) *Import {
	source := n.ChildByFieldName("source")
	if source == nil {
		return nil
	}
	imp := &Import{
		Span:       span(n),
		Source:     unquote(x.text(source)),
		SourceSpan: span(source),
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "type":
			imp.TypeOnly = true
		case "import_clause":
			x.importClause(c, imp)
		}
	}
	return imp
}

func (x *extractor) importClause(n *sitter.Node, imp *Import) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "identifier":
			imp.Default = x.text(c)
			imp.DefaultSpan = span(c)
		case "namespace_import":
			for j := uint(0); j < c.NamedChildCount(); j++ {
				if id := c.NamedChild(j); id.Kind() == "identifier" {
					imp.Namespace = x.text(id)
				}
			}
		case "named_imports":
			s := span(c)
			imp.NamedSpan = &s
			imp.Named = []*ImportSpecifier{}
			for j := uint(0); j < c.NamedChildCount(); j++ {
				spec := c.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				imp.Named = append(imp.Named, &ImportSpecifier{
					Name:  unquote(x.text(spec.ChildByFieldName("name"))),
					Alias: x.text(spec.ChildByFieldName("alias")),
					Span:  span(spec),
				})
			}
		}
	}
}

func (x *extractor) exportStatement(n *sitter.Node) {
	isDefault := false
	star := false
	var clause, nsExport *sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "default":
			isDefault = true
		case "*":
			star = true
		case "export_clause":
			clause = c
		case "namespace_export":
			nsExport = c
		}
	}
	source := ""
	if s := n.ChildByFieldName("source"); s != nil {
		source = unquote(x.text(s))
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		for _, name := range x.declaration(decl, true) {
			exported := name
			if isDefault {
				exported = "default"
			}
			x.file.Exports = append(x.file.Exports, &Export{Name: exported, LocalName: name, Default: isDefault, Span: span(n)})
		}
		return
	}

	switch {
	case clause != nil:
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			spec := clause.NamedChild(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			local := unquote(x.text(spec.ChildByFieldName("name")))
			name := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				name = unquote(x.text(alias))
			}
			x.file.Exports = append(x.file.Exports, &Export{Name: name, LocalName: local, Source: source, Span: span(spec)})
		}
	case nsExport != nil:
		name := ""
		for i := uint(0); i < nsExport.NamedChildCount(); i++ {
			name = x.text(nsExport.NamedChild(i))
		}
		x.file.Exports = append(x.file.Exports, &Export{Name: name, LocalName: "*", Source: source, Span: span(n)})
	case star && source != "":
		x.file.Exports = append(x.file.Exports, &Export{Star: true, Source: source, Span: span(n)})
	case isDefault:
		if v := n.ChildByFieldName("value"); v != nil && v.Kind() == "identifier" {
			x.file.Exports = append(x.file.Exports, &Export{Name: "default", LocalName: x.text(v), Default: true, Span: span(n)})
		}
	}
}

// declaration records the top-level names a statement declares and returns
// them. Classes are collected separately by classesIn.
func (x *extractor) declaration(n *sitter.Node, exported bool) []string {
	switch n.Kind() {
	case "class_declaration", "abstract_class_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			return []string{x.text(name)}
		}
	case "interface_declaration":
		if iface := x.interfaceDecl(n, exported); iface != nil {
			x.file.Interfaces = append(x.file.Interfaces, iface)
			return []string{iface.Name}
		}
	case "type_alias_declaration":
		if alias := x.typeAlias(n, exported); alias != nil {
			x.file.TypeAliases = append(x.file.TypeAliases, alias)
			return []string{alias.Name}
		}
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := uint(0); i < n.NamedChildCount(); i++ {
			d := n.NamedChild(i)
			if d.Kind() != "variable_declarator" {
				continue
			}
			if id := d.ChildByFieldName("name"); id != nil && id.Kind() == "identifier" {
				x.addLocal(id, "variable", exported)
				names = append(names, x.text(id))
			}
		}
		return names
	case "function_declaration", "generator_function_declaration", "function_signature":
		if id := n.ChildByFieldName("name"); id != nil {
			x.addLocal(id, "function", exported)
			return []string{x.text(id)}
		}
	case "enum_declaration":
		if id := n.ChildByFieldName("name"); id != nil {
			x.addLocal(id, "enum", exported)
			return []string{x.text(id)}
		}
	case "ambient_declaration":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if names := x.declaration(n.NamedChild(i), exported); len(names) > 0 {
				return names
			}
		}
	}
	return nil
}

func (x *extractor) addLocal(id *sitter.Node, kind string, exported bool) {
	x.file.Locals = append(x.file.Locals, &Local{Name: x.text(id), NameSpan: span(id), Kind: kind, Exported: exported})
}

// classesIn collects every named class declaration under n.
func (x *extractor) classesIn(n *sitter.Node) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "class_declaration", "abstract_class_declaration":
			if cls := x.class(c); cls != nil {
				x.file.Classes = append(x.file.Classes, cls)
			}
		}
		x.classesIn(c)
	}
}

func (x *extractor) class(n *sitter.Node) *Class {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	outer := declarationWrapper(n)
	cls := &Class{
		Name:        x.text(name),
		NameSpan:    span(name),
		Span:        span(n),
		Abstract:    n.Kind() == "abstract_class_declaration",
		TopLevel:    outer.Parent() != nil && outer.Parent().Kind() == "program",
		Exported:    outer.Kind() == "export_statement",
		Description: x.description(outer),
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		if h := n.NamedChild(i); h.Kind() == "class_heritage" {
			x.heritage(h, cls)
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			if m := x.member(body.NamedChild(i)); m != nil {
				cls.Members = append(cls.Members, m)
			}
		}
	}
	return cls
}

func (x *extractor) heritage(h *sitter.Node, cls *Class) {
	for i := uint(0); i < h.NamedChildCount(); i++ {
		c := h.NamedChild(i)
		switch c.Kind() {
		case "extends_clause":
			if cls.Extends != "" {
				continue
			}
			if v := c.ChildByFieldName("value"); v != nil {
				cls.Extends, cls.ExtendsSpan = x.heritageName(v)
				cls.ExtendsTypeArgs = append(cls.ExtendsTypeArgs, x.typeArgs(v)...)
			}
			if args := c.ChildByFieldName("type_arguments"); args != nil {
				cls.ExtendsTypeArgs = append(cls.ExtendsTypeArgs, x.typeArgList(args)...)
			}
		case "implements_clause":
			for j := uint(0); j < c.NamedChildCount(); j++ {
				t := c.NamedChild(j)
				name, _ := x.heritageName(t)
				cls.Implements = append(cls.Implements, name)
			}
		default:
			// javascript grammar: `extends` followed directly by an expression
			if cls.Extends == "" {
				cls.Extends, cls.ExtendsSpan = x.heritageName(c)
			}
		}
	}
}

// heritageName strips type arguments from a heritage expression.
func (x *extractor) heritageName(n *sitter.Node) (string, Span) {
	switch n.Kind() {
	case "generic_type", "instantiation_expression":
		if inner := n.NamedChild(0); inner != nil {
			return x.heritageName(inner)
		}
	}
	return x.text(n), span(n)
}

func (x *extractor) typeArgs(n *sitter.Node) []string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c.Kind() == "type_arguments" {
			return x.typeArgList(c)
		}
	}
	return nil
}

func (x *extractor) typeArgList(n *sitter.Node) []string {
	var args []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		args = append(args, x.text(n.NamedChild(i)))
	}
	return args
}

func (x *extractor) member(n *sitter.Node) *Member {
	var nameNode *sitter.Node
	m := &Member{Span: span(n), Access: "public"}

	switch n.Kind() {
	case "public_field_definition":
		nameNode = n.ChildByFieldName("name")
		m.Kind = MemberField
	case "field_definition":
		nameNode = n.ChildByFieldName("property")
		m.Kind = MemberField
	case "method_definition", "method_signature":
		nameNode = n.ChildByFieldName("name")
		m.Kind = MemberMethod
	default:
		return nil
	}
	if nameNode == nil || nameNode.Kind() == "computed_property_name" {
		return nil
	}
	m.Name = unquote(x.text(nameNode))
	m.NameSpan = span(nameNode)
	if nameNode.Kind() == "private_property_identifier" {
		m.Access = "private"
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "accessibility_modifier":
			m.Access = x.text(c)
		case "static":
			m.Static = true
		case "readonly":
			m.Readonly = true
		case "?":
			m.Optional = true
		case "get":
			if m.Kind == MemberMethod {
				m.Kind = MemberGetter
			}
		case "set":
			if m.Kind == MemberMethod {
				m.Kind = MemberSetter
			}
		}
	}

	switch m.Kind {
	case MemberField:
		if annot := n.ChildByFieldName("type"); annot != nil {
			m.Type = typeText(x.text(annot))
			m.TypeLiteral = x.typeLiteral(annot)
		}
	case MemberGetter:
		if ret := n.ChildByFieldName("return_type"); ret != nil {
			m.Type = typeText(x.text(ret))
		}
	case MemberSetter:
		m.Type = x.setterType(n)
	case MemberMethod:
		m.Params = x.params(n)
	}
	m.Description = x.description(n)
	return m
}

func (x *extractor) params(n *sitter.Node) []*Param {
	list := n.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var out []*Param
	for i := uint(0); i < list.NamedChildCount(); i++ {
		c := list.NamedChild(i)
		if c.Kind() != "required_parameter" && c.Kind() != "optional_parameter" {
			continue
		}
		p := &Param{Optional: c.Kind() == "optional_parameter"}
		if pattern := c.ChildByFieldName("pattern"); pattern != nil {
			p.Name = x.text(pattern)
		}
		if annot := c.ChildByFieldName("type"); annot != nil {
			raw := x.text(annot)
			p.Type = typeText(raw)
			start := int(annot.StartByte()) + strings.Index(raw, p.Type)
			p.TypeSpan = Span{Start: start, End: start + len(p.Type)}
		}
		out = append(out, p)
	}
	return out
}

func (x *extractor) setterType(n *sitter.Node) string {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if annot := p.ChildByFieldName("type"); annot != nil {
			return typeText(x.text(annot))
		}
		return ""
	}
	return ""
}

func (x *extractor) typeLiteral(annot *sitter.Node) []*PropertySignature {
	for i := uint(0); i < annot.NamedChildCount(); i++ {
		if t := annot.NamedChild(i); t.Kind() == "object_type" {
			return x.propertySignatures(t)
		}
	}
	return nil
}

func (x *extractor) propertySignatures(body *sitter.Node) []*PropertySignature {
	var props []*PropertySignature
	for i := uint(0); i < body.NamedChildCount(); i++ {
		c := body.NamedChild(i)
		if c.Kind() != "property_signature" {
			continue
		}
		name := c.ChildByFieldName("name")
		if name == nil {
			continue
		}
		p := &PropertySignature{
			Name:        unquote(x.text(name)),
			NameSpan:    span(name),
			Span:        span(c),
			Description: x.description(c),
		}
		if annot := c.ChildByFieldName("type"); annot != nil {
			p.Type = typeText(x.text(annot))
		}
		for j := uint(0); j < c.ChildCount(); j++ {
			if c.Child(j).Kind() == "?" {
				p.Optional = true
			}
		}
		props = append(props, p)
	}
	return props
}

func (x *extractor) interfaceDecl(n *sitter.Node, exported bool) *Interface {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	iface := &Interface{
		Name:        x.text(name),
		NameSpan:    span(name),
		Span:        span(n),
		Exported:    exported,
		Description: x.description(declarationWrapper(n)),
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "extends_type_clause" {
			for j := uint(0); j < c.NamedChildCount(); j++ {
				ext, _ := x.heritageName(c.NamedChild(j))
				iface.Extends = append(iface.Extends, ext)
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		iface.Properties = x.propertySignatures(body)
	}
	return iface
}

func (x *extractor) typeAlias(n *sitter.Node, exported bool) *TypeAlias {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil {
		return nil
	}
	alias := &TypeAlias{
		Name:        x.text(name),
		NameSpan:    span(name),
		Exported:    exported,
		Type:        x.text(value),
		Description: x.description(declarationWrapper(n)),
	}
	if value.Kind() == "object_type" {
		alias.Properties = x.propertySignatures(value)
	}
	return alias
}

func (x *extractor) templates(query *sitter.Query, root *sitter.Node) {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, x.src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag, literal *sitter.Node
		for _, capture := range match.Captures {
			node := capture.Node
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tag = &node
			case "template":
				literal = &node
			}
		}
		if tag == nil || literal == nil {
			continue
		}
		x.file.Templates = append(x.file.Templates, x.template(tag, literal))
	}
}

func (x *extractor) template(tag, literal *sitter.Node) *Template {
	t := &Template{
		Tag:     x.text(tag),
		TagSpan: span(tag),
		Span:    span(literal),
	}
	pos := t.Span.Start + 1
	for i := uint(0); i < literal.NamedChildCount(); i++ {
		c := literal.NamedChild(i)
		if c.Kind() != "template_substitution" {
			continue
		}
		sub := &Substitution{Span: span(c)}
		if expr := c.NamedChild(0); expr != nil {
			sub.Expr = span(expr)
			sub.Text = x.text(expr)
		} else {
			sub.Expr = Span{Start: sub.Span.Start + 2, End: sub.Span.End - 1}
		}
		t.Quasis = append(t.Quasis, Span{Start: pos, End: sub.Span.Start})
		t.Values = append(t.Values, sub)
		pos = sub.Span.End
	}
	t.Quasis = append(t.Quasis, Span{Start: pos, End: t.Span.End - 1})
	return t
}

// declarationWrapper returns the export or ambient statement owning n, which
// is where leading comments attach.
func declarationWrapper(n *sitter.Node) *sitter.Node {
	for {
		parent := n.Parent()
		if parent == nil {
			return n
		}
		switch parent.Kind() {
		case "export_statement", "ambient_declaration":
			n = parent
		default:
			return n
		}
	}
}

// description joins the comments directly above n.
func (x *extractor) description(n *sitter.Node) string {
	var comments []string
	for prev := n.PrevSibling(); prev != nil && prev.Kind() == "comment"; prev = prev.PrevSibling() {
		comments = append([]string{cleanComment(x.text(prev))}, comments...)
		if strings.HasPrefix(x.text(prev), "/*") {
			break
		}
	}
	return strings.TrimSpace(strings.Join(comments, "\n"))
}

func cleanComment(c string) string {
	if rest, ok := strings.CutPrefix(c, "//"); ok {
		return strings.TrimSpace(rest)
	}
	c = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(c, "/**"), "/*"), "*/")
	lines := strings.Split(c, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func typeText(annotation string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(annotation), ":"))
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

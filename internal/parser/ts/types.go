package ts

// Span is a half-open byte range in a source file.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls in the span, end included.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

func (s Span) Len() int { return s.End - s.Start }

// File holds the syntax facts extracted from one host source file. Nothing
// in it refers to the tree-sitter tree, which is closed once extraction ends.
type File struct {
	Imports     []*Import
	Exports     []*Export
	Classes     []*Class
	Interfaces  []*Interface
	TypeAliases []*TypeAlias
	// Locals lists other top-level names: variables, functions and enums.
	Locals     []*Local
	Templates  []*Template
	Statements []Statement
	HasErrors  bool
}

// Statement is a top-level statement, used to place inserted imports.
type Statement struct {
	Kind string
	Span Span
}

// Import is an import declaration.
type Import struct {
	Span       Span
	Source     string
	SourceSpan Span
	TypeOnly   bool

	Default     string
	DefaultSpan Span
	Namespace   string

	// Named is nil without braces, and empty for `import {} from`.
	Named []*ImportSpecifier
	// NamedSpan covers the braces when present.
	NamedSpan *Span
}

// ImportSpecifier is one `name` or `name as alias` entry.
type ImportSpecifier struct {
	Name  string
	Alias string
	Span  Span
}

// LocalName is the name the specifier binds in the importing file.
func (s *ImportSpecifier) LocalName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Export is one exported name. Re-exports carry Source; `export * from`
// sets Star with an empty Name.
type Export struct {
	Name      string
	LocalName string
	Source    string
	Star      bool
	Default   bool
	Span      Span
}

// Class is a class declaration at any nesting level.
type Class struct {
	Name        string
	NameSpan    Span
	Span        Span
	TopLevel    bool
	Exported    bool
	Abstract    bool
	Description string

	// Extends is the heritage expression text, like `Component` or `ns.Component`.
	Extends         string
	ExtendsSpan     Span
	ExtendsTypeArgs []string
	Implements      []string

	Members []*Member
}

// Member returns the first member with the given name.
func (c *Class) Member(name string) *Member {
	for _, m := range c.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MemberKind tells fields from methods and accessors.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberGetter
	MemberSetter
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberGetter:
		return "getter"
	case MemberSetter:
		return "setter"
	}
	return "unknown"
}

// Member is a class field, method or accessor.
type Member struct {
	Name     string
	NameSpan Span
	Span     Span
	Kind     MemberKind
	// Access is "public", "protected" or "private". Hash names are private.
	Access      string
	Static      bool
	Readonly    bool
	Optional    bool
	Type        string
	Description string
	// TypeLiteral holds the members of an inline object type annotation.
	TypeLiteral []*PropertySignature
	// Params are the parameters of a method.
	Params []*Param
}

// Param is a method parameter. TypeSpan is empty without an annotation.
type Param struct {
	Name     string
	Type     string
	TypeSpan Span
	Optional bool
}

// Interface is an interface declaration.
type Interface struct {
	Name        string
	NameSpan    Span
	Span        Span
	Exported    bool
	Description string
	Extends     []string
	Properties  []*PropertySignature
}

// PropertySignature is a `name?: Type` entry of an interface or type literal.
type PropertySignature struct {
	Name        string
	NameSpan    Span
	Span        Span
	Type        string
	Optional    bool
	Description string
}

// TypeAlias is a `type Name = ...` declaration.
type TypeAlias struct {
	Name        string
	NameSpan    Span
	Exported    bool
	Type        string
	Description string
	// Properties is set when the aliased type is an object literal type.
	Properties []*PropertySignature
}

// Local is a top-level value binding other than a class.
type Local struct {
	Name     string
	NameSpan Span
	Kind     string
	Exported bool
}

// Template is a tagged template literal like html`...`.
type Template struct {
	Tag     string
	TagSpan Span
	// Span covers the literal including both backticks.
	Span   Span
	Quasis []Span
	Values []*Substitution
}

// ContentSpan is the text between the backticks.
func (t *Template) ContentSpan() Span {
	return Span{Start: t.Span.Start + 1, End: t.Span.End - 1}
}

// Substitution is one ${...} hole.
type Substitution struct {
	// Span covers `${` through `}`.
	Span Span
	Expr Span
	Text string
}

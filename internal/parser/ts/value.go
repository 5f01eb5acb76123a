package ts

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ValueKind classifies an interpolated expression.
type ValueKind int

const (
	ValueOther ValueKind = iota
	ValueObject
	ValueArray
	ValueIdentifier
)

// Value is the literal shape of an expression: the keys of object literals
// and the items of array literals, down to any depth. Spans are relative to
// the parsed text.
type Value struct {
	Kind    ValueKind
	Span    Span
	Entries []*Entry
	Items   []*Value
	// Spreads are the `...rest` items of an array literal.
	Spreads []*Value
}

// Entry is one key of an object literal. Value is nil for methods.
type Entry struct {
	Key     string
	KeySpan Span
	Value   *Value
	// Shorthand is set for `{key}`, whose value is the key itself.
	Shorthand bool
}

// EntryAt returns the innermost entry whose key contains offset.
func (v *Value) EntryAt(offset int) (*Entry, bool) {
	if v == nil {
		return nil, false
	}
	for _, e := range v.Entries {
		if e.KeySpan.Contains(offset) {
			return e, true
		}
		if e.Value != nil && !e.Shorthand && e.Value.Span.Contains(offset) {
			return e.Value.EntryAt(offset)
		}
	}
	for _, items := range [][]*Value{v.Items, v.Spreads} {
		for _, item := range items {
			if item.Span.Contains(offset) {
				return item.EntryAt(offset)
			}
		}
	}
	return nil, false
}

// valuePrefix turns an expression into a statement that cannot read as a
// block.
const valuePrefix = "("

// ParseValues parses the text of an interpolation. Parentheses around the
// whole expression are dropped and a comma list yields one Value per item.
func ParseValues(text string) ([]*Value, error) {
	p := AcquireParser(DialectTypeScript)
	defer ReleaseParser(p)

	src := []byte(valuePrefix + text + "\n)")
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("expression parse returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.NamedChildCount() == 0 {
		return nil, nil
	}
	stmt := root.NamedChild(0)
	if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
		return nil, nil
	}
	x := &valueExtractor{src: src, base: len(valuePrefix)}
	expr := unwrapParens(stmt.NamedChild(0))
	var out []*Value
	for _, item := range sequence(expr) {
		out = append(out, x.value(item))
	}
	return out, nil
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}
	return n
}

// sequence flattens `a, b, c`.
func sequence(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	if n.Kind() != "sequence_expression" {
		return []*sitter.Node{n}
	}
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "comment" {
			continue
		}
		out = append(out, sequence(c)...)
	}
	return out
}

type valueExtractor struct {
	src  []byte
	base int
}

func (x *valueExtractor) span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()) - x.base, End: int(n.EndByte()) - x.base}
}

func (x *valueExtractor) text(n *sitter.Node) string {
	return string(x.src[n.StartByte():n.EndByte()])
}

func (x *valueExtractor) value(n *sitter.Node) *Value {
	n = unwrapParens(n)
	v := &Value{Span: x.span(n)}
	switch n.Kind() {
	case "object":
		v.Kind = ValueObject
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if e := x.entry(n.NamedChild(i)); e != nil {
				v.Entries = append(v.Entries, e)
			}
		}
	case "array":
		v.Kind = ValueArray
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			switch c.Kind() {
			case "comment":
			case "spread_element":
				if c.NamedChildCount() > 0 {
					v.Spreads = append(v.Spreads, x.value(c.NamedChild(0)))
				}
			default:
				v.Items = append(v.Items, x.value(c))
			}
		}
	case "identifier":
		v.Kind = ValueIdentifier
	}
	return v
}

func (x *valueExtractor) entry(n *sitter.Node) *Entry {
	switch n.Kind() {
	case "shorthand_property_identifier":
		s := x.span(n)
		return &Entry{
			Key:       x.text(n),
			KeySpan:   s,
			Value:     &Value{Kind: ValueIdentifier, Span: s},
			Shorthand: true,
		}
	case "pair":
		key := n.ChildByFieldName("key")
		if key == nil || key.Kind() == "computed_property_name" {
			return nil
		}
		e := &Entry{Key: unquote(x.text(key)), KeySpan: x.span(key)}
		if value := n.ChildByFieldName("value"); value != nil {
			e.Value = x.value(value)
		}
		return e
	case "method_definition":
		name := n.ChildByFieldName("name")
		if name == nil || name.Kind() == "computed_property_name" {
			return nil
		}
		return &Entry{Key: unquote(x.text(name)), KeySpan: x.span(name)}
	}
	return nil
}

// typeLiteralPrefix makes an inline object type parse as an alias.
const typeLiteralPrefix = "type T = "

// ParseTypeLiteral returns the properties of an inline object type like
// `{a: number, b?: string}`. Spans are relative to text.
func ParseTypeLiteral(text string) []*PropertySignature {
	p := AcquireParser(DialectTypeScript)
	defer ReleaseParser(p)

	f, err := p.Parse([]byte(typeLiteralPrefix + text))
	if err != nil || len(f.TypeAliases) == 0 {
		return nil
	}
	props := f.TypeAliases[0].Properties
	shift := len(typeLiteralPrefix)
	for _, prop := range props {
		prop.NameSpan = Span{Start: prop.NameSpan.Start - shift, End: prop.NameSpan.End - shift}
		prop.Span = Span{Start: prop.Span.Start - shift, End: prop.Span.End - shift}
	}
	return props
}

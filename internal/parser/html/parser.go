// Package html parses template markup into a lightweight node tree.
package html

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// Parser wraps a pooled tree-sitter HTML parser.
type Parser struct {
	parser *sitter.Parser
}

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser takes a parser from the pool.
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns p to the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close frees the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool drains and closes pooled parsers at shutdown.
func ClosePool() {
	for range 32 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse is a convenience wrapper around a pooled parser.
func Parse(source string) *Document {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Parse(source)
}

// Parse never fails: input the grammar rejects becomes NodeError subtrees.
func (p *Parser) Parse(source string) *Document {
	src := []byte(source)
	doc := &Document{
		Source: source,
		Root:   &Node{Kind: NodeDocument, Span: Span{0, len(source)}},
	}
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		doc.HasErrors = true
		return doc
	}
	defer tree.Close()

	root := tree.RootNode()
	doc.HasErrors = root.HasError()
	b := builder{src: src}
	b.children(root, doc.Root)
	return doc
}

type builder struct {
	src []byte
}

func (b *builder) text(n *sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

func span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (b *builder) children(n *sitter.Node, parent *Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := b.node(n.Child(i)); child != nil {
			child.Parent = parent
			parent.Children = append(parent.Children, child)
		}
	}
}

func (b *builder) node(n *sitter.Node) *Node {
	switch {
	case n.IsError():
		errNode := &Node{Kind: NodeError, Span: span(n)}
		b.children(n, errNode)
		return errNode
	case n.IsMissing():
		return nil
	}

	switch n.Kind() {
	case "element", "script_element", "style_element":
		return b.element(n)
	case "start_tag", "self_closing_tag":
		// a tag the grammar could not pair, usually inside an ERROR node
		el := &Node{Kind: NodeElement, Span: span(n)}
		b.startTag(n, el)
		return el
	case "text", "entity":
		return &Node{Kind: NodeText, Span: span(n)}
	case "comment":
		return &Node{Kind: NodeComment, Span: span(n)}
	case "doctype", "end_tag", "erroneous_end_tag":
		return nil
	}
	if n.IsNamed() {
		return &Node{Kind: NodeText, Span: span(n)}
	}
	return nil
}

func (b *builder) element(n *sitter.Node) *Node {
	el := &Node{Kind: NodeElement, Span: span(n)}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "start_tag", "self_closing_tag":
			b.startTag(c, el)
		case "end_tag", "erroneous_end_tag":
		case "raw_text":
			s := span(c)
			el.RawText = &s
		default:
			if child := b.node(c); child != nil {
				child.Parent = el
				el.Children = append(el.Children, child)
			}
		}
	}
	return el
}

func (b *builder) startTag(n *sitter.Node, el *Node) {
	el.StartTag = span(n)
	el.SelfClosing = n.Kind() == "self_closing_tag"
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "tag_name":
			el.Tag = b.text(c)
			el.TagSpan = span(c)
		case "attribute":
			el.Attributes = append(el.Attributes, b.attribute(c))
		}
	}
}

func (b *builder) attribute(n *sitter.Node) *Attribute {
	attr := &Attribute{Span: span(n)}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "attribute_name":
			attr.Name = b.text(c)
			attr.NameSpan = span(c)
		case "attribute_value":
			s := span(c)
			attr.Value, attr.ValueSpan = b.text(c), &s
		case "quoted_attribute_value":
			attr.Quoted = true
			// the grammar omits attribute_value for empty quotes
			s := Span{Start: int(c.StartByte()) + 1, End: int(c.EndByte()) - 1}
			if s.End < s.Start {
				s.End = s.Start
			}
			attr.ValueSpan = &s
			attr.Value = string(b.src[s.Start:s.End])
		}
	}
	return attr
}

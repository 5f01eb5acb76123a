package html

// Span is a half-open byte range in the parsed content.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls in the span, end included.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

// NodeKind classifies markup nodes.
type NodeKind int

const (
	NodeDocument NodeKind = iota
	NodeElement
	NodeText
	NodeComment
	// NodeError wraps input the grammar could not place. Its children hold
	// whatever well-formed pieces were recovered inside it.
	NodeError
)

func (k NodeKind) String() string {
	switch k {
	case NodeDocument:
		return "document"
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	case NodeComment:
		return "comment"
	case NodeError:
		return "error"
	}
	return "unknown"
}

// Node is one markup node. Element fields are zero for other kinds.
type Node struct {
	Kind     NodeKind
	Span     Span
	Parent   *Node
	Children []*Node

	Tag         string
	TagSpan     Span
	StartTag    Span
	SelfClosing bool
	Attributes  []*Attribute
	// RawText is the body of <style> and <script> elements.
	RawText *Span
}

// Attribute is one attribute of a start tag.
type Attribute struct {
	Name     string
	NameSpan Span
	Span     Span
	// Value excludes quotes. ValueSpan is nil for bare attributes.
	Value     string
	ValueSpan *Span
	Quoted    bool
}

// Document is a parsed markup fragment.
type Document struct {
	Root      *Node
	Source    string
	HasErrors bool
}

// Walk visits nodes depth first in document order until fn returns false.
func (d *Document) Walk(fn func(*Node) bool) {
	var visit func(*Node) bool
	visit = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(d.Root)
}

// ElementAt returns the innermost element whose span contains offset.
func (d *Document) ElementAt(offset int) *Node {
	var found *Node
	d.Walk(func(n *Node) bool {
		if n.Kind == NodeElement && n.Span.Contains(offset) {
			found = n
		}
		return true
	})
	return found
}

// Elements lists every element in document order.
func (d *Document) Elements() []*Node {
	var out []*Node
	d.Walk(func(n *Node) bool {
		if n.Kind == NodeElement {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Attribute returns the first attribute with the exact name.
func (n *Node) Attribute(name string) *Attribute {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

package template

import (
	"strings"

	"bennypowers.dev/lupls/internal/parser/html"
)

// PartKind classifies a template part.
type PartKind int

const (
	// PartStartTag is a bare `<` waiting for a tag name.
	PartStartTag PartKind = iota
	PartTag
	PartControlFlow
	PartBinding
	PartProperty
	PartEvent
	PartComponentEvent
	PartBooleanAttribute
	PartAttribute
	PartText
)

var partKindNames = [...]string{
	PartStartTag:         "start-tag",
	PartTag:              "tag",
	PartControlFlow:      "control-flow",
	PartBinding:          "binding",
	PartProperty:         "property",
	PartEvent:            "event",
	PartComponentEvent:   "component-event",
	PartBooleanAttribute: "boolean-attribute",
	PartAttribute:        "attribute",
	PartText:             "text",
}

func (k PartKind) String() string {
	if int(k) < len(partKindNames) {
		return partKindNames[k]
	}
	return "unknown"
}

// IsAttribute reports whether the kind is one of the attribute classes.
func (k PartKind) IsAttribute() bool {
	return k >= PartBinding && k <= PartAttribute
}

// Part is a classified fragment of a template. Offsets are virtual.
type Part struct {
	Kind      PartKind
	RawName   string
	Prefix    string
	MainName  string
	Modifiers []string

	Start   int
	End     int
	NameEnd int

	// ValueStart and ValueEnd exclude quotes; both are -1 without a value.
	ValueStart   int
	ValueEnd     int
	ValueQuoted  bool
	ValueIndices []int

	Node *html.Node
	Attr *html.Attribute
}

// HasValue reports whether the attribute carries `=value`.
func (p *Part) HasValue() bool { return p.ValueStart >= 0 }

// InName reports whether offset lies within the raw name.
func (p *Part) InName(offset int) bool {
	return p.Start <= offset && offset <= p.NameEnd
}

// InValue reports whether offset lies within the value.
func (p *Part) InValue(offset int) bool {
	return p.HasValue() && p.ValueStart <= offset && offset <= p.ValueEnd
}

// ModifierIndexAt returns which modifier offset falls in, or -1 when it is
// in the prefix or main name.
func (p *Part) ModifierIndexAt(offset int) int {
	pos := p.Start + len(p.Prefix) + len(p.MainName)
	for i, mod := range p.Modifiers {
		// skip the dot
		pos++
		if offset >= pos && offset <= pos+len(mod) {
			return i
		}
		pos += len(mod)
	}
	return -1
}

// ModifierStart is the virtual offset of modifier i.
func (p *Part) ModifierStart(i int) int {
	pos := p.Start + len(p.Prefix) + len(p.MainName)
	for j := 0; j <= i && j < len(p.Modifiers); j++ {
		pos++
		if j == i {
			return pos
		}
		pos += len(p.Modifiers[j])
	}
	return pos
}

// TagName is the owning element's tag.
func (p *Part) TagName() string {
	if p.Node == nil {
		return ""
	}
	return p.Node.Tag
}

// IsComponentTag reports whether a tag names a component class.
func IsComponentTag(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// IsControlFlowTag reports whether a tag is an `lu:` directive.
func IsControlFlowTag(tag string) bool {
	return strings.HasPrefix(tag, "lu:")
}

// IsDynamicComponentTag reports whether the tag is a `<${Class}>` slot.
func IsDynamicComponentTag(tag string) bool {
	return IsPlaceholder(tag)
}

var attributePrefixes = []struct {
	prefix string
	kind   PartKind
}{
	{"@@", PartComponentEvent},
	{"@", PartEvent},
	{":", PartBinding},
	{".", PartProperty},
	// `?:binding=${condition, value}` updates only while condition holds
	{"?:", PartBinding},
	{"?", PartBooleanAttribute},
}

// SplitAttributeName decodes `prefix main.mod1.mod2`.
func SplitAttributeName(raw string) (kind PartKind, prefix, main string, modifiers []string) {
	kind = PartAttribute
	rest := raw
	for _, ap := range attributePrefixes {
		if strings.HasPrefix(raw, ap.prefix) {
			kind, prefix, rest = ap.kind, ap.prefix, raw[len(ap.prefix):]
			break
		}
	}
	if kind == PartAttribute {
		return kind, "", raw, nil
	}
	pieces := strings.Split(rest, ".")
	return kind, prefix, pieces[0], pieces[1:]
}

// ParseParts scans the markup tree in document order. Regions the grammar
// could not place are rescanned lexically and otherwise kept as opaque text.
func ParseParts(doc *html.Document) []*Part {
	s := partScanner{src: doc.Source}
	for _, child := range doc.Root.Children {
		s.node(child)
	}
	return s.parts
}

type partScanner struct {
	src   string
	parts []*Part
}

func (s *partScanner) node(n *html.Node) {
	switch n.Kind {
	case html.NodeElement:
		s.element(n)
		for _, c := range n.Children {
			s.node(c)
		}
	case html.NodeText:
		s.text(n.Span.Start, n.Span.End)
	case html.NodeError:
		s.errorNode(n)
	}
}

func (s *partScanner) text(start, end int) {
	if start >= end {
		return
	}
	s.parts = append(s.parts, &Part{
		Kind:       PartText,
		Start:      start,
		End:        end,
		NameEnd:    start,
		ValueStart: -1,
		ValueEnd:   -1,
	})
}

func (s *partScanner) element(n *html.Node) {
	if n.Tag != "" {
		kind := PartTag
		if IsControlFlowTag(n.Tag) {
			kind = PartControlFlow
		}
		s.parts = append(s.parts, &Part{
			Kind:         kind,
			RawName:      n.Tag,
			MainName:     n.Tag,
			Start:        n.TagSpan.Start,
			End:          n.TagSpan.End,
			NameEnd:      n.TagSpan.End,
			ValueStart:   -1,
			ValueEnd:     -1,
			ValueIndices: ParseSlotIndices(n.Tag),
			Node:         n,
		})
	}
	for _, attr := range n.Attributes {
		s.parts = append(s.parts, attributePart(n, attr))
	}
}

func attributePart(n *html.Node, attr *html.Attribute) *Part {
	kind, prefix, main, mods := SplitAttributeName(attr.Name)
	p := &Part{
		Kind:       kind,
		RawName:    attr.Name,
		Prefix:     prefix,
		MainName:   main,
		Modifiers:  mods,
		Start:      attr.Span.Start,
		End:        attr.Span.End,
		NameEnd:    attr.NameSpan.End,
		ValueStart: -1,
		ValueEnd:   -1,
		Node:       n,
		Attr:       attr,
	}
	if attr.ValueSpan != nil {
		p.ValueStart, p.ValueEnd = attr.ValueSpan.Start, attr.ValueSpan.End
		p.ValueQuoted = attr.Quoted
		p.ValueIndices = ParseSlotIndices(attr.Value)
		if attr.Quoted && p.End < attr.ValueSpan.End+1 {
			p.End = attr.ValueSpan.End + 1
		}
	} else {
		// `<div ${attrs}>` spreads a value in attribute position
		p.ValueIndices = ParseSlotIndices(attr.Name)
	}
	return p
}

// errorNode keeps recovered elements and scans the gaps between them.
func (s *partScanner) errorNode(n *html.Node) {
	pos := n.Span.Start
	for _, c := range n.Children {
		if c.Kind == html.NodeText || c.Kind == html.NodeComment {
			continue
		}
		if c.Span.Start > pos {
			s.scanGap(pos, c.Span.Start)
		}
		s.node(c)
		pos = max(pos, c.Span.End)
	}
	if pos < n.Span.End {
		s.scanGap(pos, n.Span.End)
	}
}

// scanGap emits an opaque text part for the gap plus any tags the lexical
// scanner finds in it.
func (s *partScanner) scanGap(start, end int) {
	s.text(start, end)
	for _, el := range scanTags(s.src, start, end) {
		s.element(el)
	}
}

// scanTags is a lexical fallback for tags inside unparseable input, such as a
// start tag still being typed.
func scanTags(src string, start, end int) []*html.Node {
	var out []*html.Node
	i := start
	for i < end {
		if src[i] != '<' || i+1 >= end || !isTagStart(src[i+1]) {
			i++
			continue
		}
		nameStart := i + 1
		j := nameStart
		for j < end && isTagChar(src[j]) {
			j++
		}
		el := &html.Node{
			Kind:     html.NodeElement,
			Tag:      src[nameStart:j],
			TagSpan:  html.Span{Start: nameStart, End: j},
			StartTag: html.Span{Start: i, End: j},
		}
		j = scanAttributes(src, j, end, el)
		el.StartTag.End = j
		el.Span = el.StartTag
		out = append(out, el)
		i = j
	}
	return out
}

func scanAttributes(src string, i, end int, el *html.Node) int {
	for i < end {
		for i < end && isSpace(src[i]) {
			i++
		}
		if i >= end {
			return i
		}
		switch src[i] {
		case '>':
			return i + 1
		case '<':
			return i
		case '/':
			i++
			continue
		}
		nameStart := i
		for i < end && !isSpace(src[i]) && !strings.ContainsRune("=<>/\"'", rune(src[i])) {
			i++
		}
		if i == nameStart {
			i++
			continue
		}
		attr := &html.Attribute{
			Name:     src[nameStart:i],
			NameSpan: html.Span{Start: nameStart, End: i},
			Span:     html.Span{Start: nameStart, End: i},
		}
		if i < end && src[i] == '=' {
			i++
			if i < end && (src[i] == '"' || src[i] == '\'') {
				q := src[i]
				vs := i + 1
				ve := vs
				for ve < end && src[ve] != q {
					ve++
				}
				attr.Quoted = true
				attr.ValueSpan = &html.Span{Start: vs, End: ve}
				attr.Value = src[vs:ve]
				i = min(ve+1, end)
			} else {
				vs := i
				for i < end && !isSpace(src[i]) && src[i] != '>' && src[i] != '<' {
					i++
				}
				attr.ValueSpan = &html.Span{Start: vs, End: i}
				attr.Value = src[vs:i]
			}
			attr.Span.End = i
		}
		el.Attributes = append(el.Attributes, attr)
	}
	return i
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagChar(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '-' || c == ':' || c == '_' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isWordChar(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '_'
}

// Package template turns tagged template literals into virtual documents:
// placeholder-substituted content, an offset mapper, classified parts and
// embedded style regions.
package template

import (
	"bennypowers.dev/lupls/internal/parser/html"
	"bennypowers.dev/lupls/internal/parser/ts"
)

// Tags recognised by default.
var DefaultTags = []string{"html", "css", "svg"}

// Template is the virtual document of one tagged literal.
type Template struct {
	Tag     string
	Path    string
	Literal *ts.Template
	Content string
	Mapper  *Mapper
	// Document is nil for css literals.
	Document *html.Document
	Parts    []*Part
	Regions  *Regions

	values []string
}

// New builds the virtual document for lit, a literal of the file at path.
func New(path, hostText string, lit *ts.Template) *Template {
	content, mapper := Virtualize(hostText, lit)
	t := &Template{
		Tag:     lit.Tag,
		Path:    path,
		Literal: lit,
		Content: content,
		Mapper:  mapper,
	}
	for _, v := range lit.Values {
		t.values = append(t.values, v.Text)
	}
	if t.Tag != "css" {
		t.Document = html.Parse(content)
		t.Parts = ParseParts(t.Document)
	}
	t.Regions = NewRegions(t.Tag, content, t.Document)
	return t
}

// HostStart is the host offset of the first content byte.
func (t *Template) HostStart() int { return t.Literal.ContentSpan().Start }

// HostEnd is the host offset just past the last content byte.
func (t *Template) HostEnd() int { return t.Literal.ContentSpan().End }

// ContainsHost reports whether a host offset is inside the literal's content.
func (t *Template) ContainsHost(offset int) bool {
	return t.HostStart() <= offset && offset <= t.HostEnd()
}

// ToHost maps a virtual offset to the host file.
func (t *Template) ToHost(virtual int) int { return t.Mapper.ToHost(virtual) }

// ToVirtual maps a host offset into the content. ok is false outside the
// literal.
func (t *Template) ToVirtual(host int) (int, bool) { return t.Mapper.ToVirtual(host) }

// ValueText is the source of the i-th interpolated expression.
func (t *Template) ValueText(i int) (string, bool) {
	if i < 0 || i >= len(t.values) {
		return "", false
	}
	return t.values[i], true
}

// PartAt returns the innermost part containing a virtual offset. A `<` with
// no tag name after it yields an empty PartStartTag.
func (t *Template) PartAt(offset int) (*Part, bool) {
	var best *Part
	for _, p := range t.Parts {
		if p.Start > offset || offset > p.End {
			continue
		}
		if best == nil || narrower(p, best) {
			best = p
		}
	}
	if (best == nil || best.Kind == PartText) && t.atEmptyTagStart(offset) {
		return &Part{
			Kind:       PartStartTag,
			Start:      offset,
			End:        offset,
			NameEnd:    offset,
			ValueStart: -1,
			ValueEnd:   -1,
		}, true
	}
	return best, best != nil
}

// narrower prefers structural parts over text, then the smaller span.
func narrower(p, best *Part) bool {
	if (p.Kind == PartText) != (best.Kind == PartText) {
		return best.Kind == PartText
	}
	return p.End-p.Start <= best.End-best.Start
}

// atEmptyTagStart matches `<|` where no tag-name character follows.
func (t *Template) atEmptyTagStart(offset int) bool {
	if offset <= 0 || offset > len(t.Content) || t.Content[offset-1] != '<' {
		return false
	}
	return offset == len(t.Content) || !isWordChar(t.Content[offset])
}

// PartsOfKind lists parts of the given kinds in document order.
func (t *Template) PartsOfKind(kinds ...PartKind) []*Part {
	var out []*Part
	for _, p := range t.Parts {
		for _, k := range kinds {
			if p.Kind == k {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

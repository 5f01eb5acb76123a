package template

import "bennypowers.dev/lupls/internal/parser/html"

// Language of an embedded region.
type Language string

const (
	LanguageHTML Language = "html"
	LanguageCSS  Language = "css"
)

// styleWrapperOpen turns a declaration list into a rule a stylesheet parser
// accepts.
const styleWrapperOpen = "_{"

// Region is an independently parseable slice of a template.
type Region struct {
	Language Language
	// Start and End bound the region in template offsets.
	Start int
	End   int
	// Content is the region's own document.
	Content string
	// bias converts local offsets: template = local + Start + bias.
	bias int
	// Inline is set for attribute values wrapped in a synthetic rule.
	Inline bool
}

// ToLocal converts a template offset to an offset in the region text.
func (r *Region) ToLocal(templateOffset int) int {
	return templateOffset - r.Start - r.bias
}

// ToTemplate converts a region offset back to a template offset.
func (r *Region) ToTemplate(localOffset int) int {
	return localOffset + r.Start + r.bias
}

// Contains reports whether a template offset falls in the region.
func (r *Region) Contains(templateOffset int) bool {
	return r.Start <= templateOffset && templateOffset <= r.End
}

// Regions is the ordered region list of a template. The whole-template
// region is always last.
type Regions struct {
	list []*Region
}

// NewRegions splits content into style regions plus the whole template.
func NewRegions(tag string, content string, doc *html.Document) *Regions {
	rs := &Regions{}
	if doc != nil {
		doc.Walk(func(n *html.Node) bool {
			if n.Kind != html.NodeElement {
				return true
			}
			if n.Tag == "style" && n.RawText != nil {
				rs.list = append(rs.list, &Region{
					Language: LanguageCSS,
					Start:    n.RawText.Start,
					End:      n.RawText.End,
					Content:  content[n.RawText.Start:n.RawText.End],
				})
			}
			for _, attr := range n.Attributes {
				if (attr.Name != "style" && attr.Name != ":style") || attr.ValueSpan == nil {
					continue
				}
				vs := *attr.ValueSpan
				rs.list = append(rs.list, &Region{
					Language: LanguageCSS,
					Start:    vs.Start,
					End:      vs.End,
					Content:  styleWrapperOpen + content[vs.Start:vs.End] + "}",
					bias:     -len(styleWrapperOpen),
					Inline:   true,
				})
			}
			return true
		})
	}

	lang := LanguageHTML
	if tag == "css" {
		lang = LanguageCSS
	}
	rs.list = append(rs.list, &Region{
		Language: lang,
		Start:    0,
		End:      len(content),
		Content:  content,
	})
	return rs
}

// RegionAt returns the first region in order containing offset, which is
// the most specific one, or the whole template.
func (rs *Regions) RegionAt(offset int) *Region {
	for _, r := range rs.list[:len(rs.list)-1] {
		if r.Contains(offset) {
			return r
		}
	}
	return rs.Whole()
}

// Whole returns the region spanning the entire template.
func (rs *Regions) Whole() *Region {
	return rs.list[len(rs.list)-1]
}

// All returns every region, whole template last.
func (rs *Regions) All() []*Region {
	return rs.list
}

// Styles returns the css sub-regions, or the whole template for css literals.
func (rs *Regions) Styles() []*Region {
	var out []*Region
	for _, r := range rs.list {
		if r.Language == LanguageCSS {
			out = append(out, r)
		}
	}
	return out
}

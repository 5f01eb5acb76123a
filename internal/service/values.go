package service

import (
	"strings"

	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

// typeRef is a type expression as written in file. At is the file offset of
// Text, or -1 when the text was not taken from the file verbatim.
type typeRef struct {
	file *program.SourceFile
	text string
	at   int
}

// sub returns the ref of part, a piece of r's text found at or after from.
func (r typeRef) sub(part string, from int) (typeRef, int) {
	out := typeRef{file: r.file, text: part, at: -1}
	if from > len(r.text) {
		from = len(r.text)
	}
	i := strings.Index(r.text[from:], part)
	if i < 0 {
		return out, from
	}
	if r.at >= 0 {
		out.at = r.at + from + i
	}
	return out, from + i + len(part)
}

// valueMember is a member of the type an object literal is written against.
type valueMember struct {
	res *LookupResult
	typ typeRef
}

// valueItem pairs an object literal key with the member it fills. Member is
// nil when no member has the key.
type valueItem struct {
	entry   *ts.Entry
	member  *valueMember
	members []*valueMember
}

// valueRequest is a key of an object literal interpolated into the value of
// a `.property` or `:binding` attribute.
type valueRequest struct {
	*request
	part *template.Part
	// exprAt is the host offset of the interpolated expression.
	exprAt int
	root   *ts.Value
	typ    typeRef
	entry  *ts.Entry
}

// hostSpan converts a span of the expression text to host offsets.
func (vr *valueRequest) hostSpan(s ts.Span) ts.Span {
	return ts.Span{Start: vr.exprAt + s.Start, End: vr.exprAt + s.End}
}

// valueAt resolves an offset on an object literal key inside an
// interpolation. Callers hold mu.
func (s *Service) valueAt(path string, offset int) (*valueRequest, bool) {
	f := s.ctx.Program.File(path)
	if f == nil {
		return nil, false
	}
	tpl, ok := s.templates.TemplateAt(f, offset)
	if !ok || !tpl.Mapper.InHole(offset) {
		return nil, false
	}
	v, ok := tpl.ToVirtual(offset)
	if !ok {
		return nil, false
	}
	slot, ok := tpl.Mapper.SlotIndexAt(v)
	if !ok {
		return nil, false
	}
	text, ok := tpl.ValueText(slot)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, false
	}
	part := valuePart(tpl, slot)
	if part == nil {
		return nil, false
	}
	values, err := ts.ParseValues(text)
	if err != nil || len(values) == 0 {
		return nil, false
	}

	s.analyzer.Update()
	vr := &valueRequest{
		request: &request{
			file:    f,
			tpl:     tpl,
			scope:   s.templates.Scope(f),
			host:    offset,
			virtual: v,
		},
		part:   part,
		exprAt: tpl.Literal.Values[slot].Expr.Start,
	}
	rel := offset - vr.exprAt
	switch part.Kind {
	case template.PartProperty:
		if len(values) != 1 {
			return nil, false
		}
		vr.root = values[0]
		vr.typ, ok = s.propertyValueType(vr.request, part)
	case template.PartBinding:
		vr.root, vr.typ, ok = s.bindingValueType(vr.request, part, values, rel)
	default:
		ok = false
	}
	if !ok {
		return nil, false
	}
	vr.entry, ok = vr.root.EntryAt(rel)
	if !ok {
		return nil, false
	}
	return vr, true
}

// valuePart finds the `.property` or `:binding` whose whole value is the
// placeholder of slot.
func valuePart(tpl *template.Template, slot int) *template.Part {
	for _, p := range tpl.PartsOfKind(template.PartProperty, template.PartBinding) {
		if p.Attr == nil || !template.IsPlaceholder(p.Attr.Value) {
			continue
		}
		if len(p.ValueIndices) == 1 && p.ValueIndices[0] == slot {
			return p
		}
	}
	return nil
}

// propertyValueType is the declared type of the component property p sets.
func (s *Service) propertyValueType(r *request, p *template.Part) (typeRef, bool) {
	c, ok := s.componentOf(r, p.Node)
	if !ok {
		return typeRef{}, false
	}
	prop, ok := s.analyzer.ComponentProperty(c, p.MainName)
	if !ok || prop.Type == "" {
		return typeRef{}, false
	}
	return typeRef{
		file: prop.File,
		text: prop.Type,
		at:   typeOffset(prop.File.Text, prop.NameSpan.End, prop.Type),
	}, true
}

// bindingValueType pairs the value under rel with the matching parameter of
// the binding's update method. `?:` bindings spend their first value on the
// condition.
func (s *Service) bindingValueType(r *request, p *template.Part, values []*ts.Value, rel int) (*ts.Value, typeRef, bool) {
	b, ok := s.analyzer.BindingForName(r.file, r.scope, p.MainName, r.tagHost(p.Node))
	if !ok {
		return nil, typeRef{}, false
	}
	if p.Prefix == "?:" {
		if len(values) < 2 {
			return nil, typeRef{}, false
		}
		values = values[1:]
	}
	index := -1
	for i, v := range values {
		if v.Span.Contains(rel) {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, typeRef{}, false
	}
	for _, ref := range s.ctx.Resolver.Ancestors(b.File, b.Class) {
		update := ref.Class.Member("update")
		if update == nil || update.Kind != ts.MemberMethod {
			continue
		}
		if index >= len(update.Params) || update.Params[index].Type == "" {
			return nil, typeRef{}, false
		}
		param := update.Params[index]
		return values[index], typeRef{file: ref.File, text: param.Type, at: param.TypeSpan.Start}, true
	}
	return nil, typeRef{}, false
}

// typeOffset finds a member's type text after its name, or -1.
func typeOffset(text string, from int, typ string) int {
	if from < 0 || from > len(text) {
		return -1
	}
	i := strings.Index(text[from:], typ)
	if i < 0 {
		return -1
	}
	return from + i
}

// item walks the literal against its type until it reaches the entry under
// the request offset.
func (s *Service) item(vr *valueRequest) (valueItem, bool) {
	var found valueItem
	ok := false
	s.walkValue(vr.root, vr.typ, 0, func(it valueItem) bool {
		if it.entry == vr.entry {
			found, ok = it, true
			return false
		}
		return true
	})
	return found, ok
}

// maxValueDepth bounds the walk through recursive types.
const maxValueDepth = 16

func (s *Service) walkValue(v *ts.Value, t typeRef, depth int, visit func(valueItem) bool) bool {
	if v == nil || depth > maxValueDepth {
		return true
	}
	switch v.Kind {
	case ts.ValueObject:
		members := s.members(t)
		if len(members) == 0 {
			return true
		}
		for _, e := range v.Entries {
			it := valueItem{entry: e, members: members}
			for _, m := range members {
				if m.res.Name == e.Key {
					it.member = m
					break
				}
			}
			if !visit(it) {
				return false
			}
			if it.member != nil && e.Value != nil && !e.Shorthand {
				if !s.walkValue(e.Value, it.member.typ, depth+1, visit) {
					return false
				}
			}
		}
	case ts.ValueArray:
		for i, item := range v.Items {
			if elem, ok := elementType(t, i); ok {
				if !s.walkValue(item, elem, depth+1, visit) {
					return false
				}
			}
		}
		for _, rest := range v.Spreads {
			if !s.walkValue(rest, t, depth+1, visit) {
				return false
			}
		}
	}
	return true
}

// utilityTypes wrap an object type without changing its keys.
var utilityTypes = []string{"Partial", "Required", "Readonly"}

// members lists the keys of an object type: named interfaces and aliases,
// inline type literals and public class fields, joined by `&` or `|`.
func (s *Service) members(t typeRef) []*valueMember {
	var out []*valueMember
	seen := make(map[string]bool)
	add := func(m *valueMember) {
		if !seen[m.res.Name] {
			seen[m.res.Name] = true
			out = append(out, m)
		}
	}
	var expand func(t typeRef, depth int)
	expand = func(t typeRef, depth int) {
		if depth > maxValueDepth {
			return
		}
		from := 0
		for _, union := range program.SplitTopLevel(t.text, '|') {
			for _, part := range program.SplitTopLevel(union, '&') {
				var ref typeRef
				ref, from = t.sub(part, from)
				switch {
				case strings.HasPrefix(part, "{"):
					for _, m := range literalMembers(ref) {
						add(m)
					}
				case isUtilityType(part):
					inner, _ := ref.sub(typeArgument(part), len(baseName(part)))
					expand(inner, depth+1)
				default:
					for _, m := range s.namedMembers(ref) {
						add(m)
					}
				}
			}
		}
	}
	expand(t, 0)
	return out
}

func isUtilityType(text string) bool {
	name := baseName(text)
	for _, u := range utilityTypes {
		if name == u {
			return true
		}
	}
	return false
}

// baseName strips type arguments: `Foo<Bar>` is `Foo`.
func baseName(text string) string {
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// typeArgument is the text between the outer angle brackets.
func typeArgument(text string) string {
	start := strings.IndexByte(text, '<')
	end := strings.LastIndexByte(text, '>')
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start+1 : end])
}

func literalMembers(t typeRef) []*valueMember {
	var out []*valueMember
	for _, sig := range ts.ParseTypeLiteral(t.text) {
		m := &valueMember{
			res: &LookupResult{
				Kind:        LookupMember,
				Name:        sig.Name,
				Description: sig.Description,
				Type:        sig.Type,
			},
			typ: typeRef{file: t.file, text: sig.Type, at: -1},
		}
		if t.at >= 0 {
			m.res.File = t.file
			m.res.Decl = ts.Span{Start: t.at + sig.NameSpan.Start, End: t.at + sig.NameSpan.End}
			if i := typeOffset(t.text, sig.NameSpan.End, sig.Type); i >= 0 {
				m.typ.at = t.at + i
			}
		}
		out = append(out, m)
	}
	return out
}

func (s *Service) namedMembers(t typeRef) []*valueMember {
	var out []*valueMember
	for _, p := range s.ctx.Resolver.Properties(t.file, t.text) {
		out = append(out, &valueMember{
			res: &LookupResult{
				Kind:        LookupMember,
				Name:        p.Name,
				Decl:        p.NameSpan,
				File:        p.File,
				Description: p.Description,
				Type:        p.Type,
			},
			typ: typeRef{file: p.File, text: p.Type, at: typeOffset(p.File.Text, p.NameSpan.End, p.Type)},
		})
	}
	if len(out) > 0 {
		return out
	}
	d, ok := s.ctx.Resolver.ResolveName(t.file, t.text)
	if !ok || d.Kind != program.DeclClass {
		return nil
	}
	for _, m := range d.Class.Members {
		if m.Static || m.Access != "public" || m.Kind == ts.MemberMethod {
			continue
		}
		out = append(out, &valueMember{
			res: &LookupResult{
				Kind:        LookupMember,
				Name:        m.Name,
				Decl:        m.NameSpan,
				File:        d.File,
				Description: m.Description,
				Type:        m.Type,
			},
			typ: typeRef{file: d.File, text: m.Type, at: typeOffset(d.File.Text, m.NameSpan.End, m.Type)},
		})
	}
	return out
}

// elementType is the type of item i of an array literal written against t:
// a tuple element, `T[]` or `Array<T>`.
func elementType(t typeRef, i int) (typeRef, bool) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.text), "readonly "))
	switch {
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		elems := program.SplitTopLevel(text[1:len(text)-1], ',')
		if i >= len(elems) {
			return typeRef{}, false
		}
		from := 0
		var ref typeRef
		for j := 0; j <= i; j++ {
			ref, from = t.sub(elems[j], from)
		}
		return ref, true
	case strings.HasSuffix(text, "[]"):
		elem := strings.TrimSpace(strings.TrimSuffix(text, "[]"))
		if strings.HasPrefix(elem, "(") && strings.HasSuffix(elem, ")") {
			elem = strings.TrimSpace(elem[1 : len(elem)-1])
		}
		ref, _ := t.sub(elem, 0)
		return ref, true
	case baseName(text) == "Array" || baseName(text) == "ReadonlyArray":
		arg := typeArgument(text)
		if arg == "" {
			return typeRef{}, false
		}
		ref, _ := t.sub(arg, len(baseName(text)))
		return ref, true
	}
	return typeRef{}, false
}

// completeValue offers the members of the literal's type whose names start
// with the key being typed. Keys that already name a member get nothing.
func (s *Service) completeValue(vr *valueRequest) []CompletionEntry {
	it, ok := s.item(vr)
	if !ok || it.member != nil {
		return nil
	}
	typed := strings.ToLower(vr.entry.Key)
	var results []*LookupResult
	for _, m := range it.members {
		if strings.HasPrefix(strings.ToLower(m.res.Name), typed) {
			res := *m.res
			results = append(results, &res)
		}
	}
	return s.entries(vr.request, nil, results, vr.hostSpan(vr.entry.KeySpan))
}

// lookupValue describes the member the key under the request offset fills.
func (s *Service) lookupValue(vr *valueRequest) (*LookupResult, bool) {
	it, ok := s.item(vr)
	if !ok || it.member == nil {
		return nil, false
	}
	res := *it.member.res
	res.Span = vr.hostSpan(vr.entry.KeySpan)
	return &res, true
}

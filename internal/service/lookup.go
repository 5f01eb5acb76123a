package service

import (
	"bennypowers.dev/lupls/internal/analyzer"
	"bennypowers.dev/lupls/internal/completedata"
	"bennypowers.dev/lupls/internal/parser/html"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

// LookupKind tags what a LookupResult names.
type LookupKind int

const (
	LookupComponent LookupKind = iota
	LookupProperty
	LookupComponentEvent
	LookupBinding
	LookupControlFlow
	LookupDOMEvent
	LookupSimulatedEvent
	LookupModifier
	LookupStyleProperty
	LookupBooleanAttribute
	LookupIcon
	LookupSlot
	// LookupValue is a member of a string literal union.
	LookupValue
	// LookupMember is a key of an object literal interpolated into a
	// property or binding value.
	LookupMember
)

var lookupKindNames = [...]string{
	LookupComponent:        "component",
	LookupProperty:         "property",
	LookupComponentEvent:   "component-event",
	LookupBinding:          "binding",
	LookupControlFlow:      "control-flow",
	LookupDOMEvent:         "dom-event",
	LookupSimulatedEvent:   "simulated-event",
	LookupModifier:         "modifier",
	LookupStyleProperty:    "style-property",
	LookupBooleanAttribute: "boolean-attribute",
	LookupIcon:             "icon",
	LookupSlot:             "slot",
	LookupValue:            "value",
	LookupMember:           "member",
}

func (k LookupKind) String() string {
	if int(k) < len(lookupKindNames) {
		return lookupKindNames[k]
	}
	return "unknown"
}

// LookupResult is what completion, quick info and definition know about one
// name in a template.
type LookupResult struct {
	Kind LookupKind
	Name string
	// Decl is the declaration name span in File. File is nil for built-in
	// vocabulary.
	Decl        ts.Span
	File        *program.SourceFile
	Description string
	Type        string
	Order       int
	// Span is the host range of the name in the template.
	Span ts.Span

	prefix string
}

// Title is the name as written in a template, like `:class` or `<Button>`.
func (l *LookupResult) Title() string {
	switch l.Kind {
	case LookupComponent, LookupControlFlow:
		return "<" + l.Name + ">"
	}
	return l.prefix + l.Name
}

// tagHost is the host offset of an element's tag, where scope lookups for
// the tag happen.
func (r *request) tagHost(n *html.Node) int {
	return r.tpl.ToHost(n.TagSpan.Start)
}

// componentOf resolves the component of an element, if its tag names one.
func (s *Service) componentOf(r *request, n *html.Node) (*analyzer.Component, bool) {
	if n == nil || !template.IsComponentTag(n.Tag) || template.IsDynamicComponentTag(n.Tag) {
		return nil, false
	}
	return s.analyzer.ComponentForTag(r.file, r.scope, n.Tag, r.tagHost(n))
}

// closestComponent resolves the nearest ancestor element naming a component.
func (s *Service) closestComponent(r *request, n *html.Node) (*analyzer.Component, bool) {
	for p := n.Parent; p != nil; p = p.Parent {
		if c, ok := s.componentOf(r, p); ok {
			return c, true
		}
	}
	return nil, false
}

// mainSpan is the host range of a part's main name.
func (r *request) mainSpan(p *template.Part) ts.Span {
	start := p.Start + len(p.Prefix)
	return r.span(start, start+len(p.MainName))
}

func (r *request) modifierSpan(p *template.Part, i int) ts.Span {
	start := p.ModifierStart(i)
	return r.span(start, start+len(p.Modifiers[i]))
}

func componentResult(c *analyzer.Component) *LookupResult {
	return &LookupResult{
		Kind:        LookupComponent,
		Name:        c.Name,
		Decl:        c.NameSpan,
		File:        c.File,
		Description: c.Description,
	}
}

func propertyResult(p *analyzer.Property, kind LookupKind, prefix string) *LookupResult {
	return &LookupResult{
		Kind:        kind,
		Name:        p.Name,
		Decl:        p.NameSpan,
		File:        p.File,
		Description: p.Description,
		Type:        p.Type,
		prefix:      prefix,
	}
}

func eventResult(e *analyzer.Event, prefix string) *LookupResult {
	return &LookupResult{
		Kind:        LookupComponentEvent,
		Name:        e.Name,
		Decl:        e.NameSpan,
		File:        e.File,
		Description: e.Description,
		Type:        e.Type,
		prefix:      prefix,
	}
}

func bindingResult(b *analyzer.Binding) *LookupResult {
	res := &LookupResult{
		Kind:        LookupBinding,
		Name:        b.Name,
		Decl:        b.NameSpan,
		File:        b.File,
		Description: b.Description,
		prefix:      ":",
	}
	if res.Description == "" && b.Internal {
		if item, ok := completedata.InternalBinding(b.Name); ok {
			res.Description = item.Description
		}
	}
	return res
}

func itemResult(kind LookupKind, item completedata.Item, prefix string) *LookupResult {
	return &LookupResult{
		Kind:        kind,
		Name:        item.Name,
		Description: item.Description,
		prefix:      prefix,
	}
}

// describe looks up the name at a host offset: a template name, or an object
// literal key interpolated into a property or binding. Callers hold mu.
func (s *Service) describe(path string, offset int) (*LookupResult, error) {
	if vr, ok := s.valueAt(path, offset); ok {
		res, _ := s.lookupValue(vr)
		return res, nil
	}
	r, err := s.at(path, offset)
	if err != nil {
		return nil, err
	}
	res, _ := s.lookup(r)
	return res, nil
}

// lookup describes the name under the request offset.
func (s *Service) lookup(r *request) (*LookupResult, bool) {
	p, ok := r.tpl.PartAt(r.virtual)
	if !ok {
		return nil, false
	}
	var res *LookupResult
	switch p.Kind {
	case template.PartTag:
		if c, ok := s.componentOf(r, p.Node); ok {
			res = componentResult(c)
			res.Span = r.span(p.Start, p.End)
		}
	case template.PartControlFlow:
		if item, ok := completedata.ControlFlowTag(p.MainName); ok {
			res = itemResult(LookupControlFlow, item, "")
			res.Span = r.span(p.Start, p.End)
		}
	case template.PartBinding:
		res = s.lookupBinding(r, p)
	case template.PartProperty:
		res = s.lookupProperty(r, p)
	case template.PartEvent, template.PartComponentEvent:
		res = s.lookupEvent(r, p)
	case template.PartBooleanAttribute:
		if !p.InName(r.virtual) {
			break
		}
		if item, ok := completedata.BooleanAttribute(p.MainName); ok {
			res = itemResult(LookupBooleanAttribute, item, p.Prefix)
			res.Span = r.mainSpan(p)
		}
	}
	return res, res != nil
}

func (s *Service) lookupBinding(r *request, p *template.Part) *LookupResult {
	if p.InValue(r.virtual) {
		if p.MainName != "slot" {
			return nil
		}
		c, ok := s.closestComponent(r, p.Node)
		if !ok {
			return nil
		}
		slot, ok := s.analyzer.SlotElement(c, p.Attr.Value)
		if !ok {
			return nil
		}
		res := propertyResult(slot, LookupSlot, "")
		res.Span = r.span(p.ValueStart, p.ValueEnd)
		return res
	}
	if !p.InName(r.virtual) {
		return nil
	}
	if i := p.ModifierIndexAt(r.virtual); i >= 0 {
		if p.MainName != "style" {
			return nil
		}
		mod := p.Modifiers[i]
		var res *LookupResult
		switch {
		case i == 0 && completedata.IsStyleProperty(mod):
			res = &LookupResult{Kind: LookupStyleProperty, Name: mod, prefix: "."}
		case i == 1:
			for _, item := range completedata.StyleModifiers(mod) {
				if item.Name == mod {
					res = itemResult(LookupModifier, item, ".")
				}
			}
		}
		if res != nil {
			res.Span = r.modifierSpan(p, i)
		}
		return res
	}
	var res *LookupResult
	if b, ok := s.analyzer.BindingForName(r.file, r.scope, p.MainName, r.tagHost(p.Node)); ok {
		res = bindingResult(b)
	} else if item, ok := completedata.InternalBinding(p.MainName); ok {
		res = &LookupResult{Kind: LookupBinding, Name: item.Name, Description: item.Description, prefix: ":"}
	}
	if res != nil {
		res.prefix = p.Prefix
		res.Span = r.mainSpan(p)
	}
	return res
}

func (s *Service) lookupProperty(r *request, p *template.Part) *LookupResult {
	if p.InValue(r.virtual) {
		if !isIconProperty(p) {
			return nil
		}
		icon, ok := s.analyzer.Icon(p.Attr.Value)
		if !ok {
			return nil
		}
		return &LookupResult{
			Kind:        LookupIcon,
			Name:        icon.Name,
			Decl:        icon.Import.SourceSpan,
			File:        icon.File,
			Description: icon.Description,
			Span:        r.span(p.ValueStart, p.ValueEnd),
		}
	}
	if !p.InName(r.virtual) {
		return nil
	}
	c, ok := s.componentOf(r, p.Node)
	if !ok {
		return nil
	}
	prop, ok := s.analyzer.ComponentProperty(c, p.MainName)
	if !ok {
		return nil
	}
	res := propertyResult(prop, LookupProperty, p.Prefix)
	res.Span = r.mainSpan(p)
	return res
}

func (s *Service) lookupEvent(r *request, p *template.Part) *LookupResult {
	if !p.InName(r.virtual) {
		return nil
	}
	if i := p.ModifierIndexAt(r.virtual); i >= 0 {
		item, ok := completedata.EventModifier(p.MainName, p.Modifiers[i])
		if !ok {
			return nil
		}
		res := itemResult(LookupModifier, item, ".")
		res.Span = r.modifierSpan(p, i)
		return res
	}
	var res *LookupResult
	if c, ok := s.componentOf(r, p.Node); ok {
		if ev, ok := s.analyzer.ComponentEvent(c, p.MainName); ok {
			res = eventResult(ev, p.Prefix)
		}
	}
	if res == nil && p.Kind == template.PartEvent {
		if item, ok := completedata.SimulatedEvent(p.MainName); ok {
			res = itemResult(LookupSimulatedEvent, item, p.Prefix)
		} else if item, ok := completedata.DOMEvent(p.MainName); ok {
			res = itemResult(LookupDOMEvent, item, p.Prefix)
		}
	}
	if res != nil {
		res.Span = r.mainSpan(p)
	}
	return res
}

// isIconProperty matches `.type` on tags like `<Icon>` or `<IconButton>`.
func isIconProperty(p *template.Part) bool {
	return p.MainName == "type" && containsIcon(p.TagName())
}

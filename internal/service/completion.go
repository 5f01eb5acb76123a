package service

import (
	"fmt"
	"strings"

	"bennypowers.dev/lupls/internal/completedata"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/template"
)

// CompletionEntry is one completion item in host coordinates.
type CompletionEntry struct {
	LookupResult
	// Label is the name as inserted, with its attribute prefix.
	Label           string
	SortText        string
	InsertText      string
	ReplacementSpan ts.Span
	// Unimported is set for components and bindings that resolve only after
	// an import is added. CompletionImport computes the edit.
	Unimported bool
}

// CompletionImport names the declaration a resolved completion imports.
type CompletionImport struct {
	Name     string
	DeclFile string
}

// Import returns what accepting the entry must import, if anything.
func (e *CompletionEntry) Import() (CompletionImport, bool) {
	if !e.Unimported || e.File == nil {
		return CompletionImport{}, false
	}
	return CompletionImport{Name: e.Name, DeclFile: e.File.Path}, true
}

// Completions lists entries for the template position at a host offset. It
// returns nil outside the parts lupos owns. Inside an interpolation only the
// keys of an object literal passed to a property or binding complete.
func (s *Service) Completions(path string, offset int) ([]CompletionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vr, ok := s.valueAt(path, offset); ok {
		return s.completeValue(vr), nil
	}
	r, err := s.at(path, offset)
	if err != nil {
		return nil, err
	}
	p, ok := r.tpl.PartAt(r.virtual)
	if !ok {
		return nil, nil
	}
	var out []*LookupResult
	var span ts.Span
	switch p.Kind {
	case template.PartStartTag:
		span = r.span(r.virtual, r.virtual)
		out = append(s.completeComponents(r, ""), completeControlFlow("")...)
	case template.PartTag, template.PartControlFlow:
		span = r.span(p.Start, p.End)
		prefix := r.tpl.Content[p.Start:r.virtual]
		if template.IsComponentTag(prefix) {
			out = s.completeComponents(r, prefix)
		} else if strings.HasPrefix(prefix, "lu") {
			out = completeControlFlow(prefix)
		}
	case template.PartBinding:
		out, span = s.completeBinding(r, p)
	case template.PartProperty:
		out, span = s.completeProperty(r, p)
	case template.PartEvent, template.PartComponentEvent:
		out, span = s.completeEvent(r, p)
	case template.PartBooleanAttribute:
		if !p.InName(r.virtual) || p.ModifierIndexAt(r.virtual) >= 0 {
			break
		}
		span = r.span(p.Start, p.NameEnd)
		for _, item := range completedata.BooleanAttributes(r.typedMain(p), p.TagName()) {
			out = append(out, itemResult(LookupBooleanAttribute, item, p.Prefix))
		}
	}
	return s.entries(r, p, out, span), nil
}

// typedMain is the part of the main name before the cursor.
func (r *request) typedMain(p *template.Part) string {
	start := p.Start + len(p.Prefix)
	end := min(r.virtual, start+len(p.MainName))
	if end < start {
		return ""
	}
	return r.tpl.Content[start:end]
}

// typedModifier is modifier i up to the cursor.
func (r *request) typedModifier(p *template.Part, i int) string {
	start := p.ModifierStart(i)
	end := min(r.virtual, start+len(p.Modifiers[i]))
	if end < start {
		return ""
	}
	return r.tpl.Content[start:end]
}

// typedValue is the attribute value up to the cursor.
func (r *request) typedValue(p *template.Part) string {
	end := min(r.virtual, p.ValueEnd)
	if end < p.ValueStart {
		return ""
	}
	return r.tpl.Content[p.ValueStart:end]
}

func (s *Service) entries(r *request, p *template.Part, results []*LookupResult, span ts.Span) []CompletionEntry {
	if len(results) == 0 {
		return nil
	}
	out := make([]CompletionEntry, 0, len(results))
	for i, res := range results {
		res.Order = i
		e := CompletionEntry{
			LookupResult:    *res,
			Label:           res.prefix + res.Name,
			SortText:        fmt.Sprintf("%04d", i),
			ReplacementSpan: span,
		}
		e.InsertText = e.Label
		if needsSuffix(p, res) {
			e.InsertText += "="
		}
		switch res.Kind {
		case LookupComponent:
			e.Unimported = !r.scope.Has(res.Name)
		case LookupBinding:
			_, internal := completedata.InternalBinding(res.Name)
			e.Unimported = res.File != nil && !internal && !r.scope.Has(res.Name)
		}
		out = append(out, e)
	}
	return out
}

// needsSuffix reports whether the insert text should open a value. Parts that
// already have one, and `:class` and `:style`, take none.
func needsSuffix(p *template.Part, res *LookupResult) bool {
	if p == nil || p.HasValue() {
		return false
	}
	switch res.Kind {
	case LookupBinding:
		return res.Name != "class" && res.Name != "style"
	case LookupDOMEvent, LookupSimulatedEvent, LookupComponentEvent, LookupBooleanAttribute:
		return true
	case LookupModifier:
		// units close a `:style.name.unit` binding
		return p.Kind == template.PartBinding
	}
	return false
}

func (s *Service) completeComponents(r *request, prefix string) []*LookupResult {
	var out []*LookupResult
	for _, c := range s.analyzer.ComponentsForCompletion(prefix) {
		out = append(out, componentResult(c))
	}
	return dedupComponents(r, out)
}

// dedupComponents keeps one entry per name, preferring the declaration the
// file already sees.
func dedupComponents(r *request, in []*LookupResult) []*LookupResult {
	index := make(map[string]int)
	var out []*LookupResult
	for _, res := range in {
		i, dup := index[res.Name]
		if !dup {
			index[res.Name] = len(out)
			out = append(out, res)
			continue
		}
		if res.File.Path == r.file.Path {
			out[i] = res
		}
	}
	return out
}

func completeControlFlow(prefix string) []*LookupResult {
	var out []*LookupResult
	for _, item := range completedata.ControlFlowTags(prefix) {
		out = append(out, itemResult(LookupControlFlow, item, ""))
	}
	return out
}

func (s *Service) completeBinding(r *request, p *template.Part) ([]*LookupResult, ts.Span) {
	if p.InValue(r.virtual) {
		if p.MainName != "slot" {
			return nil, ts.Span{}
		}
		c, ok := s.closestComponent(r, p.Node)
		if !ok {
			return nil, ts.Span{}
		}
		var out []*LookupResult
		for _, slot := range s.analyzer.SubPropertiesForCompletion(c, r.typedValue(p)) {
			out = append(out, propertyResult(slot, LookupSlot, ""))
		}
		return out, r.span(p.ValueStart, p.ValueEnd)
	}
	if !p.InName(r.virtual) {
		return nil, ts.Span{}
	}
	if i := p.ModifierIndexAt(r.virtual); i >= 0 {
		if p.MainName != "style" {
			return nil, ts.Span{}
		}
		return completeStyleModifier(r, p, i)
	}
	var out []*LookupResult
	seen := make(map[string]bool)
	for _, b := range s.analyzer.BindingsForCompletion(r.typedMain(p)) {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, bindingResult(b))
	}
	for _, item := range completedata.InternalBindings() {
		if seen[item.Name] || !strings.HasPrefix(item.Name, r.typedMain(p)) {
			continue
		}
		seen[item.Name] = true
		out = append(out, &LookupResult{Kind: LookupBinding, Name: item.Name, Description: item.Description, prefix: ":"})
	}
	for _, res := range out {
		res.prefix = p.Prefix
	}
	return out, r.span(p.Start, p.NameEnd)
}

// completeStyleModifier completes `:style.property.unit`: property names at
// the first modifier and units at the second.
func completeStyleModifier(r *request, p *template.Part, i int) ([]*LookupResult, ts.Span) {
	typed := r.typedModifier(p, i)
	var out []*LookupResult
	switch i {
	case 0:
		for _, item := range completedata.StyleProperties(typed) {
			out = append(out, itemResult(LookupStyleProperty, item, ""))
		}
	case 1:
		for _, item := range completedata.StyleModifiers(typed) {
			out = append(out, itemResult(LookupModifier, item, ""))
		}
	}
	return out, r.modifierSpan(p, i)
}

func (s *Service) completeProperty(r *request, p *template.Part) ([]*LookupResult, ts.Span) {
	if p.InValue(r.virtual) {
		return s.completePropertyValue(r, p), r.span(p.ValueStart, p.ValueEnd)
	}
	if !p.InName(r.virtual) || p.ModifierIndexAt(r.virtual) >= 0 {
		return nil, ts.Span{}
	}
	c, ok := s.componentOf(r, p.Node)
	if !ok {
		return nil, ts.Span{}
	}
	var out []*LookupResult
	for _, prop := range s.analyzer.ComponentPropertiesForCompletion(c, r.typedMain(p), true) {
		out = append(out, propertyResult(prop, LookupProperty, p.Prefix))
	}
	return out, r.span(p.Start, p.NameEnd)
}

func (s *Service) completePropertyValue(r *request, p *template.Part) []*LookupResult {
	typed := r.typedValue(p)
	var out []*LookupResult
	if isIconProperty(p) {
		for _, icon := range s.analyzer.IconsForCompletion(typed) {
			out = append(out, &LookupResult{
				Kind:        LookupIcon,
				Name:        icon.Name,
				Decl:        icon.Import.SourceSpan,
				File:        icon.File,
				Description: icon.Description,
			})
		}
		return out
	}
	c, ok := s.componentOf(r, p.Node)
	if !ok {
		return nil
	}
	prop, ok := s.analyzer.ComponentProperty(c, p.MainName)
	if !ok {
		return nil
	}
	for _, lit := range s.ctx.Resolver.StringLiterals(prop.File, prop.Type) {
		if strings.HasPrefix(lit, typed) {
			out = append(out, &LookupResult{Kind: LookupValue, Name: lit, Type: prop.Type})
		}
	}
	return out
}

func (s *Service) completeEvent(r *request, p *template.Part) ([]*LookupResult, ts.Span) {
	if !p.InName(r.virtual) {
		return nil, ts.Span{}
	}
	if i := p.ModifierIndexAt(r.virtual); i >= 0 {
		if p.Kind != template.PartEvent {
			return nil, ts.Span{}
		}
		var out []*LookupResult
		for _, item := range completedata.EventModifiers(p.MainName, r.typedModifier(p, i)) {
			out = append(out, itemResult(LookupModifier, item, ""))
		}
		return out, r.modifierSpan(p, i)
	}
	typed := r.typedMain(p)
	var out []*LookupResult
	if c, ok := s.componentOf(r, p.Node); ok {
		for _, ev := range s.analyzer.ComponentEventsForCompletion(c, typed) {
			out = append(out, eventResult(ev, "@@"))
		}
	}
	if p.Kind == template.PartEvent {
		for _, item := range completedata.DOMEvents(typed) {
			out = append(out, itemResult(LookupDOMEvent, item, "@"))
		}
		for _, item := range completedata.SimulatedEvents(typed) {
			out = append(out, itemResult(LookupSimulatedEvent, item, "@"))
		}
	}
	return out, r.span(p.Start, p.NameEnd)
}

func containsIcon(tag string) bool {
	return strings.Contains(tag, "Icon")
}

// ResolveCompletion computes the auto-import fix for an entry returned by
// Completions in path.
func (s *Service) ResolveCompletion(path string, imp CompletionImport) (*CodeFix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	fix, ok := s.importFix(f, imp.Name, imp.DeclFile)
	if !ok {
		return nil, nil
	}
	return fix, nil
}

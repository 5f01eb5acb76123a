package service

import (
	"bennypowers.dev/lupls/internal/analyzer"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/template"
)

// Location is a host range in a file.
type Location struct {
	File string
	Span ts.Span
}

// References lists the template tags using the component named at a host
// offset. With includeDecl the class name itself comes first.
func (s *Service) References(path string, offset int, includeDecl bool) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.at(path, offset)
	if err != nil {
		return nil, err
	}
	p, ok := r.tpl.PartAt(r.virtual)
	if !ok || p.Kind != template.PartTag {
		return nil, nil
	}
	target, ok := s.componentOf(r, p.Node)
	if !ok {
		return nil, nil
	}
	var out []Location
	if includeDecl {
		out = append(out, Location{File: target.File.Path, Span: target.NameSpan})
	}
	for _, f := range s.ctx.Program.SourceFiles() {
		if f.IsDeclaration() || f.InNodeModules() {
			continue
		}
		scope := s.templates.Scope(f)
		for _, tpl := range s.templates.Templates(f) {
			for _, tag := range tpl.PartsOfKind(template.PartTag) {
				// aliased imports rename the tag, so every component tag resolves
				if !template.IsComponentTag(tag.MainName) || template.IsDynamicComponentTag(tag.MainName) {
					continue
				}
				c, ok := s.analyzer.ComponentForTag(f, scope, tag.MainName, tpl.ToHost(tag.Start))
				if !ok || !sameComponent(c, target) {
					continue
				}
				out = append(out, Location{
					File: f.Path,
					Span: ts.Span{Start: tpl.ToHost(tag.Start), End: tpl.ToHost(tag.End)},
				})
			}
		}
	}
	return out, nil
}

func sameComponent(a, b *analyzer.Component) bool {
	return a.Class == b.Class && a.File.Path == b.File.Path
}

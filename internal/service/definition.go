package service

import "bennypowers.dev/lupls/internal/parser/ts"

// DefinitionTarget is a declaration a template name refers to.
type DefinitionTarget struct {
	File string
	Span ts.Span
	// OriginSpan is the name in the template.
	OriginSpan ts.Span
}

// Definition returns the declaration of the name at a host offset. Built-in
// vocabulary has none.
func (s *Service) Definition(path string, offset int) ([]DefinitionTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.describe(path, offset)
	if res == nil || res.File == nil {
		return nil, err
	}
	return []DefinitionTarget{{File: res.File.Path, Span: res.Decl, OriginSpan: res.Span}}, nil
}

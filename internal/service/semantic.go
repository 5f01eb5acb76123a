package service

import (
	"sort"

	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/template"
)

// TokenType is a semantic token class, in legend order.
type TokenType int

const (
	TokenClass TokenType = iota
	TokenDecorator
	TokenProperty
	TokenEvent
)

// TokenTypes is the legend the LSP layer advertises.
var TokenTypes = []string{"class", "decorator", "property", "event"}

// SemanticToken is a highlighted template name.
type SemanticToken struct {
	Span ts.Span
	Type TokenType
}

// SemanticTokens highlights component tags and lupos attribute names in
// every template of path, in host order.
func (s *Service) SemanticTokens(path string) ([]SemanticToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	var out []SemanticToken
	for _, tpl := range s.templates.Templates(f) {
		for _, p := range tpl.Parts {
			typ, ok := tokenType(p)
			if !ok {
				continue
			}
			start := p.Start + len(p.Prefix)
			end := start + len(p.MainName)
			if template.IsPlaceholder(p.MainName) || end <= start {
				continue
			}
			out = append(out, SemanticToken{
				Span: ts.Span{Start: tpl.ToHost(start), End: tpl.ToHost(end)},
				Type: typ,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out, nil
}

func tokenType(p *template.Part) (TokenType, bool) {
	switch p.Kind {
	case template.PartTag:
		return TokenClass, template.IsComponentTag(p.MainName)
	case template.PartBinding:
		return TokenDecorator, true
	case template.PartProperty:
		return TokenProperty, true
	case template.PartEvent, template.PartComponentEvent:
		return TokenEvent, true
	}
	return 0, false
}

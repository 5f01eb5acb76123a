package service

import "bennypowers.dev/lupls/internal/parser/ts"

// QuickInfo is hover content for a template name.
type QuickInfo struct {
	Kind          LookupKind
	Header        string
	Documentation string
	Span          ts.Span
}

// QuickInfo describes the name at a host offset, or returns nil.
func (s *Service) QuickInfo(path string, offset int) (*QuickInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.describe(path, offset)
	if res == nil {
		return nil, err
	}
	header := res.Title()
	if res.Type != "" {
		header += ": " + res.Type
	}
	return &QuickInfo{
		Kind:          res.Kind,
		Header:        header,
		Documentation: res.Description,
		Span:          res.Span,
	}, nil
}

package service

import (
	"fmt"
	"slices"

	"bennypowers.dev/lupls/internal/imports"
	"bennypowers.dev/lupls/internal/program"
)

// FileTextChanges groups the edits of one file.
type FileTextChanges struct {
	File  string
	Edits []imports.TextEdit
}

// CodeFix is a titled set of edits.
type CodeFix struct {
	Description string
	Changes     []FileTextChanges
}

// CodeFixes offers imports for the missing-import diagnostics overlapping
// [start, end] in path.
func (s *Service) CodeFixes(path string, start, end int) ([]CodeFix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	var out []CodeFix
	seen := make(map[string]bool)
	for _, d := range s.diagnostics(f) {
		if d.Code != DiagnosticMissingImportOrDeclaration || d.Span.End < start || d.Span.Start > end {
			continue
		}
		for _, declFile := range s.declarationFiles(d.subject) {
			fix, ok := s.importFix(f, d.subject, declFile)
			if !ok || seen[fix.Description] {
				continue
			}
			seen[fix.Description] = true
			out = append(out, *fix)
		}
	}
	return out, nil
}

// declarationFiles lists the files declaring a component or project binding
// called name.
func (s *Service) declarationFiles(name string) []string {
	var files []string
	for _, c := range s.analyzer.ComponentsByName(name) {
		files = append(files, c.File.Path)
	}
	for _, b := range s.analyzer.BindingsByName(name) {
		if !b.Internal {
			files = append(files, b.File.Path)
		}
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func (s *Service) importFix(f *program.SourceFile, name, declFile string) (*CodeFix, bool) {
	fix, ok := s.imports.ImportFix(f, name, declFile)
	if !ok {
		return nil, false
	}
	return &CodeFix{
		Description: fmt.Sprintf("Import `%s` from %q", name, fix.Path),
		Changes:     []FileTextChanges{{File: f.Path, Edits: []imports.TextEdit{fix.Edit}}},
	}, true
}

package service

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/lupls/internal/completedata"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/parser/css"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

// DiagnosticCode identifies a template diagnostic.
type DiagnosticCode int

const (
	DiagnosticMissingImportOrDeclaration DiagnosticCode = -21001
	DiagnosticInvalidModifier            DiagnosticCode = -21002
	DiagnosticCSSSyntax                  DiagnosticCode = -21003
)

// Severity follows the LSP numbering.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

// Diagnostic is a template problem in host coordinates.
type Diagnostic struct {
	Code     DiagnosticCode
	Severity Severity
	Message  string
	Span     ts.Span

	// subject is the unresolved name of a missing import.
	subject string
}

var stylePropertyName = regexp.MustCompile(`^[\w-]+$`)

// Diagnostics checks every template of the file at path.
func (s *Service) Diagnostics(path string) ([]Diagnostic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	return s.diagnostics(f), nil
}

func (s *Service) diagnostics(f *program.SourceFile) []Diagnostic {
	s.analyzer.Update()
	scope := s.templates.Scope(f)
	var out []Diagnostic
	for _, tpl := range s.templates.Templates(f) {
		out = append(out, missingImports(tpl, scope)...)
		out = append(out, styleModifiers(tpl)...)
		out = append(out, cssSyntax(tpl)...)
	}
	return out
}

func missingImport(name string, span ts.Span) Diagnostic {
	return Diagnostic{
		Code:     DiagnosticMissingImportOrDeclaration,
		Severity: SeverityError,
		Message:  fmt.Sprintf("Can't find definition for %q", name),
		Span:     span,
		subject:  name,
	}
}

func missingImports(tpl *template.Template, scope *program.Scope) []Diagnostic {
	var out []Diagnostic
	for _, p := range tpl.PartsOfKind(template.PartTag, template.PartBinding) {
		switch p.Kind {
		case template.PartTag:
			if !template.IsComponentTag(p.MainName) || template.IsDynamicComponentTag(p.MainName) {
				continue
			}
			if _, ok := scope.Lookup(p.MainName, tpl.ToHost(p.Start)); ok {
				continue
			}
			out = append(out, missingImport(p.MainName, ts.Span{Start: tpl.ToHost(p.Start), End: tpl.ToHost(p.End)}))
		case template.PartBinding:
			name := p.MainName
			if name == "" || template.IsPlaceholder(name) {
				continue
			}
			if _, ok := completedata.InternalBinding(name); ok {
				continue
			}
			if _, ok := scope.Lookup(name, tpl.ToHost(p.Start)); ok {
				continue
			}
			start := p.Start + len(p.Prefix)
			out = append(out, missingImport(name, ts.Span{Start: tpl.ToHost(start), End: tpl.ToHost(start + len(name))}))
		}
	}
	return out
}

// styleModifiers validates `:style.property.unit`.
func styleModifiers(tpl *template.Template) []Diagnostic {
	var out []Diagnostic
	for _, p := range tpl.PartsOfKind(template.PartBinding) {
		if p.MainName != "style" || len(p.Modifiers) == 0 {
			continue
		}
		report := func(i int, format string) {
			start := p.ModifierStart(i)
			out = append(out, Diagnostic{
				Code:     DiagnosticInvalidModifier,
				Severity: SeverityError,
				Message:  fmt.Sprintf(format, p.Modifiers[i]),
				Span:     ts.Span{Start: tpl.ToHost(start), End: tpl.ToHost(start + len(p.Modifiers[i]))},
			})
		}
		for i := 2; i < len(p.Modifiers); i++ {
			report(i, `Modifier "%s" is not allowed, only two modifiers can be specified for ":style"!`)
		}
		if len(p.Modifiers) >= 2 && !completedata.IsStyleUnit(p.Modifiers[1]) {
			units := strings.Join(completedata.StyleUnitNames(), ", ")
			report(1, `Modifier "%s" is not allowed, it must be one of "`+units+`"!`)
		}
		if first := p.Modifiers[0]; !stylePropertyName.MatchString(first) || completedata.IsStyleUnit(first) {
			report(0, `Modifier "%s" is not a valid style property!`)
		}
	}
	return out
}

// cssSyntax reports what the style grammar rejected. An inline style whose
// whole value is one interpolation has nothing to check.
func cssSyntax(tpl *template.Template) []Diagnostic {
	var out []Diagnostic
	for _, region := range tpl.Regions.Styles() {
		if region.Inline && template.IsPlaceholder(strings.TrimSpace(tpl.Content[region.Start:region.End])) {
			continue
		}
		sheet, err := css.Parse(region.Content)
		if err != nil {
			log.Debug("css region of %s: %v", tpl.Path, err)
			continue
		}
		for _, e := range sheet.Errors {
			msg := "Invalid CSS syntax"
			if e.Missing != "" {
				msg = fmt.Sprintf("Expected %q", e.Missing)
			}
			start := clamp(region.ToTemplate(e.Span.Start), region.Start, region.End)
			end := clamp(region.ToTemplate(e.Span.End), start, region.End)
			out = append(out, Diagnostic{
				Code:     DiagnosticCSSSyntax,
				Severity: SeverityWarning,
				Message:  msg,
				Span:     ts.Span{Start: tpl.ToHost(start), End: tpl.ToHost(end)},
			})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

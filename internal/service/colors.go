package service

import (
	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/parser/css"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/template"
)

// ColorInfo is a color literal inside a template style region.
type ColorInfo struct {
	Text  string
	Color csscolorparser.Color
	Span  ts.Span
}

// Colors lists the color literals in the style regions of path. Values
// containing interpolations are skipped.
func (s *Service) Colors(path string) ([]ColorInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	var out []ColorInfo
	for _, tpl := range s.templates.Templates(f) {
		out = append(out, templateColors(tpl)...)
	}
	return out, nil
}

func templateColors(tpl *template.Template) []ColorInfo {
	var out []ColorInfo
	for _, region := range tpl.Regions.Styles() {
		sheet, err := css.Parse(region.Content)
		if err != nil {
			log.Debug("css region of %s: %v", tpl.Path, err)
			continue
		}
		for _, cand := range sheet.Colors {
			if len(template.ParseSlotIndices(cand.Text)) > 0 {
				continue
			}
			c, err := csscolorparser.Parse(cand.Text)
			if err != nil {
				continue
			}
			start := region.ToTemplate(cand.Span.Start)
			end := region.ToTemplate(cand.Span.End)
			out = append(out, ColorInfo{
				Text:  cand.Text,
				Color: c,
				Span:  ts.Span{Start: tpl.ToHost(start), End: tpl.ToHost(end)},
			})
		}
	}
	return out
}

// Package service answers editor requests inside lupos templates. Every
// method takes and returns host byte offsets; the LSP layer converts them.
package service

import (
	"fmt"
	"sync"
	"time"

	"bennypowers.dev/lupls/internal/analyzer"
	"bennypowers.dev/lupls/internal/cache"
	"bennypowers.dev/lupls/internal/imports"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

// Service owns the analyzer and the template cache of one project. All
// exported methods hold mu for their whole duration.
type Service struct {
	mu        sync.Mutex
	ctx       *program.ProjectContext
	analyzer  *analyzer.Analyzer
	templates *cache.Provider
	imports   *imports.Resolver
}

// New creates the service for ctx. Idle cache entries are dropped after idle.
func New(ctx *program.ProjectContext, idle time.Duration) *Service {
	a := analyzer.New(ctx)
	return &Service{
		ctx:       ctx,
		analyzer:  a,
		templates: cache.NewProvider(ctx, idle),
		imports:   imports.NewResolver(ctx, a),
	}
}

// Context returns the project the service answers for.
func (s *Service) Context() *program.ProjectContext { return s.ctx }

// Analyzer exposes the project index. Callers must not use it concurrently
// with service requests.
func (s *Service) Analyzer() *analyzer.Analyzer { return s.analyzer }

// EndTick ends the current request tick so the next one reconciles again.
func (s *Service) EndTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzer.EndTick()
}

// Sweep evicts idle template and scope entries and returns how many went.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.Sweep()
}

// Forget drops everything cached for a file that left the program.
func (s *Service) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates.Release(path)
}

// Refresh reconciles the analyzer with the program outside of a request,
// for example after a workspace load.
func (s *Service) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzer.Update()
	s.analyzer.EndTick()
}

// request is the template context of one offset.
type request struct {
	file    *program.SourceFile
	tpl     *template.Template
	scope   *program.Scope
	host    int
	virtual int
}

// span converts a virtual range of the request template to host offsets.
func (r *request) span(start, end int) ts.Span {
	return ts.Span{Start: r.tpl.ToHost(start), End: r.tpl.ToHost(end)}
}

func (s *Service) file(path string) (*program.SourceFile, error) {
	f := s.ctx.Program.File(path)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	return f, nil
}

// at locates the template around a host offset and brings the analyzer up to
// date. Offsets inside an interpolation belong to the host language and have
// no template. Callers hold mu.
func (s *Service) at(path string, offset int) (*request, error) {
	f, err := s.file(path)
	if err != nil {
		return nil, err
	}
	tpl, ok := s.templates.TemplateAt(f, offset)
	if !ok || tpl.Mapper.InHole(offset) {
		return nil, fmt.Errorf("%s:%d: %w", path, offset, ErrNoTemplate)
	}
	v, ok := tpl.ToVirtual(offset)
	if !ok {
		return nil, fmt.Errorf("%s:%d: %w", path, offset, ErrNoTemplate)
	}
	s.analyzer.Update()
	return &request{
		file:    f,
		tpl:     tpl,
		scope:   s.templates.Scope(f),
		host:    offset,
		virtual: v,
	}, nil
}

// Region describes the embedded language at an offset, so a host
// integration can hand the request to a markup or style engine.
type Region struct {
	Language template.Language
	// Content is the text the delegated engine sees and Offset the position
	// in it.
	Content string
	Offset  int
}

// RegionAt returns the embedded region around a host offset.
func (s *Service) RegionAt(path string, offset int) (Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.file(path)
	if err != nil {
		return Region{}, err
	}
	tpl, ok := s.templates.TemplateAt(f, offset)
	if !ok || tpl.Mapper.InHole(offset) {
		return Region{}, fmt.Errorf("%s:%d: %w", path, offset, ErrNoTemplate)
	}
	v, ok := tpl.ToVirtual(offset)
	if !ok {
		return Region{}, fmt.Errorf("%s:%d: %w", path, offset, ErrNoTemplate)
	}
	r := tpl.Regions.RegionAt(v)
	return Region{Language: r.Language, Content: r.Content, Offset: r.ToLocal(v)}, nil
}

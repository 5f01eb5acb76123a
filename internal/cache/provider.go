package cache

import (
	"time"

	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/template"
)

const scopeNode = "#scope"

// Provider builds and memoizes the per-file data language features share:
// parsed templates and file scopes.
type Provider struct {
	ctx       *program.ProjectContext
	arena     *Arena
	templates *Cache[*template.Template]
	scopes    *Cache[*program.Scope]
}

// NewProvider creates the caches of ctx over a fresh arena. Entries idle for
// longer than idle are dropped by Sweep.
func NewProvider(ctx *program.ProjectContext, idle time.Duration) *Provider {
	arena := NewArena()
	return &Provider{
		ctx:       ctx,
		arena:     arena,
		templates: New[*template.Template]("template", arena, idle),
		scopes:    New[*program.Scope]("scope", arena, idle),
	}
}

// Template returns the parsed template of lit in file.
func (p *Provider) Template(file *program.SourceFile, lit *ts.Template) *template.Template {
	node := Node{Key: program.LiteralKey(lit), Identity: file.LiteralIdentity(lit)}
	return p.templates.GetOrCreate(file, node, func() *template.Template {
		return template.New(file.Path, file.Text, lit)
	})
}

// TemplateAt returns the template whose content contains the host offset.
func (p *Provider) TemplateAt(file *program.SourceFile, offset int) (*template.Template, bool) {
	lit := file.TemplateAt(offset, p.ctx.TemplateTags)
	if lit == nil {
		return nil, false
	}
	return p.Template(file, lit), true
}

// Templates returns every template of file in source order.
func (p *Provider) Templates(file *program.SourceFile) []*template.Template {
	lits := file.TemplatesWithTags(p.ctx.TemplateTags)
	out := make([]*template.Template, 0, len(lits))
	for _, lit := range lits {
		out = append(out, p.Template(file, lit))
	}
	return out
}

// Scope returns the declaration scope of file.
func (p *Provider) Scope(file *program.SourceFile) *program.Scope {
	return p.scopes.GetOrCreate(file, Node{Key: scopeNode}, func() *program.Scope {
		return program.NewScope(file)
	})
}

// Release drops everything cached for path.
func (p *Provider) Release(path string) {
	p.templates.Invalidate(path)
	p.scopes.Invalidate(path)
	p.arena.Release(path)
}

// Sweep evicts idle entries from every cache.
func (p *Provider) Sweep() int {
	n := p.templates.Sweep() + p.scopes.Sweep()
	hits, misses := p.templates.Stats()
	log.Debug("template cache: %d live, %d hits, %d misses", p.templates.Len(), hits, misses)
	return n
}

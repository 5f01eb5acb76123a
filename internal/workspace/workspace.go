// Package workspace loads a project directory into a program and keeps it in
// sync with the editor and the filesystem.
package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"bennypowers.dev/lupls/internal/cache"
	"bennypowers.dev/lupls/internal/log"
	"bennypowers.dev/lupls/internal/program"
	"bennypowers.dev/lupls/internal/service"
)

// Workspace is one project root with its configuration, program and service.
type Workspace struct {
	Root    string
	Config  Config
	Context *program.ProjectContext
	Service *service.Service

	fs   afero.Fs
	mu   sync.Mutex
	open map[string]bool
}

// New creates an empty workspace over fsys. Call Load to read the sources.
func New(fsys afero.Fs, root string, cfg Config) (*Workspace, error) {
	if root == "" {
		return nil, ErrNoRoot
	}
	root = path.Clean(filepath.ToSlash(root))
	ctx := program.NewProjectContext(root, fsys)
	if len(cfg.TemplateTags) > 0 {
		ctx.TemplateTags = append([]string(nil), cfg.TemplateTags...)
	}
	if cfg.LuposModule != "" {
		ctx.LuposModule = cfg.LuposModule
	}
	return &Workspace{
		Root:    root,
		Config:  cfg,
		Context: ctx,
		Service: service.New(ctx, cache.DefaultIdleTimeout),
		fs:      fsys,
		open:    make(map[string]bool),
	}, nil
}

// Open reads the configuration under root and loads every matching file.
// Configuration and load errors are returned alongside a usable workspace.
func Open(fsys afero.Fs, root string) (*Workspace, error) {
	cfg, cfgErr := LoadConfig(fsys, root)
	if errors.Is(cfgErr, ErrNoRoot) {
		return nil, cfgErr
	}
	w, err := New(fsys, root, cfg)
	if err != nil {
		return nil, err
	}
	return w, multierr.Append(cfgErr, w.Load())
}

// Fs returns the filesystem the workspace reads from.
func (w *Workspace) Fs() afero.Fs { return w.fs }

// Matches reports whether path is a source file under the configured globs.
func (w *Workspace) Matches(p string) bool {
	rel, ok := w.relative(p)
	if !ok {
		return false
	}
	for _, pattern := range w.Config.Exclude {
		if match, _ := doublestar.Match(pattern, rel); match {
			return false
		}
	}
	for _, pattern := range w.Config.Include {
		if match, _ := doublestar.Match(pattern, rel); match {
			return true
		}
	}
	return false
}

func (w *Workspace) relative(p string) (string, bool) {
	p = path.Clean(filepath.ToSlash(p))
	if p == w.Root {
		return "", false
	}
	prefix := strings.TrimSuffix(w.Root, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return strings.TrimPrefix(p, prefix), true
}

// Load walks the root and adds every matching file to the program.
func (w *Workspace) Load() error {
	var errs error
	var loaded int
	err := afero.Walk(w.fs, w.Root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			errs = multierr.Append(errs, &LoadError{Path: p, Err: err})
			return nil
		}
		p = filepath.ToSlash(p)
		if info.IsDir() {
			if info.Name() == "node_modules" || (strings.HasPrefix(info.Name(), ".") && p != w.Root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.Matches(p) {
			return nil
		}
		if _, err := w.Context.Program.LoadFile(p); err != nil {
			errs = multierr.Append(errs, &LoadError{Path: p, Err: err})
			return nil
		}
		loaded++
		return nil
	})
	if err != nil {
		errs = multierr.Append(errs, &LoadError{Path: w.Root, Err: err})
	}
	w.Context.Resolver.Modules.Reset()
	w.Service.Refresh()
	log.Info("Loaded %d files from %s", loaded, w.Root)
	return errs
}

// SetFile stores the editor's text for an open document.
func (w *Workspace) SetFile(p, text string) error {
	w.mu.Lock()
	w.open[p] = true
	w.mu.Unlock()
	known := w.Context.Program.File(p) != nil
	if _, err := w.Context.Program.SetFile(p, text); err != nil {
		return &LoadError{Path: p, Err: err}
	}
	w.changed(!known)
	return nil
}

// Close marks a document as closed and falls back to its disk contents.
func (w *Workspace) Close(p string) error {
	w.mu.Lock()
	delete(w.open, p)
	w.mu.Unlock()
	return w.Reload(p)
}

// IsOpen reports whether the editor owns the contents of path.
func (w *Workspace) IsOpen(p string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open[p]
}

// Reload rereads path from disk after an external change. Open documents
// are left alone; files that vanished or no longer match are removed.
func (w *Workspace) Reload(p string) error {
	if w.IsOpen(p) {
		return nil
	}
	data, err := afero.ReadFile(w.fs, p)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		w.Remove(p)
		return nil
	}
	if err != nil {
		return &LoadError{Path: p, Err: err}
	}
	if !w.Matches(p) {
		w.Remove(p)
		return nil
	}
	known := w.Context.Program.File(p) != nil
	if _, err := w.Context.Program.SetFile(p, string(data)); err != nil {
		return &LoadError{Path: p, Err: err}
	}
	w.changed(!known)
	return nil
}

// Remove drops path from the program and forgets its cached templates.
func (w *Workspace) Remove(p string) {
	if w.Context.Program.RemoveFile(p) {
		w.Service.Forget(p)
		w.changed(true)
	}
}

// changed starts a new analysis tick. Module resolution is only cached for
// hits, so it is reset whenever the set of files changes.
func (w *Workspace) changed(files bool) {
	if files {
		w.Context.Resolver.Modules.Reset()
	}
	w.Service.EndTick()
}

// FileDiagnostics pairs a file with its diagnostics.
type FileDiagnostics struct {
	Path        string
	Diagnostics []service.Diagnostic
}

// Check returns the diagnostics of every project source file that has any,
// ordered by path.
func (w *Workspace) Check() ([]FileDiagnostics, error) {
	var out []FileDiagnostics
	var errs error
	for _, f := range w.Context.Program.SourceFiles() {
		if f.IsDeclaration() || f.InNodeModules() || !w.Matches(f.Path) {
			continue
		}
		diags, err := w.Service.Diagnostics(f.Path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(diags) > 0 {
			out = append(out, FileDiagnostics{Path: f.Path, Diagnostics: diags})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, errs
}

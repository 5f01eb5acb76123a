// Package program holds the host-language model the language service reads:
// versioned source file snapshots and the name resolution built on them.
package program

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"bennypowers.dev/lupls/internal/parser/ts"
)

// Program is the set of host files known to the service. Every mutation
// produces a new SourceFile snapshot with a program-wide unique version.
type Program struct {
	mu      sync.RWMutex
	fs      afero.Fs
	files   map[string]*SourceFile
	version uint64
}

// New returns an empty program reading files from fs.
func New(fs afero.Fs) *Program {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Program{fs: fs, files: make(map[string]*SourceFile)}
}

// Fs is the filesystem files are loaded from.
func (p *Program) Fs() afero.Fs { return p.fs }

// Version is the version assigned to the most recent snapshot.
func (p *Program) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// SetFile parses text and stores it as the current snapshot of path. When the
// text is unchanged the existing snapshot is returned as is.
func (p *Program) SetFile(path, text string) (*SourceFile, error) {
	p.mu.RLock()
	if old, ok := p.files[path]; ok && old.Text == text {
		p.mu.RUnlock()
		return old, nil
	}
	p.mu.RUnlock()

	parsed, err := ts.ParseFile(path, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.version++
	f := &SourceFile{File: parsed, Path: path, Text: text, Version: p.version}
	p.files[path] = f
	return f, nil
}

// LoadFile reads path from the filesystem unless it is already present.
func (p *Program) LoadFile(path string) (*SourceFile, error) {
	if f := p.File(path); f != nil {
		return f, nil
	}
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, err
	}
	return p.SetFile(path, string(data))
}

// RemoveFile drops path and reports whether it was present.
func (p *Program) RemoveFile(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.files[path]; !ok {
		return false
	}
	delete(p.files, path)
	p.version++
	return true
}

// File returns the current snapshot of path, or nil.
func (p *Program) File(path string) *SourceFile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.files[path]
}

// SourceFiles returns every snapshot ordered by path.
func (p *Program) SourceFiles() []*SourceFile {
	p.mu.RLock()
	files := make([]*SourceFile, 0, len(p.files))
	for _, f := range p.files {
		files = append(files, f)
	}
	p.mu.RUnlock()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// exists reports whether path is known or present on disk.
func (p *Program) exists(path string) bool {
	if p.File(path) != nil {
		return true
	}
	info, err := p.fs.Stat(path)
	return err == nil && !info.IsDir()
}

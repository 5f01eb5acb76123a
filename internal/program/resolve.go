package program

import (
	"encoding/json"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// ModuleResolver maps import specifiers to file paths the way the host
// compiler does for bundler-style projects.
type ModuleResolver struct {
	prog *Program

	mu    sync.Mutex
	cache map[string]string
}

func newModuleResolver(prog *Program) *ModuleResolver {
	return &ModuleResolver{prog: prog, cache: make(map[string]string)}
}

// Reset forgets cached resolutions. Failed lookups are never cached and
// cached targets are checked for existence on use.
func (m *ModuleResolver) Reset() {
	m.mu.Lock()
	m.cache = make(map[string]string)
	m.mu.Unlock()
}

// Resolve returns the file that specifier refers to when imported from the
// file at from.
func (m *ModuleResolver) Resolve(from, specifier string) (string, bool) {
	key := path.Dir(from) + "\x00" + specifier
	m.mu.Lock()
	p, ok := m.cache[key]
	m.mu.Unlock()
	if ok && m.prog.exists(p) {
		return p, true
	}

	var resolved string
	if isRelative(specifier) {
		resolved = m.firstExisting(candidates(path.Join(path.Dir(from), specifier)))
	} else {
		resolved = m.resolvePackage(path.Dir(from), specifier)
	}

	if resolved == "" {
		return "", false
	}
	m.mu.Lock()
	m.cache[key] = resolved
	m.mu.Unlock()
	return resolved, true
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".." || strings.HasPrefix(specifier, "/")
}

// candidates lists the files a module path without a resolved extension may
// name, in lookup order.
func candidates(base string) []string {
	switch {
	case strings.HasSuffix(base, ".ts"), strings.HasSuffix(base, ".tsx"):
		return []string{base}
	case strings.HasSuffix(base, ".js"):
		trimmed := strings.TrimSuffix(base, ".js")
		return []string{trimmed + ".ts", trimmed + ".tsx", trimmed + ".d.ts", base}
	}
	return []string{
		base + ".ts",
		base + ".tsx",
		base + ".d.ts",
		base + ".js",
		base + "/index.ts",
		base + "/index.d.ts",
		base + "/index.js",
	}
}

func (m *ModuleResolver) firstExisting(paths []string) string {
	for _, p := range paths {
		if m.prog.exists(p) {
			return p
		}
	}
	return ""
}

// splitPackage separates `@scope/name/sub/path` into the package name and
// the subpath.
func splitPackage(specifier string) (pkg, sub string) {
	parts := strings.Split(specifier, "/")
	n := 1
	if strings.HasPrefix(specifier, "@") && len(parts) > 1 {
		n = 2
	}
	if len(parts) <= n {
		return specifier, ""
	}
	return strings.Join(parts[:n], "/"), strings.Join(parts[n:], "/")
}

type packageManifest struct {
	Types   string `json:"types"`
	Typings string `json:"typings"`
	Module  string `json:"module"`
	Main    string `json:"main"`
}

func (m *ModuleResolver) resolvePackage(dir, specifier string) string {
	pkg, sub := splitPackage(specifier)
	for {
		pkgDir := path.Join(dir, "node_modules", pkg)
		if info, err := m.prog.fs.Stat(pkgDir); err == nil && info.IsDir() {
			if sub != "" {
				return m.firstExisting(candidates(path.Join(pkgDir, sub)))
			}
			if found := m.packageEntry(pkgDir); found != "" {
				return found
			}
			return m.firstExisting(candidates(path.Join(pkgDir, "index")))
		}
		parent := path.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (m *ModuleResolver) packageEntry(pkgDir string) string {
	data, err := afero.ReadFile(m.prog.fs, path.Join(pkgDir, "package.json"))
	if err != nil {
		return ""
	}
	var manifest packageManifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return ""
	}
	for _, entry := range []string{manifest.Types, manifest.Typings, manifest.Module, manifest.Main} {
		if entry == "" {
			continue
		}
		full := path.Join(pkgDir, entry)
		if m.prog.exists(full) {
			if strings.HasSuffix(full, ".js") {
				// Prefer sibling declarations over compiled output.
				if found := m.firstExisting(candidates(full)); found != "" {
					return found
				}
			}
			return full
		}
		if found := m.firstExisting(candidates(full)); found != "" {
			return found
		}
	}
	return ""
}

// Package imports computes where a component or binding should be imported
// from, and the edit that adds the import.
package imports

import (
	"path"
	"regexp"
	"strings"

	"bennypowers.dev/lupls/internal/analyzer"
	"bennypowers.dev/lupls/internal/program"
)

// Resolver answers import questions for one project.
type Resolver struct {
	ctx      *program.ProjectContext
	analyzer *analyzer.Analyzer
}

// NewResolver creates the import resolver of ctx. Export maps come from a.
func NewResolver(ctx *program.ProjectContext, a *analyzer.Analyzer) *Resolver {
	return &Resolver{ctx: ctx, analyzer: a}
}

// resolveIndex finds the file a directory-like module path names.
func (r *Resolver) resolveIndex(dir string) *program.SourceFile {
	for _, candidate := range []string{dir + ".ts", dir + "/index.ts", dir + "/index.d.ts"} {
		if f := r.ctx.Program.File(candidate); f != nil {
			return f
		}
	}
	return nil
}

var (
	packagePattern = regexp.MustCompile(`/node_modules/((?:@[^/]+/)?[^/]+)`)
	pucellePattern = regexp.MustCompile(`/pucelle/([^/]+)`)
	tsExtension    = regexp.MustCompile(`(?:/index)?(?:\.d)?\.ts$`)
)

// BestImportPath returns the module path fromFile should use to import name
// declared in declFile. A shallower index file re-exporting name is
// preferred over the declaring file.
func (r *Resolver) BestImportPath(name, declFile, fromFile string) (string, bool) {
	if m := packagePattern.FindStringSubmatch(declFile); m != nil {
		return m[1], true
	}

	fromDir := path.Dir(fromFile)
	rel, ok := relative(fromDir, declFile)
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	pieces := strings.Split(rel, "/")
	best := tsExtension.ReplaceAllString(rel, "")

	// From the deepest candidate directory to the shallowest.
	for i := len(pieces) - 2; i >= 0; i-- {
		if pieces[i] == "." || pieces[i] == ".." {
			break
		}
		candidate := strings.Join(pieces[:i+1], "/")
		index := r.resolveIndex(path.Join(fromDir, candidate))
		if index == nil {
			continue
		}
		if _, ok := r.analyzer.ExportedMembers(index)[name]; ok {
			best = candidate
		}
	}

	if strings.Contains(best, "/pucelle/") {
		if m := pucellePattern.FindStringSubmatch(best); m != nil {
			return "@pucelle/" + m[1], true
		}
	}
	return best, true
}

// relative is path.Rel for slash paths, which the path package lacks.
func relative(fromDir, target string) (string, bool) {
	if !path.IsAbs(fromDir) || !path.IsAbs(target) {
		return "", false
	}
	from := splitPath(fromDir)
	to := splitPath(target)
	i := 0
	for i < len(from) && i < len(to) && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	if len(parts) == 0 {
		return ".", true
	}
	return strings.Join(parts, "/"), true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(path.Clean(p), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

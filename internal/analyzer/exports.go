package analyzer

import "bennypowers.dev/lupls/internal/program"

// ExportMap maps an exported component or binding name to the file that
// declares it.
type ExportMap map[string]string

type exportRecord struct {
	version uint64
	members ExportMap
}

// ExportedMembers returns the components and bindings file declares or
// re-exports. The map is kept until file changes or is expired along with a
// file it re-exports from.
func (a *Analyzer) ExportedMembers(file *program.SourceFile) ExportMap {
	return a.exportedMembers(file, make(map[string]bool))
}

func (a *Analyzer) exportedMembers(file *program.SourceFile, visiting map[string]bool) ExportMap {
	if rec, ok := a.exports[file.Path]; ok && rec.version == file.Version {
		return rec.members
	}
	members := make(ExportMap)
	for _, c := range a.ComponentsByFile(file.Path) {
		members[c.Name] = file.Path
	}
	for _, b := range a.BindingsByFile(file.Path) {
		members[b.Class.Name] = file.Path
	}
	if visiting[file.Path] {
		return members
	}
	visiting[file.Path] = true

	for _, exp := range file.Exports {
		if exp.Source == "" {
			continue
		}
		target, ok := a.ctx.Resolver.Module(file, exp.Source)
		if !ok {
			continue
		}
		targetMembers := a.exportedMembers(target, visiting)
		if exp.Star {
			for name, from := range targetMembers {
				if _, own := members[name]; !own {
					members[name] = from
				}
			}
			continue
		}
		if from, ok := targetMembers[exp.LocalName]; ok {
			members[exp.Name] = from
		}
	}
	a.exports[file.Path] = exportRecord{version: file.Version, members: members}
	return members
}

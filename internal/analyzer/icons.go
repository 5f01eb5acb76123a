package analyzer

import (
	"regexp"

	"bennypowers.dev/lupls/internal/program"
)

var svgName = regexp.MustCompile(`([\w-]+)\.svg$`)

// fileIcons returns the icons file imports, `import Name from './close.svg'`
// registers `close`.
func fileIcons(file *program.SourceFile) []*Icon {
	var icons []*Icon
	for _, imp := range file.Imports {
		m := svgName.FindStringSubmatch(imp.Source)
		if m == nil {
			continue
		}
		icons = append(icons, &Icon{
			Name:        m[1],
			Path:        imp.Source,
			Description: imp.Source,
			File:        file,
			Import:      imp,
		})
	}
	return icons
}

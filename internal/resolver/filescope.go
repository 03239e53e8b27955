package resolver

import "path/filepath"

// FileScope is for languages where the file itself is the grouping unit
// (go packages). No backward scan, the unit is computed from the path.
type FileScope struct {
	// FromDir derives the unit from the containing directory name
	// instead of the file base name.
	FromDir bool
}

func (s *FileScope) Resolve(lines []string, testLine int, path string) *Context {
	unit := baseName(path)
	if s.FromDir {
		unit = filepath.Base(filepath.Dir(path))
	}
	return &Context{Describe: unit, NestedLevel: 0, FileScope: true}
}

package locator

import (
	"runt/internal/lang"
	"runt/internal/resolver"
)

// TestInfo is the located test's identity and position.
// Lines and columns are 1-based. Read-only after creation.
type TestInfo struct {
	Name     string
	Path     string // absolute
	Line     int
	Col      int
	Language string
	Context  *resolver.Context
}

// FindNearest scans backward from cursorLine to the first line, inclusive.
// Proximity to the cursor dominates; pattern order only breaks ties within
// a single line. A nil result means no test above the cursor, not an error.
func FindNearest(lines []string, cursorLine int, path string, profile *lang.Profile) *TestInfo {
	if len(lines) == 0 || len(profile.Patterns) == 0 { return nil }
	if cursorLine > len(lines) { cursorLine = len(lines) }

	for l := cursorLine; l >= 1; l-- {
		info := matchLine(lines[l-1], l, path, profile)
		if info != nil { return info }
	}
	return nil
}

// FindAll enumerates every test in the buffer in ascending line order.
// At most one TestInfo per line, the first matching pattern claims it.
func FindAll(lines []string, path string, profile *lang.Profile) []TestInfo {
	found := []TestInfo{}
	for l := 1; l <= len(lines); l++ {
		info := matchLine(lines[l-1], l, path, profile)
		if info != nil { found = append(found, *info) }
	}
	return found
}

func matchLine(line string, lineNum int, path string, profile *lang.Profile) *TestInfo {
	for _, p := range profile.Patterns {
		name, col, ok := p.Match(line)
		if !ok { continue }
		return &TestInfo{
			Name:     name,
			Path:     path,
			Line:     lineNum,
			Col:      col,
			Language: profile.Language,
		}
	}
	return nil
}

// WithContext attaches the resolved enclosing context, dispatched by the
// language tag's registered strategy.
func WithContext(info *TestInfo, lines []string) *TestInfo {
	if info == nil { return nil }
	info.Context = resolver.Resolve(lines, info.Line, info.Path, info.Language)
	return info
}

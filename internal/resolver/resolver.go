package resolver

import (
	"path/filepath"
	"strings"
)

// Context describes the suite/class/module chain enclosing a test.
type Context struct {
	Describe    string
	NestedLevel int
	FileScope   bool
}

// Strategy derives the enclosing context for a test found at testLine (1-based).
// A nil result means the test is ungrouped, it is not an error.
type Strategy interface {
	Resolve(lines []string, testLine int, path string) *Context
}

var strategies = map[string]Strategy{}

// Register binds a strategy to a language tag, overwriting any prior binding.
// Adding a language means registering a strategy here, not branching in the locator.
func Register(tag string, s Strategy) {
	strategies[tag] = s
}

func For(tag string) Strategy {
	return strategies[tag]
}

// Resolve dispatches to the registered strategy for the tag.
func Resolve(lines []string, testLine int, path string, tag string) *Context {
	s := strategies[tag]
	if s == nil { return nil }
	return s.Resolve(lines, testLine, path)
}

func indentWidth(line string) int {
	width := 0
	for _, ch := range line {
		if ch == ' ' { width++; continue }
		if ch == '\t' { width += 4; continue }
		break
	}
	return width
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package resolver

import (
	"regexp"
	"strings"
)

// BraceModule resolves nested module blocks closed by an explicit brace
// (rust mod blocks, zig container decls). Same indent-stack discipline as
// IndentStack plus a pop on a line that is solely a closing brace.
type BraceModule struct {
	Open      []*regexp.Regexp
	Separator string
}

func (s *BraceModule) Resolve(lines []string, testLine int, path string) *Context {
	stack := []scope{}

	limit := testLine - 1
	if limit > len(lines) { limit = len(lines) }

	for i := 0; i < limit; i++ {
		line := lines[i]
		indent := indentWidth(line)

		if strings.TrimSpace(line) == "}" {
			if len(stack) > 0 && indent <= stack[len(stack)-1].indent {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		name, ok := s.openName(line)
		if !ok { continue }

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, scope{name: name, indent: indent})
	}

	if len(stack) == 0 {
		// no enclosing module at all, scope falls back to the file
		return &Context{Describe: baseName(path), NestedLevel: 0, FileScope: true}
	}

	names := make([]string, len(stack))
	for i, sc := range stack { names[i] = sc.name }

	return &Context{
		Describe:    strings.Join(names, s.Separator),
		NestedLevel: len(stack) - 1,
	}
}

func (s *BraceModule) openName(line string) (string, bool) {
	for _, re := range s.Open {
		m := re.FindStringSubmatch(line)
		if m != nil { return m[1], true }
	}
	return "", false
}

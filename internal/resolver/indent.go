package resolver

import (
	"regexp"
	"strings"
)

// IndentStack resolves nesting for languages whose suite blocks close
// implicitly by dedent (python classes, jest/mocha describe blocks).
type IndentStack struct {
	Open      []*regexp.Regexp // each with one capture, the suite name
	Separator string
}

type scope struct {
	name   string
	indent int
}

func (s *IndentStack) Resolve(lines []string, testLine int, path string) *Context {
	stack := []scope{}

	limit := testLine - 1
	if limit > len(lines) { limit = len(lines) }

	for i := 0; i < limit; i++ {
		line := lines[i]
		name, ok := s.openName(line)
		if !ok { continue }
		indent := indentWidth(line)

		// a sibling or deeper scope closed implicitly, nothing tracks
		// the close token for this family
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, scope{name: name, indent: indent})
	}

	if len(stack) == 0 { return nil }

	names := make([]string, len(stack))
	for i, sc := range stack { names[i] = sc.name }

	return &Context{
		Describe:    strings.Join(names, s.Separator),
		NestedLevel: len(stack) - 1,
	}
}

func (s *IndentStack) openName(line string) (string, bool) {
	for _, re := range s.Open {
		m := re.FindStringSubmatch(line)
		if m != nil { return m[1], true }
	}
	return "", false
}

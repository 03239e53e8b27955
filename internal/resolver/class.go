package resolver

import "regexp"

// SingleClass resolves the one enclosing class for languages where a test
// method lives in exactly one top-level class (java, c#). At most one
// context level is ever reported.
type SingleClass struct {
	Open      *regexp.Regexp // class-like opener, one capture
	Terminate *regexp.Regexp // any other same-or-shallower scope opener
}

func (s *SingleClass) Resolve(lines []string, testLine int, path string) *Context {
	start := testLine - 2
	if start > len(lines)-1 { start = len(lines) - 1 }

	for i := start; i >= 0; i-- {
		line := lines[i]
		if indentWidth(line) != 0 { continue }

		m := s.Open.FindStringSubmatch(line)
		if m != nil {
			return &Context{Describe: m[1], NestedLevel: 0}
		}
		if s.Terminate != nil && s.Terminate.MatchString(line) {
			// hit another top-level scope before any class
			return nil
		}
	}
	return nil
}

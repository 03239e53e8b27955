package resolver

import "regexp"

// default strategy bindings, overridable via Register
func init() {
	indent := &IndentStack{
		Open: []*regexp.Regexp{
			regexp.MustCompile(`^\s*class\s+(\w+)`),
			regexp.MustCompile("^\\s*describe\\s*\\(\\s*[\"'`](.+?)[\"'`]"),
			regexp.MustCompile("^\\s*context\\s*\\(\\s*[\"'`](.+?)[\"'`]"),
		},
		Separator: " > ",
	}
	Register("python", indent)
	Register("javascript", indent)
	Register("typescript", indent)

	Register("java", &SingleClass{
		Open:      regexp.MustCompile(`^(?:public\s+|final\s+|abstract\s+)*class\s+(\w+)`),
		Terminate: regexp.MustCompile(`^(?:public\s+|final\s+|abstract\s+)*(?:interface|enum|record)\s+\w+`),
	})

	Register("go", &FileScope{FromDir: true})

	brace := &BraceModule{
		Open: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:pub\s+)?mod\s+(\w+)\s*\{`),
			regexp.MustCompile(`^\s*(?:pub\s+)?const\s+(\w+)\s*=\s*(?:struct|union|enum)`),
		},
		Separator: "::",
	}
	Register("rust", brace)
	Register("zig", brace)
}

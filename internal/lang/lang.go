package lang

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var ErrNoProfile = errors.New("no language profile registered")
var ErrPattern = errors.New("invalid test pattern")

// Pattern is a compiled test-detection expression.
// Exactly one capturing group, the test name.
type Pattern struct {
	Expr string
	re   *regexp.Regexp
}

func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %q does not compile: %v", ErrPattern, expr, err)
	}
	if re.NumSubexp() != 1 {
		return Pattern{}, fmt.Errorf("%w: %q must have exactly one capturing group, has %d",
			ErrPattern, expr, re.NumSubexp())
	}
	return Pattern{Expr: expr, re: re}, nil
}

// Match returns the captured test name and the 1-based column
// of the match start. ok is false if the line does not match.
func (p Pattern) Match(line string) (name string, col int, ok bool) {
	loc := p.re.FindStringSubmatchIndex(line)
	if loc == nil { return "", 0, false }
	// loc[2]:loc[3] is the single capture
	if loc[2] < 0 { return "", 0, false }
	return line[loc[2]:loc[3]], loc[0] + 1, true
}

type Profile struct {
	Language         string
	Patterns         []Pattern
	Commands         []string
	DebugCommands    []string
	CoverageCommands []string
	RootMarkers      []string
	TestFileNaming   []string
}

// NewProfile compiles and validates every pattern. A single bad
// pattern rejects the whole profile, nothing is registered half-way.
func NewProfile(tag string, patterns []string, commands []string) (*Profile, error) {
	p := &Profile{Language: tag, Commands: commands}
	for _, expr := range patterns {
		compiled, err := CompilePattern(expr)
		if err != nil { return nil, fmt.Errorf("profile %s: %w", tag, err) }
		p.Patterns = append(p.Patterns, compiled)
	}
	return p, nil
}

type Registry struct {
	mu       sync.Mutex
	profiles map[string]*Profile
}

func NewRegistry() *Registry {
	return &Registry{profiles: map[string]*Profile{}}
}

// Register overwrites any prior profile for the tag.
func (r *Registry) Register(tag string, p *Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[tag] = p
}

func (r *Registry) Lookup(tag string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, found := r.profiles[tag]
	if !found { return nil, fmt.Errorf("%w for %q", ErrNoProfile, tag) }
	return p, nil
}

var extensions = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".java": "java",
	".rs":   "rust",
	".zig":  "zig",
}

// TagForFile maps a file extension to its language tag, "" when unknown.
func TagForFile(path string) string {
	dot := strings.LastIndex(path, ".")
	if dot < 0 { return "" }
	return extensions[path[dot:]]
}

func (r *Registry) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := make([]string, 0, len(r.profiles))
	for tag := range r.profiles { tags = append(tags, tag) }
	return tags
}

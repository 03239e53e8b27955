package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"runt/internal/lang"
	"runt/internal/locator"
	"runt/internal/naming"
)

var ErrNoTemplate = errors.New("no command template configured")
var ErrEmptyArgv = errors.New("command template expanded to an empty command")

type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeDebug    Mode = "debug"
	ModeCoverage Mode = "coverage"
)

// Build expands the first template of the mode's list into an argument
// vector. Debug and coverage fall back to the normal list when absent.
// The split is plain whitespace, quoting is not interpreted.
func Build(p *lang.Profile, info *locator.TestInfo, mode Mode) ([]string, error) {
	templates := p.Commands
	switch mode {
	case ModeDebug:
		if len(p.DebugCommands) > 0 { templates = p.DebugCommands }
	case ModeCoverage:
		if len(p.CoverageCommands) > 0 { templates = p.CoverageCommands }
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w for %s (%s)", ErrNoTemplate, p.Language, mode)
	}

	// deliberately the first template only, no heuristic selection
	root := naming.ProjectRoot(info.Path, p.RootMarkers)
	expanded := Expand(templates[0], info, root)

	argv := strings.Fields(expanded)
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: template %q", ErrEmptyArgv, templates[0])
	}
	return argv, nil
}

// Expand substitutes the placeholder tokens:
//
//	%s  test name
//	%f  path relative to the project root
//	%F  absolute path
//	%d  containing directory
//	%n  file base name without extension
//	%e  file extension
//
// One left-to-right pass over the template; substituted values are never
// rescanned, so a test name containing %f stays literal. Any other
// %-sequence passes through unchanged.
func Expand(tpl string, info *locator.TestInfo, root string) string {
	rel := info.Path
	if root != "" {
		if r, err := filepath.Rel(root, info.Path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	base := filepath.Base(info.Path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")

	values := map[byte]string{
		's': info.Name,
		'f': rel,
		'F': info.Path,
		'd': filepath.Dir(info.Path),
		'n': strings.TrimSuffix(base, filepath.Ext(base)),
		'e': ext,
	}

	var out strings.Builder
	for i := 0; i < len(tpl); i++ {
		if tpl[i] == '%' && i+1 < len(tpl) {
			if v, ok := values[tpl[i+1]]; ok {
				out.WriteString(v)
				i++
				continue
			}
		}
		out.WriteByte(tpl[i])
	}
	return out.String()
}

package naming

import (
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"runt/internal/lang"
)

// common directories test files live in, checked beside the source dir
var testDirs = []string{"test", "tests", "__tests__", "spec"}

// ProjectRoot walks upward from the file's directory looking for any of the
// profile's root markers. Falls back to the enclosing git worktree, then to
// the file's own directory.
func ProjectRoot(path string, markers []string) string {
	dir := filepath.Dir(path)

	for d := dir; ; d = filepath.Dir(d) {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil { return d }
		}
		if d == filepath.Dir(d) { break } // filesystem root
	}

	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		wt, err := repo.Worktree()
		if err == nil { return wt.Filesystem.Root() }
	}

	return dir
}

// IsTestFile reports whether the path matches the profile's
// test-file naming globs.
func IsTestFile(path string, p *lang.Profile) bool {
	base := filepath.Base(path)
	for _, pattern := range p.TestFileNaming {
		ok, err := filepath.Match(pattern, base)
		if err == nil && ok { return true }
	}
	return false
}

// FindTestFile derives the test file for a source file from per-language
// naming rules and checks candidates on the filesystem. Best effort,
// not a bijection.
func FindTestFile(src string, p *lang.Profile) (string, bool) {
	if IsTestFile(src, p) { return src, true }

	dir := filepath.Dir(src)
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	candidates := []string{
		"test_" + name + ext,
		name + "_test" + ext,
		name + ".test" + ext,
	}

	dirs := []string{dir}
	for _, d := range testDirs {
		dirs = append(dirs, filepath.Join(dir, d))
	}
	root := ProjectRoot(src, p.RootMarkers)
	if root != dir {
		for _, d := range testDirs {
			dirs = append(dirs, filepath.Join(root, d))
		}
	}

	for _, d := range dirs {
		for _, c := range candidates {
			full := filepath.Join(d, c)
			if _, err := os.Stat(full); err == nil { return full, true }
		}
	}
	return "", false
}

// FindSourceFile is the reverse direction: strip the test naming rule and
// probe the test file's own directory, its parent and the project root.
func FindSourceFile(test string, p *lang.Profile) (string, bool) {
	dir := filepath.Dir(test)
	base := filepath.Base(test)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	stripped := name
	switch {
	case strings.HasPrefix(name, "test_"):
		stripped = strings.TrimPrefix(name, "test_")
	case strings.HasSuffix(name, "_test"):
		stripped = strings.TrimSuffix(name, "_test")
	case strings.HasSuffix(name, ".test"):
		stripped = strings.TrimSuffix(name, ".test")
	}
	if stripped == name { return "", false }

	dirs := []string{dir, filepath.Dir(dir)}
	root := ProjectRoot(test, p.RootMarkers)
	if root != dir { dirs = append(dirs, root) }

	for _, d := range dirs {
		full := filepath.Join(d, stripped+ext)
		if _, err := os.Stat(full); err == nil { return full, true }
	}
	return "", false
}

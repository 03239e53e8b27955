package locator

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"

	"runt/internal/lang"
)

func goProfile(t *testing.T) *lang.Profile {
	p, err := lang.NewProfile("go",
		[]string{`^func\s+(Test\w+)`, `^func\s+(Benchmark\w+)`},
		[]string{"go test -run ^%s$ %d"})
	require.NoError(t, err)
	return p
}

func TestFindNearestAtCursorBelowTest(t *testing.T) {
	lines := make([]string, 20)
	lines[9] = "func TestAdd(t *testing.T) {"

	info := FindNearest(lines, 15, "/p/add_test.go", goProfile(t))

	require.NotNil(t, info)
	assert.Equal(t, "TestAdd", info.Name)
	assert.Equal(t, 10, info.Line)
	assert.Equal(t, 1, info.Col)
	assert.Equal(t, "go", info.Language)
	assert.Equal(t, "/p/add_test.go", info.Path)
}

func TestFindNearestProximityDominatesPatternOrder(t *testing.T) {
	// the benchmark is closer to the cursor than the test, so the
	// later pattern wins on proximity
	lines := []string{
		"func TestAdd(t *testing.T) {",
		"}",
		"func BenchmarkAdd(b *testing.B) {",
		"}",
	}
	info := FindNearest(lines, 4, "/p/add_test.go", goProfile(t))

	require.NotNil(t, info)
	assert.Equal(t, "BenchmarkAdd", info.Name)
	assert.Equal(t, 3, info.Line)
}

func TestFindNearestPatternOrderBreaksTieOnOneLine(t *testing.T) {
	p, err := lang.NewProfile("x",
		[]string{`test\s+"(.+?)"`, `(\w+) tagged`},
		[]string{"run %s"})
	require.NoError(t, err)

	lines := []string{`test "both" tagged`}
	info := FindNearest(lines, 1, "/p/f.x", p)

	require.NotNil(t, info)
	assert.Equal(t, "both", info.Name)
}

func TestFindNearestMissIsNil(t *testing.T) {
	lines := []string{
		"package main",
		"func helper() {}",
	}
	info := FindNearest(lines, 2, "/p/main.go", goProfile(t))
	assert.Nil(t, info)
}

func TestFindNearestCursorPastBufferEnd(t *testing.T) {
	lines := []string{"func TestOnly(t *testing.T) {"}
	info := FindNearest(lines, 100, "/p/x_test.go", goProfile(t))

	require.NotNil(t, info)
	assert.Equal(t, "TestOnly", info.Name)
}

func TestFindNearestIgnoresLinesBelowCursor(t *testing.T) {
	lines := []string{
		"package main",
		"",
		"func TestLater(t *testing.T) {",
	}
	info := FindNearest(lines, 2, "/p/x_test.go", goProfile(t))
	assert.Nil(t, info)
}

func TestFindAllAscendingOnePerLine(t *testing.T) {
	code := `package main

func TestOne(t *testing.T) {}

func BenchmarkTwo(b *testing.B) {}

func TestThree(t *testing.T) {}`

	lines := strings.Split(code, "\n")
	all := FindAll(lines, "/p/x_test.go", goProfile(t))

	require.Len(t, all, 3)
	assert.Equal(t, "TestOne", all[0].Name)
	assert.Equal(t, "BenchmarkTwo", all[1].Name)
	assert.Equal(t, "TestThree", all[2].Name)

	last := 0
	for _, info := range all {
		assert.Greater(t, info.Line, last)
		last = info.Line
	}
}

func TestFindAllEmptyBuffer(t *testing.T) {
	all := FindAll(nil, "/p/x_test.go", goProfile(t))
	assert.Empty(t, all)
}

func TestWithContextAttachesFileScope(t *testing.T) {
	lines := []string{"func TestAdd(t *testing.T) {"}
	info := FindNearest(lines, 1, "/home/u/proj/mathutil/add_test.go", goProfile(t))
	require.NotNil(t, info)

	info = WithContext(info, lines)
	require.NotNil(t, info.Context)
	assert.Equal(t, "mathutil", info.Context.Describe)
	assert.True(t, info.Context.FileScope)
}

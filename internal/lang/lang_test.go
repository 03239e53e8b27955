package lang

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCompilePattern(t *testing.T) {
	p, err := CompilePattern(`^func\s+(Test\w+)`)
	assert.NoError(t, err)

	name, col, ok := p.Match("func TestAdd(t *testing.T) {")
	assert.True(t, ok)
	assert.Equal(t, "TestAdd", name)
	assert.Equal(t, 1, col)

	_, _, ok = p.Match("func helper() {")
	assert.False(t, ok)
}

func TestCompilePatternRejectsBadRegex(t *testing.T) {
	_, err := CompilePattern(`^func\s+(Test\w+`)
	assert.ErrorIs(t, err, ErrPattern)
}

func TestCompilePatternRejectsWrongCaptureCount(t *testing.T) {
	_, err := CompilePattern(`^func\s+Test\w+`)
	assert.ErrorIs(t, err, ErrPattern)

	_, err = CompilePattern(`^(func)\s+(Test\w+)`)
	assert.ErrorIs(t, err, ErrPattern)
}

func TestNewProfileRejectsAnyBadPattern(t *testing.T) {
	_, err := NewProfile("go", []string{`^func\s+(Test\w+)`, `no capture`}, []string{"go test"})
	assert.ErrorIs(t, err, ErrPattern)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	first, err := NewProfile("go", []string{`(Test\w+)`}, []string{"go test %s"})
	assert.NoError(t, err)
	second, err := NewProfile("go", []string{`(Bench\w+)`}, []string{"go test -bench %s"})
	assert.NoError(t, err)

	r.Register("go", first)
	r.Register("go", second)

	got, err := r.Lookup("go")
	assert.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestTagForFile(t *testing.T) {
	assert.Equal(t, "go", TagForFile("/p/add_test.go"))
	assert.Equal(t, "python", TagForFile("test_app.py"))
	assert.Equal(t, "", TagForFile("README"))
	assert.Equal(t, "", TagForFile("notes.txt"))
}

func TestRegistryLookupMiss(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("cobol")
	assert.ErrorIs(t, err, ErrNoProfile)
}

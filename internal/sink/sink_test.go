package sink

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"runt/internal/engine"
	"runt/internal/locator"
)

// runJob drives a real shell command to a terminal job, the way the
// engine leaves it for a sink.
func runJob(t *testing.T, script string) *engine.Job {
	t.Helper()
	info := &locator.TestInfo{Name: "TestAdd", Path: "/p/add_test.go", Line: 10, Language: "go"}
	job := engine.NewJob(info, []string{"sh", "-c", script}, engine.Options{})

	e := engine.New(nil, nil)
	require.NoError(t, e.Run(job))
	job.Wait()
	return job
}

func TestQuickfixPass(t *testing.T) {
	job := runJob(t, "echo 'ok mathutil 0.01s'")

	var buf bytes.Buffer
	q := NewQuickfix(&buf)
	require.NoError(t, q.Render(job))

	out := buf.String()
	assert.Contains(t, out, "PASS TestAdd")
	assert.Contains(t, out, "ok mathutil")
	assert.Empty(t, q.Entries())
}

func TestQuickfixFailParsesLocations(t *testing.T) {
	job := runJob(t, "echo '--- FAIL: TestAdd (0.00s)'; "+
		"echo '    add_test.go:14: Expected 4, got 5'; "+
		"echo 'exit status 1' >&2; exit 1")

	var buf bytes.Buffer
	q := NewQuickfix(&buf)
	require.NoError(t, q.Render(job))

	out := buf.String()
	assert.Contains(t, out, "FAIL TestAdd")
	assert.Contains(t, out, "add_test.go:14")
	assert.Contains(t, out, "exit status 1")

	entries := q.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "add_test.go", entries[0].File)
	assert.Equal(t, 14, entries[0].Line)
}

func TestQuickfixExportJSON(t *testing.T) {
	job := runJob(t, "echo 'app_test.py:7:11: assert failed'; exit 1")

	q := NewQuickfix(&bytes.Buffer{})
	require.NoError(t, q.Render(job))

	var buf bytes.Buffer
	require.NoError(t, q.ExportJSON(&buf))

	var entries []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "app_test.py", entries[0].File)
	assert.Equal(t, 7, entries[0].Line)
	assert.Equal(t, 11, entries[0].Col)
}

func TestParseSkipsPassingJob(t *testing.T) {
	job := runJob(t, "echo 'add_test.go:14: looks like a location'")
	assert.Empty(t, Parse(job))
}

func TestConsoleReplaysJob(t *testing.T) {
	console, err := NewConsole(nil)
	require.NoError(t, err)
	defer console.Stop()

	job := runJob(t, "echo 'hello from test'")
	require.NoError(t, console.Render(job))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(console.GetLines(0)) >= 2 { break }
		time.Sleep(10 * time.Millisecond)
	}

	joined := strings.Join(console.GetLines(0), "\n")
	assert.Contains(t, joined, "hello from test")
	assert.Contains(t, joined, "completed with exit code 0")
}

func TestConsoleStopTwice(t *testing.T) {
	console, err := NewConsole(nil)
	require.NoError(t, err)

	console.Stop()
	console.Stop() // must not panic
	assert.True(t, console.IsStopped())
}

func TestDefaultsRegistersQuickfix(t *testing.T) {
	sinks := Defaults(&bytes.Buffer{})
	assert.NotNil(t, sinks[engine.OutputQuickfix])

	if console, found := sinks[engine.OutputTerminal]; found {
		console.(*Console).Stop()
	}
}

package sink

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"runt/internal/engine"
)

// Entry is one failure location parsed out of the job's output.
type Entry struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
	Text string `json:"text"`
}

// locations like add_test.go:14: or /p/add_test.go:14:3:
var locationRe = regexp.MustCompile(`([\w./~-]+\.\w+):(\d+)(?::(\d+))?`)

// Quickfix renders a completed job as a structured list of failure
// locations followed by the captured output.
type Quickfix struct {
	Out io.Writer

	entries []Entry
}

func NewQuickfix(out io.Writer) *Quickfix {
	return &Quickfix{Out: out}
}

func (q *Quickfix) Render(job *engine.Job) error {
	q.entries = Parse(job)

	code, _ := job.ExitCode()
	if job.Passed() {
		color.New(color.FgGreen, color.Bold).Fprintf(q.Out, "PASS %s\n", job.Info.Name)
	} else if job.State() == engine.Cancelled {
		color.New(color.FgYellow, color.Bold).Fprintf(q.Out, "CANCELLED %s\n", job.Info.Name)
	} else if code == engine.ExitTimeout {
		color.New(color.FgRed, color.Bold).Fprintf(q.Out, "TIMEOUT %s\n", job.Info.Name)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(q.Out, "FAIL %s (exit %d)\n", job.Info.Name, code)
	}

	for _, entry := range q.entries {
		loc := fmt.Sprintf("%s:%d", entry.File, entry.Line)
		if entry.Col > 0 { loc = fmt.Sprintf("%s:%d", loc, entry.Col) }
		color.New(color.FgCyan).Fprintf(q.Out, "  %s", loc)
		fmt.Fprintf(q.Out, " %s\n", entry.Text)
	}

	for _, line := range job.Stdout() {
		fmt.Fprintln(q.Out, line)
	}
	for _, line := range job.Stderr() {
		fmt.Fprintln(q.Out, line)
	}
	return nil
}

// Entries returns what the last Render parsed.
func (q *Quickfix) Entries() []Entry {
	return append([]Entry{}, q.entries...)
}

// ExportJSON writes the parsed entries for machine consumers.
func (q *Quickfix) ExportJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(q.entries)
}

// Parse extracts file:line[:col] locations from both output streams of a
// failed job. A passing job has no entries.
func Parse(job *engine.Job) []Entry {
	if job.Passed() { return nil }

	entries := []Entry{}
	lines := append(job.Stdout(), job.Stderr()...)
	for _, line := range lines {
		m := locationRe.FindStringSubmatch(line)
		if m == nil { continue }

		lineNum, err := strconv.Atoi(m[2])
		if err != nil { continue }
		col := 0
		if m[3] != "" { col, _ = strconv.Atoi(m[3]) }

		entries = append(entries, Entry{File: m[1], Line: lineNum, Col: col, Text: line})
	}
	return entries
}

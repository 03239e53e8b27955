package engine

import (
	"sync"
	"time"

	"runt/internal/locator"
	"runt/internal/process"
)

type State int

const (
	Created State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Created:   return "created"
	case Running:   return "running"
	case Completed: return "completed"
	case Cancelled: return "cancelled"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == Completed || s == Cancelled
}

// ExitTimeout is the distinguished exit status of a job whose process
// was killed by the configured timeout. -1 stays "could not observe".
const ExitTimeout = -2

type OutputMode string

const (
	OutputQuickfix OutputMode = "quickfix"
	OutputTerminal OutputMode = "terminal"
	OutputFloating OutputMode = "floating"
)

type WorkdirMode string

const (
	WorkdirCurrent     WorkdirMode = "current"
	WorkdirFileDir     WorkdirMode = "file_dir"
	WorkdirProjectRoot WorkdirMode = "project_root"
)

// Options are per-job execution options, resolved from the engine
// defaults plus a per-invocation override.
type Options struct {
	Workdir WorkdirMode
	Timeout time.Duration
	Output  OutputMode
}

// Job is the lifecycle record of one test-execution attempt. Owned by the
// engine from creation to terminal state; each state edge is taken at most
// once; exit code is set exactly when the job turns terminal.
type Job struct {
	Command   []string
	Info      locator.TestInfo
	Options   Options
	StartTime time.Time

	mu        sync.Mutex
	state     State
	stdout    []string
	stderr    []string
	exitCode  *int
	cancelreq bool
	proc      *process.Process
	done      chan struct{}
}

func NewJob(info *locator.TestInfo, argv []string, opts Options) *Job {
	return &Job{
		Command: argv,
		Info:    *info,
		Options: opts,
		state:   Created,
		done:    make(chan struct{}),
	}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// ExitCode reports the exit status; ok is false until the job is terminal.
func (j *Job) ExitCode() (int, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.exitCode == nil { return 0, false }
	return *j.exitCode, true
}

func (j *Job) Passed() bool {
	code, ok := j.ExitCode()
	return ok && code == 0
}

func (j *Job) Stdout() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string{}, j.stdout...)
}

func (j *Job) Stderr() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string{}, j.stderr...)
}

// Wait blocks until the job is terminal and its sink has rendered.
func (j *Job) Wait() {
	<-j.done
}

// transition takes one legal edge, once. Callers hold j.mu.
func (j *Job) transition(to State) bool {
	legal := (j.state == Created && (to == Running || to == Cancelled)) ||
		(j.state == Running && (to == Completed || to == Cancelled))
	if !legal { return false }
	j.state = to
	return true
}

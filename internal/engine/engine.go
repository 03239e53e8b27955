package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"runt/internal/command"
	"runt/internal/lang"
	"runt/internal/locator"
	. "runt/internal/logger"
	"runt/internal/naming"
	"runt/internal/process"
	"runt/internal/session"
)

// Sink consumes one completed job. Implementations live in internal/sink;
// none of them may block the engine before the job is terminal, which the
// engine guarantees by rendering from the completion goroutine only.
type Sink interface {
	Render(job *Job) error
}

type Engine struct {
	Registry *lang.Registry
	Session  *session.Session
	Defaults Options
	Sinks    map[OutputMode]Sink
}

func New(registry *lang.Registry, sess *session.Session) *Engine {
	return &Engine{
		Registry: registry,
		Session:  sess,
		Defaults: Options{
			Workdir: WorkdirProjectRoot,
			Timeout: 30 * time.Second,
			Output:  OutputQuickfix,
		},
		Sinks: map[OutputMode]Sink{},
	}
}

// NewJob builds the argument vector for the test and wraps it in a
// Created job. Configuration and build errors surface here, before
// anything is spawned.
func (e *Engine) NewJob(info *locator.TestInfo, mode command.Mode, override *Options) (*Job, error) {
	profile, err := e.Registry.Lookup(info.Language)
	if err != nil { return nil, err }

	argv, err := command.Build(profile, info, mode)
	if err != nil { return nil, err }

	opts := e.Defaults
	if override != nil {
		if override.Workdir != "" { opts.Workdir = override.Workdir }
		if override.Timeout != 0 { opts.Timeout = override.Timeout }
		if override.Output != "" { opts.Output = override.Output }
	}

	return NewJob(info, argv, opts), nil
}

// Run dispatches the job asynchronously and returns immediately. The
// completion goroutine fills the job, takes it terminal and hands it to
// exactly one sink. Every run overwrites the session's last-test register.
func (e *Engine) Run(job *Job) error {
	job.mu.Lock()
	if !job.transition(Running) {
		state := job.state
		job.mu.Unlock()
		return fmt.Errorf("job for %s already dispatched (state %s)", job.Info.Name, state)
	}

	proc := process.NewProcess(job.Command[0], job.Command[1:]...)
	proc.Timeout = job.Options.Timeout
	proc.Dir = e.resolveWorkdir(job)
	job.proc = proc
	job.StartTime = time.Now()
	job.mu.Unlock()

	if e.Session != nil { e.Session.SetLast(&job.Info) }
	Log.Info("run", job.Info.Name, strings.Join(job.Command, " "))

	proc.Start()
	go e.complete(job, proc)
	return nil
}

// Stop requests cancellation. Idempotent: false on a second call or on a
// job that is already terminal.
func (e *Engine) Stop(job *Job) bool {
	job.mu.Lock()

	switch {
	case job.state == Created:
		job.transition(Cancelled)
		code := -1
		job.exitCode = &code
		job.mu.Unlock()
		e.deliver(job)
		return true

	case job.state == Running && !job.cancelreq:
		job.cancelreq = true
		proc := job.proc
		job.mu.Unlock()
		proc.Stop()
		return true
	}

	job.mu.Unlock()
	return false
}

func (e *Engine) complete(job *Job, proc *process.Process) {
	for range proc.Updates { } // drain until the process closes the channel

	job.mu.Lock()
	job.stdout = proc.StdoutLines()
	job.stderr = proc.StderrLines()

	code := proc.GetExitCode()
	if proc.TimedOut() { code = ExitTimeout }

	to := Completed
	if job.cancelreq { to = Cancelled }
	job.transition(to)
	job.exitCode = &code
	job.mu.Unlock()

	Log.Info("done", job.Info.Name, job.State().String(), fmt.Sprint(code))
	e.deliver(job)
}

// deliver hands the terminal job to the sink for its effective output
// mode, then releases waiters.
func (e *Engine) deliver(job *Job) {
	defer close(job.done)

	sink := e.Sinks[job.Options.Output]
	if sink == nil {
		Log.Info("no sink for output mode", string(job.Options.Output))
		return
	}
	if err := sink.Render(job); err != nil {
		Log.Error("sink render:", err.Error())
	}
}

// RunBatch dispatches every selected test without waiting for
// predecessors. No ordering between completions.
func (e *Engine) RunBatch(mode command.Mode, override *Options) []*Job {
	jobs := []*Job{}
	for _, info := range e.Session.Selected() {
		info := info
		job, err := e.NewJob(&info, mode, override)
		if err != nil {
			Log.Error("batch:", info.Name, err.Error())
			continue
		}
		if err := e.Run(job); err != nil {
			Log.Error("batch:", info.Name, err.Error())
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func (e *Engine) resolveWorkdir(job *Job) string {
	switch job.Options.Workdir {
	case WorkdirFileDir:
		return filepath.Dir(job.Info.Path)
	case WorkdirProjectRoot:
		markers := []string{}
		if profile, err := e.Registry.Lookup(job.Info.Language); err == nil {
			markers = profile.RootMarkers
		}
		return naming.ProjectRoot(job.Info.Path, markers)
	}
	return "" // current directory
}

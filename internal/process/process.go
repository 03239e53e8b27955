package process

import (
	"bufio"
	"context"
	"fmt"
	"github.com/acarl005/stripansi"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Process wraps one external test run. Output is captured line by line
// on both streams; Updates coalesces change notifications so a fast
// process does not flood the consumer.
type Process struct {
	Cmd       *exec.Cmd          // command to run
	Dir       string             // working directory
	Timeout   time.Duration      // 0 means no timeout
	cancelF   context.CancelFunc // function to cancel process
	stopped   bool               // true if process stopped
	timedOut  bool               // true if the timeout killed it
	outLines  []string           // stdout lines
	errLines  []string           // stderr lines
	lines     []string           // both streams in arrival order
	muLines   sync.Mutex         // Mutex to protect access to line slices
	muStopped sync.Mutex         // Mutex to protect access to stopped/timedOut
	Updates   chan struct{}      // channel to notify about new lines
	UpdateInterval int           // time interval to fire updates, ms
	tickerDone chan struct{}     // closed when the interval goroutine exits
}

func NewProcess(command string, args ...string) *Process {
	ctx, stop := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, command, args...)
	setProcessGroup(cmd)

	return &Process{
		Cmd:     cmd,
		lines:   []string{},
		Updates: make(chan struct{}),
		cancelF: stop,
		UpdateInterval: 30,
		tickerDone: make(chan struct{}),
	}
}

func (p *Process) Start() {
	if p.Dir != "" { p.Cmd.Dir = p.Dir }

	wg := sync.WaitGroup{}
	wg.Add(2)
	// if process is too fast, reading std out/err goroutines
	// won't have time to start, and output will be missed/empty

	go func() {
		stdout, _ := p.Cmd.StdoutPipe()
		scanner := bufio.NewScanner(stdout)
		wg.Done()
		for scanner.Scan() {
			line := stripansi.Strip(scanner.Text())
			p.appendLine(line, false)
		}
		// this goroutine will be finished after process exit
	}()

	go func() {
		stderr, _ := p.Cmd.StderrPipe()
		scanner := bufio.NewScanner(stderr)
		wg.Done()
		for scanner.Scan() {
			line := stripansi.Strip(scanner.Text())
			p.appendLine(line, true)
		}
		// this goroutine will be finished after process exit
	}()

	go func() {
		// if process output is too fast - it will be hard to read
		// The idea is to check output changes every 30ms
		// Write update message only if changes found
		defer close(p.tickerDone)
		lastMessagesLen := 0

		for !p.IsStopped() {
			p.muLines.Lock()
			currentLen := len(p.lines)
			if currentLen != lastMessagesLen {
				p.Updates <- struct{}{}
				lastMessagesLen = currentLen
			}
			p.muLines.Unlock()
			<-time.After(time.Millisecond * time.Duration(p.UpdateInterval))
		}
		// this goroutine will be finished after process exit
	}()

	wg.Wait()
	go p.runCmd()
}

// Stop kills the whole process group so test runners that fork
// (go test, pytest) do not leak children.
func (p *Process) Stop() {
	killProcessGroup(p.Cmd)
	p.cancelF()
}

func (p *Process) appendLine(line string, isErr bool) {
	p.muLines.Lock()
	defer p.muLines.Unlock()
	p.lines = append(p.lines, line)
	if isErr {
		p.errLines = append(p.errLines, line)
	} else {
		p.outLines = append(p.outLines, line)
	}
}

// bookkeeping lines go to the combined stream only, the per-stream
// slices stay pure captured output
func (p *Process) appendMeta(line string) {
	p.muLines.Lock()
	defer p.muLines.Unlock()
	p.lines = append(p.lines, line)
}

func (p *Process) IsStopped() bool {
	p.muStopped.Lock()
	defer p.muStopped.Unlock()
	return p.stopped
}

func (p *Process) TimedOut() bool {
	p.muStopped.Lock()
	defer p.muStopped.Unlock()
	return p.timedOut
}

func (p *Process) GetExitCode() int {
	p.muStopped.Lock()
	defer p.muStopped.Unlock()
	if p.Cmd.ProcessState == nil {
		return -1
	}
	return p.Cmd.ProcessState.ExitCode()
}

func (p *Process) GetLines(offset int) []string {
	p.muLines.Lock()
	defer p.muLines.Unlock()
	// Return a copy to avoid concurrent modification
	return append([]string{}, p.lines[offset:]...)
}

func (p *Process) StdoutLines() []string {
	p.muLines.Lock()
	defer p.muLines.Unlock()
	return append([]string{}, p.outLines...)
}

func (p *Process) StderrLines() []string {
	p.muLines.Lock()
	defer p.muLines.Unlock()
	return append([]string{}, p.errLines...)
}

func (p *Process) runCmd() {
	p.appendMeta(fmt.Sprintf("%s %s",
		p.Cmd.Path, strings.Join(p.Cmd.Args[1:], " "),
	))
	p.Updates <- struct{}{}

	var timer *time.Timer
	if p.Timeout > 0 {
		timer = time.AfterFunc(p.Timeout, func() {
			p.muStopped.Lock()
			p.timedOut = true
			p.muStopped.Unlock()
			killProcessGroup(p.Cmd)
			p.cancelF()
		})
	}

	err := p.Cmd.Run() // its blocks until process exiting
	if timer != nil { timer.Stop() }
	if err != nil {
		p.appendMeta("Error: " + err.Error())
	}

	if p.Cmd.ProcessState != nil {
		p.appendMeta("")
		p.appendMeta(fmt.Sprintf(
			"Process %d finished with exit code %d",
			p.Cmd.ProcessState.Pid(), p.Cmd.ProcessState.ExitCode(),
		))
	}

	p.muStopped.Lock()
	p.stopped = true
	p.muStopped.Unlock()

	// the interval goroutine must be gone before the final send and close
	<-p.tickerDone
	p.Updates <- struct{}{}
	close(p.Updates)
}

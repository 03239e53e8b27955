package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/creack/pty"

	"runt/internal/engine"
)

// Console replays completed jobs through a pseudo-terminal, so output
// reaches the user with real tty line discipline. The read side mirrors
// to Out and keeps every line for inspection.
type Console struct {
	Out     io.Writer
	ptmx    *os.File // pty master, the read side
	tty     *os.File // pty slave, jobs are replayed into it
	lines   []string
	mutex   sync.Mutex
	Updates chan struct{}
	stopped bool
}

func NewConsole(out io.Writer) (*Console, error) {
	ptmx, tty, err := pty.Open()
	if err != nil { return nil, err }

	c := &Console{
		Out:     out,
		ptmx:    ptmx,
		tty:     tty,
		lines:   make([]string, 0),
		Updates: make(chan struct{}, 1),
	}

	c.start()

	return c, nil
}

func (c *Console) start() {
	reader := bufio.NewReader(c.ptmx)

	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF { break }
				return
			}
			c.mutex.Lock()
			line = strings.ReplaceAll(line, "\r\n", "")
			c.lines = append(c.lines, line)
			if c.Out != nil { fmt.Fprintln(c.Out, line) }
			c.mutex.Unlock()

			select {
			case c.Updates <- struct{}{}:
			default:
			}
		}
	}()
}

// Render writes the job's captured streams and a summary line into the tty.
func (c *Console) Render(job *engine.Job) error {
	for _, line := range job.Stdout() {
		if _, err := fmt.Fprintln(c.tty, line); err != nil { return err }
	}
	for _, line := range job.Stderr() {
		if _, err := fmt.Fprintln(c.tty, line); err != nil { return err }
	}

	code, _ := job.ExitCode()
	_, err := fmt.Fprintf(c.tty, "%s %s with exit code %d\n",
		job.Info.Name, job.State(), code)
	return err
}

func (c *Console) GetLines(offset int) []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	// Return a copy to avoid concurrent modification
	return append([]string{}, c.lines[offset:]...)
}

func (c *Console) IsStopped() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stopped
}

func (c *Console) Stop() {
	c.mutex.Lock()
	if c.stopped { c.mutex.Unlock(); return }
	c.stopped = true
	c.mutex.Unlock()

	_ = c.tty.Close()
	_ = c.ptmx.Close()
}

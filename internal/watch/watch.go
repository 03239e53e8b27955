package watch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rjeczalik/notify"

	"runt/internal/command"
	"runt/internal/engine"
	"runt/internal/locator"
	. "runt/internal/logger"
	"runt/internal/session"
)

// Watcher reruns the session's last test whenever its file is written.
// The test is re-located by name before each run, so it keeps working
// when edits move it to another line.
type Watcher struct {
	Engine   *engine.Engine
	Session  *session.Session
	Mode     command.Mode
	Debounce time.Duration

	events chan notify.EventInfo
	stop   chan struct{}
}

func New(e *engine.Engine, s *session.Session) *Watcher {
	return &Watcher{
		Engine:   e,
		Session:  s,
		Mode:     command.ModeNormal,
		Debounce: 300 * time.Millisecond,
		stop:     make(chan struct{}),
	}
}

func (w *Watcher) Start() error {
	last := w.Session.Last()
	if last == nil { return errors.New("no last test to watch") }

	w.events = make(chan notify.EventInfo, 16)
	err := notify.Watch(filepath.Dir(last.Path), w.events, notify.Write, notify.Create)
	if err != nil { return err }

	go w.loop(last.Path)
	return nil
}

func (w *Watcher) Stop() {
	notify.Stop(w.events)
	close(w.stop)
}

func (w *Watcher) loop(path string) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case e, ok := <-w.events:
			if !ok { return }
			if e.Path() != path { continue }
			// editors write several events per save, collapse them
			if timer != nil { timer.Stop() }
			timer = time.AfterFunc(w.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.rerun()
		case <-w.stop:
			if timer != nil { timer.Stop() }
			return
		}
	}
}

func (w *Watcher) rerun() {
	last := w.Session.Last()
	if last == nil { return }

	info := w.relocate(last)
	job, err := w.Engine.NewJob(info, w.Mode, nil)
	if err != nil {
		Log.Error("watch:", err.Error())
		return
	}
	if err := w.Engine.Run(job); err != nil {
		Log.Error("watch:", err.Error())
	}
}

// relocate finds the test by name in the current file content, falling
// back to the recorded position when the name is gone.
func (w *Watcher) relocate(last *locator.TestInfo) *locator.TestInfo {
	profile, err := w.Engine.Registry.Lookup(last.Language)
	if err != nil { return last }

	data, err := os.ReadFile(last.Path)
	if err != nil { return last }

	lines := strings.Split(string(data), "\n")
	for _, info := range locator.FindAll(lines, last.Path, profile) {
		if info.Name == last.Name {
			info := info
			return locator.WithContext(&info, lines)
		}
	}
	return last
}

package engine

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"runt/internal/command"
	"runt/internal/lang"
	"runt/internal/locator"
	"runt/internal/session"
)

// recordingSink keeps every job it rendered
type recordingSink struct {
	mu   sync.Mutex
	jobs []*Job
}

func (s *recordingSink) Render(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *recordingSink) rendered() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Job{}, s.jobs...)
}

func testEngine(t *testing.T, commands ...string) (*Engine, *recordingSink) {
	t.Helper()
	if len(commands) == 0 { commands = []string{"echo ran %s"} }

	profile, err := lang.NewProfile("go", []string{`^func\s+(Test\w+)`}, commands)
	require.NoError(t, err)

	registry := lang.NewRegistry()
	registry.Register("go", profile)

	e := New(registry, session.New())
	e.Defaults.Workdir = WorkdirCurrent
	rec := &recordingSink{}
	e.Sinks[OutputQuickfix] = rec
	return e, rec
}

func info() *locator.TestInfo {
	return &locator.TestInfo{Name: "TestAdd", Path: "/p/add_test.go", Line: 10, Col: 1, Language: "go"}
}

func TestNewJobBuildsCommand(t *testing.T) {
	e, _ := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "ran", "TestAdd"}, job.Command)
	assert.Equal(t, Created, job.State())

	_, ok := job.ExitCode()
	assert.False(t, ok)
}

func TestNewJobUnknownLanguage(t *testing.T) {
	e, _ := testEngine(t)
	bad := info()
	bad.Language = "cobol"

	_, err := e.NewJob(bad, command.ModeNormal, nil)
	assert.ErrorIs(t, err, lang.ErrNoProfile)
}

func TestRunCompletesAndDelivers(t *testing.T) {
	e, rec := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))

	job.Wait()

	assert.Equal(t, Completed, job.State())
	code, ok := job.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 0, code)
	assert.True(t, job.Passed())
	assert.Contains(t, job.Stdout(), "ran TestAdd")

	require.Len(t, rec.rendered(), 1)
	assert.Same(t, job, rec.rendered()[0])
}

func TestRunOverwritesLastTest(t *testing.T) {
	e, _ := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	job.Wait()

	last := e.Session.Last()
	require.NotNil(t, last)
	assert.Equal(t, "TestAdd", last.Name)
}

func TestRunTwiceRejected(t *testing.T) {
	e, _ := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	assert.Error(t, e.Run(job))
	job.Wait()
}

func TestStopRunningJob(t *testing.T) {
	e, _ := testEngine(t, "sleep 10")

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	time.Sleep(100 * time.Millisecond)

	assert.True(t, e.Stop(job))
	job.Wait()

	assert.Equal(t, Cancelled, job.State())
	code, ok := job.ExitCode()
	assert.True(t, ok)
	assert.NotEqual(t, 0, code)
}

func TestStopIsIdempotent(t *testing.T) {
	e, _ := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	job.Wait()

	// already completed, both calls are no-ops
	assert.False(t, e.Stop(job))
	assert.False(t, e.Stop(job))
	assert.Equal(t, Completed, job.State())
}

func TestStopCreatedJob(t *testing.T) {
	e, rec := testEngine(t)

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)

	assert.True(t, e.Stop(job))
	assert.False(t, e.Stop(job))
	assert.Equal(t, Cancelled, job.State())

	code, ok := job.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, -1, code)
	assert.Len(t, rec.rendered(), 1)
}

func TestTimeoutMarksDistinguishedExit(t *testing.T) {
	e, _ := testEngine(t, "sleep 10")

	job, err := e.NewJob(info(), command.ModeNormal, &Options{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	job.Wait()

	assert.Equal(t, Completed, job.State())
	code, _ := job.ExitCode()
	assert.Equal(t, ExitTimeout, code)
}

func TestSpawnFailureCompletesJob(t *testing.T) {
	e, rec := testEngine(t, "no-such-binary-xyz %s")

	job, err := e.NewJob(info(), command.ModeNormal, nil)
	require.NoError(t, err)
	require.NoError(t, e.Run(job))
	job.Wait()

	assert.Equal(t, Completed, job.State())
	assert.False(t, job.Passed())
	assert.Len(t, rec.rendered(), 1)
}

func TestRunBatchDispatchesAllSelected(t *testing.T) {
	e, rec := testEngine(t)

	a := info()
	b := info()
	b.Name = "TestSub"
	e.Session.Select(a)
	e.Session.Select(b)
	e.Session.Select(a) // dedup keeps the batch at two

	jobs := e.RunBatch(command.ModeNormal, nil)
	require.Len(t, jobs, 2)
	for _, job := range jobs { job.Wait() }

	assert.Len(t, rec.rendered(), 2)
}

func TestResolveWorkdirFileDir(t *testing.T) {
	e, _ := testEngine(t)

	job := NewJob(info(), []string{"true"}, Options{Workdir: WorkdirFileDir})
	assert.Equal(t, "/p", e.resolveWorkdir(job))
}

func TestResolveWorkdirProjectRoot(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "go.mod"), []byte("module x"), 0644))
	testPath := filepath.Join(tmp, "pkg", "x_test.go")
	require.NoError(t, os.WriteFile(testPath, []byte("package pkg"), 0644))

	e, _ := testEngine(t)
	profile, _ := e.Registry.Lookup("go")
	profile.RootMarkers = []string{"go.mod"}

	i := info()
	i.Path = testPath
	job := NewJob(i, []string{"true"}, Options{Workdir: WorkdirProjectRoot})
	assert.Equal(t, tmp, e.resolveWorkdir(job))
}

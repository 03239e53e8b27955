package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"runt/internal/command"
	"runt/internal/config"
	"runt/internal/engine"
	"runt/internal/lang"
	"runt/internal/locator"
	. "runt/internal/logger"
	"runt/internal/naming"
	"runt/internal/session"
	"runt/internal/sink"
	"runt/internal/watch"
)

var (
	flagMode    string
	flagOutput  string
	flagWorkdir string
	flagTimeout time.Duration
)

func main() {
	Log.Start()

	root := &cobra.Command{
		Use:           "runt",
		Short:         "locate and run the test nearest a cursor position",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagMode, "mode", "normal", "normal, debug or coverage")
	root.PersistentFlags().StringVar(&flagOutput, "output", "quickfix", "quickfix, terminal or floating")
	root.PersistentFlags().StringVar(&flagWorkdir, "workdir", "project_root", "current, file_dir or project_root")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "kill the test process after this long")

	root.AddCommand(nearestCmd(), listCmd(), runCmd(), batchCmd(), watchCmd(), testfileCmd())

	if err := root.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func setup() (*engine.Engine, error) {
	registry, err := config.Load()
	if err != nil { return nil, err }

	e := engine.New(registry, session.New())
	e.Defaults = options()
	e.Sinks = sink.Defaults(os.Stdout)
	return e, nil
}

func options() engine.Options {
	return engine.Options{
		Workdir: engine.WorkdirMode(flagWorkdir),
		Timeout: flagTimeout,
		Output:  engine.OutputMode(flagOutput),
	}
}

// locate reads the file and finds the test governing the line.
func locate(path string, line int, registry *lang.Registry) (*locator.TestInfo, []string, error) {
	abs, err := absPath(path)
	if err != nil { return nil, nil, err }

	tag := lang.TagForFile(abs)
	if tag == "" { return nil, nil, fmt.Errorf("no language for %s", path) }

	profile, err := registry.Lookup(tag)
	if err != nil { return nil, nil, err }

	data, err := os.ReadFile(abs)
	if err != nil { return nil, nil, err }
	lines := strings.Split(string(data), "\n")

	info := locator.FindNearest(lines, line, abs, profile)
	if info == nil { return nil, lines, nil } // a miss is not an error
	return locator.WithContext(info, lines), lines, nil
}

func absPath(path string) (string, error) {
	return filepath.Abs(path)
}

func parseLine(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 { return 0, fmt.Errorf("bad line number %q", arg) }
	return n, nil
}

func printInfo(info *locator.TestInfo) {
	fmt.Printf("%s  %s:%d:%d\n", info.Name, info.Path, info.Line, info.Col)
	if info.Context != nil && info.Context.Describe != "" {
		scope := info.Context.Describe
		if info.Context.FileScope { scope += " (file scope)" }
		fmt.Printf("    in %s\n", scope)
	}
}

func nearestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nearest FILE LINE",
		Short: "show the test governing a cursor position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			line, err := parseLine(args[1])
			if err != nil { return err }

			info, _, err := locate(args[0], line, e.Registry)
			if err != nil { return err }
			if info == nil {
				color.Yellow("no test found at or above line %d", line)
				return nil
			}
			printInfo(info)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "list every test in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			abs, err := absPath(args[0])
			if err != nil { return err }
			tag := lang.TagForFile(abs)
			profile, err := e.Registry.Lookup(tag)
			if err != nil { return err }

			data, err := os.ReadFile(abs)
			if err != nil { return err }
			lines := strings.Split(string(data), "\n")

			all := locator.FindAll(lines, abs, profile)
			if len(all) == 0 {
				color.Yellow("no tests in %s", args[0])
				return nil
			}
			for i := range all {
				printInfo(locator.WithContext(&all[i], lines))
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE LINE",
		Short: "run the test nearest a cursor position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			line, err := parseLine(args[1])
			if err != nil { return err }

			info, _, err := locate(args[0], line, e.Registry)
			if err != nil { return err }
			if info == nil {
				color.Yellow("no test found at or above line %d", line)
				return nil
			}

			return runOne(e, info)
		},
	}
}

func runOne(e *engine.Engine, info *locator.TestInfo) error {
	if engine.OutputMode(flagOutput) == engine.OutputFloating {
		return runFloating(e, info)
	}

	job, err := e.NewJob(info, command.Mode(flagMode), nil)
	if err != nil { return err }
	if err := e.Run(job); err != nil { return err }
	job.Wait()

	if !job.Passed() { os.Exit(1) }
	return nil
}

// runFloating owns the screen for the overlay sink and waits for a key
// before tearing it down.
func runFloating(e *engine.Engine, info *locator.TestInfo) error {
	screen, err := tcell.NewScreen()
	if err != nil { return err }
	if err := screen.Init(); err != nil { return err }
	defer screen.Fini()

	e.Sinks[engine.OutputFloating] = sink.NewFloating(screen)

	job, err := e.NewJob(info, command.Mode(flagMode), nil)
	if err != nil { return err }
	if err := e.Run(job); err != nil { return err }
	job.Wait()

	for {
		ev := screen.PollEvent()
		if _, ok := ev.(*tcell.EventKey); ok { break }
	}
	return nil
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE:LINE...",
		Short: "run several tests concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			for _, arg := range args {
				sep := strings.LastIndex(arg, ":")
				if sep < 1 { return fmt.Errorf("bad target %q, want FILE:LINE", arg) }

				line, err := parseLine(arg[sep+1:])
				if err != nil { return err }

				info, _, err := locate(arg[:sep], line, e.Registry)
				if err != nil { return err }
				if info == nil {
					color.Yellow("no test at %s", arg)
					continue
				}
				e.Session.Select(info)
			}

			jobs := e.RunBatch(command.Mode(flagMode), nil)
			if len(jobs) == 0 { return fmt.Errorf("nothing to run") }

			bar := progressbar.Default(int64(len(jobs)), "running")
			failed := 0
			for _, job := range jobs {
				job.Wait()
				_ = bar.Add(1)
				if !job.Passed() { failed++ }
			}
			_ = bar.Finish()

			if failed > 0 {
				return fmt.Errorf("%d of %d tests failed", failed, len(jobs))
			}
			color.Green("all %d tests passed", len(jobs))
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE LINE",
		Short: "run the nearest test, then rerun it on every save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			line, err := parseLine(args[1])
			if err != nil { return err }

			info, _, err := locate(args[0], line, e.Registry)
			if err != nil { return err }
			if info == nil { return fmt.Errorf("no test found at or above line %d", line) }

			job, err := e.NewJob(info, command.Mode(flagMode), nil)
			if err != nil { return err }
			if err := e.Run(job); err != nil { return err }
			job.Wait()

			w := watch.New(e, e.Session)
			w.Mode = command.Mode(flagMode)
			if err := w.Start(); err != nil { return err }
			defer w.Stop()

			fmt.Printf("watching %s, ctrl-c to stop\n", info.Path)
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			<-interrupt
			return nil
		},
	}
}

func testfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testfile FILE",
		Short: "resolve the test file for a source file, or back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil { return err }

			abs, err := absPath(args[0])
			if err != nil { return err }
			tag := lang.TagForFile(abs)
			profile, err := e.Registry.Lookup(tag)
			if err != nil { return err }

			if naming.IsTestFile(abs, profile) {
				src, found := naming.FindSourceFile(abs, profile)
				if !found { return fmt.Errorf("no source file found for %s", args[0]) }
				fmt.Println(src)
				return nil
			}

			test, found := naming.FindTestFile(abs, profile)
			if !found { return fmt.Errorf("no test file found for %s", args[0]) }
			fmt.Println(test)
			return nil
		},
	}
}

// Package sink renders completed jobs. Three variants share the engine's
// Sink interface: a structured failure list, a pty console and a screen
// overlay. Rendering always happens after the job is terminal.
package sink

import (
	"io"

	"runt/internal/engine"
	. "runt/internal/logger"
)

// Defaults wires the sinks that need no external resources. The floating
// sink is only registered when the caller hands over a screen.
func Defaults(out io.Writer) map[engine.OutputMode]engine.Sink {
	sinks := map[engine.OutputMode]engine.Sink{
		engine.OutputQuickfix: NewQuickfix(out),
	}

	console, err := NewConsole(out)
	if err != nil {
		Log.Error("console sink:", err.Error())
	} else {
		sinks[engine.OutputTerminal] = console
	}

	return sinks
}

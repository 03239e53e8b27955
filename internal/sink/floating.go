package sink

import (
	"fmt"

	"github.com/gdamore/tcell"

	"runt/internal/engine"
)

// Floating draws the completed job in a bordered overlay panel on a
// tcell screen. The caller owns the screen and its event loop; this sink
// only paints.
type Floating struct {
	Screen tcell.Screen
}

func NewFloating(screen tcell.Screen) *Floating {
	return &Floating{Screen: screen}
}

func (f *Floating) Render(job *engine.Job) error {
	if f.Screen == nil { return fmt.Errorf("floating sink has no screen") }

	cols, rows := f.Screen.Size()
	width := cols * 3 / 4
	height := rows * 3 / 4
	if width < 20 { width = cols }
	if height < 5 { height = rows }
	left := (cols - width) / 2
	top := (rows - height) / 2

	border := tcell.StyleDefault
	separator := tcell.StyleDefault.Foreground(197)
	if job.Passed() { separator = tcell.StyleDefault.Foreground(tcell.GetColor("#90EE90")) }

	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			ch := ' '
			switch {
			case y == top || y == top+height-1: ch = '─'
			case x == left || x == left+width-1: ch = '│'
			}
			f.Screen.SetContent(x, y, ch, nil, border)
		}
	}

	title := fmt.Sprintf(" %s [%s] ", job.Info.Name, job.State())
	f.drawText(left+2, top, title, border)

	lines := append(job.Stdout(), job.Stderr()...)
	visible := height - 3
	if len(lines) > visible { lines = lines[len(lines)-visible:] }
	for i, line := range lines {
		f.drawText(left+2, top+1+i, truncate(line, width-4), tcell.StyleDefault)
	}

	code, _ := job.ExitCode()
	status := fmt.Sprintf(" exit %d ", code)
	for x := left + 1; x < left+width-1; x++ {
		f.Screen.SetContent(x, top+height-1, '─', nil, separator)
	}
	f.drawText(left+2, top+height-1, status, separator)

	f.Screen.Show()
	return nil
}

func (f *Floating) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		f.Screen.SetContent(x+i, y, ch, nil, style)
	}
}

func truncate(s string, max int) string {
	if max <= 0 { return "" }
	runes := []rune(s)
	if len(runes) <= max { return s }
	return string(runes[:max])
}

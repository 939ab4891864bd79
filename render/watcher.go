package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/lguibr/asciiring/helpers"
	"github.com/lguibr/retrotennis/game"
)

// Watcher prints every Nth snapshot to a writer, clearing the terminal first.
// It backs the headless watch mode.
type Watcher struct {
	mu    sync.Mutex
	out   io.Writer
	cols  int
	rows  int
	every uint64
	color bool
	clear func()
}

// NewWatcher builds a Watcher that redraws every `every` ticks. Values below
// one draw every tick.
func NewWatcher(out io.Writer, cols, rows, every int, color bool) *Watcher {
	if every < 1 {
		every = 1
	}
	return &Watcher{
		out:   out,
		cols:  cols,
		rows:  rows,
		every: uint64(every),
		color: color,
		clear: helpers.ClearScreen,
	}
}

func (w *Watcher) Render(snap game.Snapshot) {
	if snap.Tick%w.every != 0 {
		return
	}
	frame := NewFrame(snap, w.cols, w.rows)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clear != nil {
		w.clear()
	}
	if w.color {
		fmt.Fprint(w.out, frame.ANSI())
		return
	}
	fmt.Fprint(w.out, frame.String())
}

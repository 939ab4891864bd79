package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/render"
	"go.uber.org/zap"
)

// Controls receives the key state derived from terminal events.
type Controls interface {
	SetAction(a game.Action, pressed bool)
}

// MatchControls forwards key state to a MatchActor.
type MatchControls struct {
	Engine *bollywood.Engine
	Match  *bollywood.PID
}

func (c MatchControls) SetAction(a game.Action, pressed bool) {
	c.Engine.Send(c.Match, game.SetAction{Action: a, Pressed: pressed}, nil)
}

// Terminal is a tcell frontend: it is a game.Renderer and turns key events
// into Controls calls. Render may be called from any goroutine; drawing
// happens on the Run goroutine.
type Terminal struct {
	screen   tcell.Screen
	controls Controls
	logger   *zap.Logger
	held     *heldKeys
	frames   chan game.Snapshot
	now      func() time.Time
}

func New(screen tcell.Screen, controls Controls, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Terminal{
		screen:   screen,
		controls: controls,
		logger:   logger.Named("terminal"),
		held:     newHeldKeys(HoldWindow),
		frames:   make(chan game.Snapshot, 1),
		now:      time.Now,
	}
}

// Render keeps only the newest snapshot; a frame not yet drawn is replaced.
func (t *Terminal) Render(snap game.Snapshot) {
	for {
		select {
		case t.frames <- snap:
			return
		default:
		}
		select {
		case <-t.frames:
		default:
		}
	}
}

// Run draws frames and handles input until ctx is done or the player quits.
// The caller owns the screen's Init and Fini.
func (t *Terminal) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	release := time.NewTicker(HoldWindow / 3)
	defer release.Stop()
	defer t.releaseAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !t.handleEvent(ev) {
				t.logger.Info("quit requested")
				return nil
			}
		case snap := <-t.frames:
			t.draw(snap)
		case <-release.C:
			for _, a := range t.held.expire(t.now()) {
				t.controls.SetAction(a, false)
			}
		}
	}
}

// handleEvent returns false when the session should end.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		t.handleKey(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	a, ok := keyAction(ev)
	if !ok {
		return
	}
	now := t.now()
	switch a {
	case game.MoveUp:
		t.releaseOne(game.MoveDown)
	case game.MoveDown:
		t.releaseOne(game.MoveUp)
	}
	if t.held.press(a, now) {
		t.controls.SetAction(a, true)
	}
}

func (t *Terminal) releaseOne(a game.Action) {
	if _, held := t.held.deadline[a]; held {
		delete(t.held.deadline, a)
		t.controls.SetAction(a, false)
	}
}

func (t *Terminal) releaseAll() {
	for _, a := range t.held.releaseAll() {
		t.controls.SetAction(a, false)
	}
}

func (t *Terminal) draw(snap game.Snapshot) {
	cols, rows := t.screen.Size()
	frame := render.NewFrame(snap, cols, rows)

	t.screen.Clear()
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawString(t.screen, 0, 0, frame.Header, text.Bold(true))
	for y, row := range frame.Cells {
		for x, c := range row {
			if x >= cols || y+1 >= rows {
				break
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
			t.screen.SetContent(x, y+1, c.Rune, nil, style)
		}
	}
	drawString(t.screen, 0, len(frame.Cells)+1, frame.Status, text)
	t.screen.Show()
}

func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

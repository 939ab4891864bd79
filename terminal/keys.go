package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lguibr/retrotennis/game"
)

// HoldWindow is how long a key counts as held after its last key event.
// Terminals report presses and auto-repeats but never releases, so a key is
// released once no repeat has arrived within the window.
const HoldWindow = 150 * time.Millisecond

// keyAction maps a key event to a game action. ok is false for keys the game
// does not use.
func keyAction(ev *tcell.EventKey) (game.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.MoveUp, true
	case tcell.KeyDown:
		return game.MoveDown, true
	case tcell.KeyEnter:
		return game.Confirm, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return game.MoveUp, true
		case 's', 'S':
			return game.MoveDown, true
		case ' ':
			return game.Confirm, true
		case 'm', 'M':
			return game.Mute, true
		}
	}
	return 0, false
}

// isQuit reports whether the key ends the session.
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// heldKeys tracks which actions are down and when each one expires.
type heldKeys struct {
	window   time.Duration
	deadline map[game.Action]time.Time
}

func newHeldKeys(window time.Duration) *heldKeys {
	return &heldKeys{window: window, deadline: make(map[game.Action]time.Time)}
}

// press refreshes the deadline for a. It reports whether a was up before.
func (h *heldKeys) press(a game.Action, now time.Time) bool {
	_, held := h.deadline[a]
	h.deadline[a] = now.Add(h.window)
	return !held
}

// expire releases every action whose deadline has passed and returns them.
func (h *heldKeys) expire(now time.Time) []game.Action {
	var released []game.Action
	for a, d := range h.deadline {
		if !now.Before(d) {
			released = append(released, a)
			delete(h.deadline, a)
		}
	}
	return released
}

// releaseAll drops every held action and returns them.
func (h *heldKeys) releaseAll() []game.Action {
	released := make([]game.Action, 0, len(h.deadline))
	for a := range h.deadline {
		released = append(released, a)
	}
	h.deadline = make(map[game.Action]time.Time)
	return released
}

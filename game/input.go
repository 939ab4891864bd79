package game

import "fmt"

// Action is a player control that an InputSource can report as held.
type Action int

const (
	MoveUp Action = iota
	MoveDown
	Confirm
	Mute
	actionCount
)

var actionNames = [...]string{"moveUp", "moveDown", "confirm", "mute"}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps a wire name such as "moveUp" onto an Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// InputSource reports the instantaneous pressed state of an action. It is
// sampled once per tick and must not block.
type InputSource interface {
	IsActionActive(a Action) bool
}

// Intent is the per-tick control request fed into the simulation, either
// sampled from an InputSource or synthesised by an IdleDriver.
type Intent struct {
	MoveUp   bool `json:"moveUp"`
	MoveDown bool `json:"moveDown"`
	Confirm  bool `json:"confirm"`
	Mute     bool `json:"mute"`
}

// Direction is -1 for up, +1 for down and 0 when neither or both are held.
func (i Intent) Direction() float64 {
	d := 0.0
	if i.MoveUp {
		d--
	}
	if i.MoveDown {
		d++
	}
	return d
}

// Qualifying reports whether the intent holds a key that preempts attract
// mode. Mute does not qualify.
func (i Intent) Qualifying() bool {
	return i.MoveUp || i.MoveDown || i.Confirm
}

// SampleIntent reads every action from src once.
func SampleIntent(src InputSource) Intent {
	if src == nil {
		return Intent{}
	}
	return Intent{
		MoveUp:   src.IsActionActive(MoveUp),
		MoveDown: src.IsActionActive(MoveDown),
		Confirm:  src.IsActionActive(Confirm),
		Mute:     src.IsActionActive(Mute),
	}
}

// ActionState is a plain InputSource whose keys are set explicitly. The match
// actor owns one and updates it from input messages.
type ActionState struct {
	active [actionCount]bool
}

func (s *ActionState) Set(a Action, pressed bool) {
	if a < 0 || a >= actionCount {
		return
	}
	s.active[a] = pressed
}

func (s *ActionState) IsActionActive(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return s.active[a]
}

// Release clears every held action.
func (s *ActionState) Release() {
	s.active = [actionCount]bool{}
}

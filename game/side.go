package game

import (
	"fmt"
	"strings"
)

// Side identifies one end of the court.
type Side int

const (
	NoSide   Side = -1
	Human    Side = 0
	Computer Side = 1
)

// Other returns the opposing side. NoSide maps to itself.
func (s Side) Other() Side {
	switch s {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return NoSide
	}
}

// Valid reports whether s is Human or Computer.
func (s Side) Valid() bool {
	return s == Human || s == Computer
}

func (s Side) String() string {
	switch s {
	case Human:
		return "human"
	case Computer:
		return "computer"
	default:
		return "none"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "human":
		*s = Human
	case "computer":
		*s = Computer
	case "none", "":
		*s = NoSide
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// PhaseKind enumerates the match director states.
type PhaseKind int

const (
	PhaseWaiting PhaseKind = iota
	PhaseServing
	PhasePlaying
	PhasePointScored
	PhaseGameWon
	PhaseMatchWon
)

var phaseNames = [...]string{"waiting", "serving", "playing", "pointScored", "gameWon", "matchWon"}

func (k PhaseKind) String() string {
	if k < 0 || int(k) >= len(phaseNames) {
		return fmt.Sprintf("PhaseKind(%d)", int(k))
	}
	return phaseNames[k]
}

func (k PhaseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PhaseKind) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*k = PhaseKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Phase is the director state. Side carries the server while serving and
// the winner in GameWon and MatchWon; it is NoSide otherwise.
type Phase struct {
	Kind PhaseKind `json:"kind"`
	Side Side      `json:"side"`
}

func Waiting() Phase             { return Phase{Kind: PhaseWaiting, Side: NoSide} }
func Serving(server Side) Phase  { return Phase{Kind: PhaseServing, Side: server} }
func Playing() Phase             { return Phase{Kind: PhasePlaying, Side: NoSide} }
func PointScored() Phase         { return Phase{Kind: PhasePointScored, Side: NoSide} }
func GameWon(winner Side) Phase  { return Phase{Kind: PhaseGameWon, Side: winner} }
func MatchWon(winner Side) Phase { return Phase{Kind: PhaseMatchWon, Side: winner} }

func (p Phase) String() string {
	switch p.Kind {
	case PhaseServing, PhaseGameWon, PhaseMatchWon:
		return fmt.Sprintf("%s(%s)", p.Kind, p.Side)
	default:
		return p.Kind.String()
	}
}

// EventKind enumerates the discrete occurrences reported to a Notifier.
type EventKind int

const (
	EventPaddleHit EventKind = iota
	EventWallBounce
	EventPointScored
	EventServe
)

var eventNames = [...]string{"paddleHit", "wallBounce", "pointScored", "serve"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted by the physics engine. Side is the paddle for PaddleHit,
// the scorer for PointScored, the server for Serve and NoSide for WallBounce.
type Event struct {
	Kind EventKind `json:"kind"`
	Side Side      `json:"side"`
}

func (e Event) String() string {
	if e.Side == NoSide {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.Side)
}

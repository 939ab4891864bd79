package game

import (
	"errors"
	"fmt"
)

// ErrMatchAlreadyWon is returned by AwardPoint once a match winner is set.
// Callers ignore it; the score is left untouched.
var ErrMatchAlreadyWon = errors.New("match already won")

// Outcome describes what a single awarded point completed.
type Outcome int

const (
	OutcomePoint Outcome = iota
	OutcomeGameWon
	OutcomeMatchWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomePoint:
		return "point"
	case OutcomeGameWon:
		return "gameWon"
	case OutcomeMatchWon:
		return "matchWon"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MatchState is the tennis score. Points freeze once deuce begins; from then
// on only IsDeuce and Advantage move.
type MatchState struct {
	Points         [2]int `json:"points"`
	IsDeuce        bool   `json:"isDeuce"`
	Advantage      Side   `json:"advantage"`
	Games          [2]int `json:"games"`
	Server         Side   `json:"server"`
	MatchWinner    Side   `json:"matchWinner"`
	LastGameWinner Side   `json:"lastGameWinner"`
}

func newMatchState() MatchState {
	return MatchState{
		Advantage:      NoSide,
		Server:         Human,
		MatchWinner:    NoSide,
		LastGameWinner: NoSide,
	}
}

// ScoreEngine owns MatchState and is the only thing that mutates it.
type ScoreEngine struct {
	state      MatchState
	gamesToWin int
}

// NewScoreEngine returns a zeroed match. gamesToWin below one falls back to 3.
func NewScoreEngine(gamesToWin int) *ScoreEngine {
	if gamesToWin < 1 {
		gamesToWin = 3
	}
	return &ScoreEngine{state: newMatchState(), gamesToWin: gamesToWin}
}

// State returns a copy of the current score.
func (s *ScoreEngine) State() MatchState {
	return s.state
}

// AwardPoint credits side with one point.
func (s *ScoreEngine) AwardPoint(side Side) (Outcome, error) {
	if s.state.MatchWinner != NoSide {
		return OutcomePoint, ErrMatchAlreadyWon
	}
	if !side.Valid() {
		return OutcomePoint, fmt.Errorf("award point to %s: invalid side", side)
	}

	if s.state.IsDeuce {
		switch s.state.Advantage {
		case NoSide:
			s.state.Advantage = side
		case side:
			return s.winGame(side), nil
		default:
			s.state.Advantage = NoSide
		}
		return OutcomePoint, nil
	}

	s.state.Points[side]++
	own, other := s.state.Points[side], s.state.Points[side.Other()]
	if own >= 4 && own-other >= 2 {
		return s.winGame(side), nil
	}
	if s.state.Points[Human] >= 3 && s.state.Points[Computer] >= 3 {
		s.state.IsDeuce = true
	}
	return OutcomePoint, nil
}

func (s *ScoreEngine) winGame(side Side) Outcome {
	s.state.Games[side]++
	s.state.LastGameWinner = side
	if s.state.Games[side] >= s.gamesToWin {
		s.state.MatchWinner = side
		return OutcomeMatchWon
	}
	return OutcomeGameWon
}

// ResetGame clears points and the deuce sub-state. Games and server stay.
func (s *ScoreEngine) ResetGame() {
	s.state.Points = [2]int{}
	s.state.IsDeuce = false
	s.state.Advantage = NoSide
}

// NextGame hands the serve to the other side and starts a fresh game.
func (s *ScoreEngine) NextGame() {
	s.state.Server = s.state.Server.Other()
	s.ResetGame()
}

// ResetMatch zeroes everything, the winner included.
func (s *ScoreEngine) ResetMatch() {
	s.state = newMatchState()
}

var pointNames = [...]string{"0", "15", "30", "40"}

// PointDisplay renders the current game score for side in tennis notation.
func (s *ScoreEngine) PointDisplay(side Side) string {
	if !side.Valid() {
		return ""
	}
	if s.state.IsDeuce {
		if s.state.Advantage == side {
			return "Ad"
		}
		return "40"
	}
	p := s.state.Points[side]
	if p < 0 {
		p = 0
	}
	if p >= len(pointNames) {
		p = len(pointNames) - 1
	}
	return pointNames[p]
}

func sideLabel(s Side) string {
	if s == Human {
		return "Player"
	}
	return "Computer"
}

// Status is the one-line caption shown under the score for the given phase.
func (s *ScoreEngine) Status(phase Phase) string {
	status := ""
	if s.state.IsDeuce {
		switch s.state.Advantage {
		case NoSide:
			status = "Deuce"
		default:
			status = sideLabel(s.state.Advantage) + " advantage"
		}
	}

	switch phase.Kind {
	case PhaseWaiting:
		status = "Press SPACE to start"
	case PhaseGameWon:
		status = sideLabel(phase.Side) + " wins the game! (SPACE for next game)"
	case PhaseMatchWon:
		status = sideLabel(phase.Side) + " wins the match! (SPACE to restart)"
	case PhaseServing:
		if phase.Side == Human {
			status = "Your serve - W/S to aim, SPACE to serve"
		} else {
			status = "Computer serving"
		}
	case PhasePlaying, PhasePointScored:
		if !s.state.IsDeuce {
			status = "Server: " + sideLabel(s.state.Server)
		}
	}
	return status
}

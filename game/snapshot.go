package game

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

type Court struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Display holds the score as a scoreboard would print it.
type Display struct {
	Points [2]string `json:"points"`
	Status string    `json:"status"`
}

// Snapshot is the read-only view handed to renderers once per tick. It is a
// value; renderers may keep it without affecting the simulation.
type Snapshot struct {
	Tick     uint64        `json:"tick"`
	MatchID  string        `json:"matchId"`
	Court    Court         `json:"court"`
	Phase    Phase         `json:"phase"`
	Ball     Ball          `json:"ball"`
	Paddles  [2]Paddle     `json:"paddles"`
	Match    MatchState    `json:"match"`
	Opponent OpponentModel `json:"opponent"`
	Display  Display       `json:"display"`
	Demo     bool          `json:"demo"`
}

// Hash fingerprints the simulation state. MatchID is left out so two runs
// from the same seed hash identically.
func (s Snapshot) Hash() uint64 {
	s.MatchID = ""
	data, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// File: server/websocket.go
package server

import (
	"sync/atomic"

	"github.com/lguibr/retrotennis/game"
)

// InputMessage is what a client sends to press or release a control.
// Action is one of "moveUp", "moveDown", "confirm" or "mute".
type InputMessage struct {
	Action  string `json:"action"`
	Pressed bool   `json:"pressed"`
}

// StateMessage wraps every snapshot pushed to a client.
type StateMessage struct {
	MessageType string        `json:"messageType"`
	Snapshot    game.Snapshot `json:"snapshot"`
}

// ErrorMessage is sent back when a client message cannot be used.
type ErrorMessage struct {
	MessageType string `json:"messageType"`
	Error       string `json:"error"`
}

const (
	messageTypeState = "state"
	messageTypeError = "error"

	outboundBufferSize = 8
)

// connRenderer queues snapshots for one connection's writer goroutine.
// Render runs on the broadcaster goroutine and never blocks: a full queue
// drops the frame.
type connRenderer struct {
	out     chan game.Snapshot
	dropped atomic.Int64
}

func newConnRenderer() *connRenderer {
	return &connRenderer{out: make(chan game.Snapshot, outboundBufferSize)}
}

func (r *connRenderer) Render(snap game.Snapshot) {
	select {
	case r.out <- snap:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports how many frames were skipped for a slow client.
func (r *connRenderer) Dropped() int64 { return r.dropped.Load() }

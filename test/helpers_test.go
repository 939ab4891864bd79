// File: test/helpers_test.go
package test

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/server"
	"golang.org/x/net/websocket"
)

// ReadWsJSONMessage reads a JSON message from the websocket with a timeout.
// It handles setting/clearing read deadlines and checks for common errors.
func ReadWsJSONMessage(t *testing.T, ws *websocket.Conn, timeout time.Duration, v interface{}) error {
	t.Helper()
	if ws == nil {
		return errors.New("websocket connection is nil")
	}

	readDone := make(chan error, 1)
	go func() {
		if err := ws.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), "use of closed network connection") {
				readDone <- io.EOF
				return
			}
			readDone <- fmt.Errorf("failed to set read deadline: %w", err)
			return
		}
		err := websocket.JSON.Receive(ws, v)
		_ = ws.SetReadDeadline(time.Time{})
		readDone <- err
	}()

	select {
	case err := <-readDone:
		return err
	case <-time.After(timeout + 500*time.Millisecond):
		// Receive is blocked; closing the socket unblocks it.
		_ = ws.Close()
		return fmt.Errorf("websocket read timeout after %v (Receive call blocked)", timeout)
	}
}

// waitForSnapshot reads state messages until cond holds or timeout passes.
func waitForSnapshot(t *testing.T, ws *websocket.Conn, timeout time.Duration, cond func(game.Snapshot) bool) (game.Snapshot, bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var last game.Snapshot
	for time.Now().Before(deadline) {
		var msg server.StateMessage
		err := ReadWsJSONMessage(t, ws, time.Second, &msg)
		if err != nil {
			if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "closed") || strings.Contains(err.Error(), "timeout") {
				t.Logf("Connection closed or timed out while waiting for snapshot: %v", err)
				return last, false
			}
			t.Logf("Error reading snapshot: %v", err)
			continue
		}
		if msg.MessageType != "state" {
			continue
		}
		last = msg.Snapshot
		if cond(last) {
			return last, true
		}
	}
	t.Logf("Timeout waiting for snapshot condition after %v", timeout)
	return last, false
}

// sendAction presses or releases one control.
func sendAction(ws *websocket.Conn, action string, pressed bool) error {
	return websocket.JSON.Send(ws, server.InputMessage{Action: action, Pressed: pressed})
}

// tap presses a control and releases it after hold.
func tap(ws *websocket.Conn, action string, hold time.Duration) error {
	if err := sendAction(ws, action, true); err != nil {
		return err
	}
	time.Sleep(hold)
	return sendAction(ws, action, false)
}

// countingNotifier tallies events by kind. OnEvent runs on the match actor
// goroutine while the test reads the counts.
type countingNotifier struct {
	mu     sync.Mutex
	counts map[game.EventKind]int
}

func (n *countingNotifier) OnEvent(ev game.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.counts == nil {
		n.counts = make(map[game.EventKind]int)
	}
	n.counts[ev.Kind]++
}

func (n *countingNotifier) count(kind game.EventKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counts[kind]
}

// File: server/handlers_test.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

// --- Mock Actor (Captures Sent Messages) ---
type MockActor struct {
	mu       sync.Mutex
	Received []interface{}
}

func (a *MockActor) Receive(ctx bollywood.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch ctx.Message().(type) {
	case bollywood.Started, bollywood.Stopping, bollywood.Stopped:
		return
	case game.GetSnapshot:
		ctx.Reply(game.Snapshot{Tick: 7, MatchID: "mock"})
		return
	}
	a.Received = append(a.Received, ctx.Message())
}

func (a *MockActor) GetReceived() []interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	msgs := make([]interface{}, len(a.Received))
	copy(msgs, a.Received)
	return msgs
}

func (a *MockActor) ClearMessages() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Received = nil
}

// --- Test Setup ---
func setupMockServer(t *testing.T) (*Server, *bollywood.Engine, *MockActor) {
	t.Helper()
	engine := bollywood.NewEngine(zap.NewNop())
	mock := &MockActor{}
	pid := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return mock }))
	require.NotNil(t, pid)
	t.Cleanup(func() { engine.Shutdown(2 * time.Second) })
	return New(engine, pid, nil), engine, mock
}

func setupMatchServer(t *testing.T) (*Server, *bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine(zap.NewNop())
	cfg := utils.DefaultConfig()
	cfg.Seed = 42
	pid := engine.Spawn(bollywood.NewProps(game.NewMatchActorProducer(game.MatchActorOptions{
		Config:     cfg,
		ManualTick: true,
	})))
	require.NotNil(t, pid)
	t.Cleanup(func() { engine.Shutdown(2 * time.Second) })
	return New(engine, pid, nil), engine, pid
}

func dial(t *testing.T, srv *Server) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(srv.Routes())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscribe"
	ws, err := websocket.Dial(wsURL, "", ts.URL)
	require.NoError(t, err)
	return ws, ts
}

// Helper to wait for a specific message type with timeout
func waitForMessage(t *testing.T, mock *MockActor, targetType interface{}, timeout time.Duration) (interface{}, bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, msg := range mock.GetReceived() {
			if fmt.Sprintf("%T", msg) == fmt.Sprintf("%T", targetType) {
				return msg, true
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	return nil, false
}

// --- Tests ---

func TestHandleSubscribe_SubscribesRenderer(t *testing.T) {
	srv, _, mock := setupMockServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()
	defer ws.Close()

	msg, found := waitForMessage(t, mock, game.Subscribe{}, time.Second)
	require.True(t, found, "match should receive Subscribe")
	sub := msg.(game.Subscribe)
	assert.NotEmpty(t, sub.ID)
	require.NotNil(t, sub.Renderer)

	sub.Renderer.Render(game.Snapshot{Tick: 3, Phase: game.Playing()})

	var out StateMessage
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, websocket.JSON.Receive(ws, &out))
	assert.Equal(t, "state", out.MessageType)
	assert.Equal(t, uint64(3), out.Snapshot.Tick)
	assert.Equal(t, game.Playing(), out.Snapshot.Phase)
}

func TestReadLoop_ForwardsAction(t *testing.T) {
	srv, _, mock := setupMockServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()
	defer ws.Close()

	_, found := waitForMessage(t, mock, game.Subscribe{}, time.Second)
	require.True(t, found)
	mock.ClearMessages()

	require.NoError(t, websocket.JSON.Send(ws, InputMessage{Action: "moveUp", Pressed: true}))

	msg, found := waitForMessage(t, mock, game.SetAction{}, time.Second)
	require.True(t, found, "match should receive SetAction")
	assert.Equal(t, game.SetAction{Action: game.MoveUp, Pressed: true}, msg)
}

func TestReadLoop_RejectsUnknownAction(t *testing.T) {
	srv, _, mock := setupMockServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()
	defer ws.Close()

	_, found := waitForMessage(t, mock, game.Subscribe{}, time.Second)
	require.True(t, found)
	mock.ClearMessages()

	require.NoError(t, websocket.JSON.Send(ws, InputMessage{Action: "jump", Pressed: true}))

	var out ErrorMessage
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, websocket.JSON.Receive(ws, &out))
	assert.Equal(t, "error", out.MessageType)
	assert.Contains(t, out.Error, "jump")

	_, found = waitForMessage(t, mock, game.SetAction{}, 200*time.Millisecond)
	assert.False(t, found)
}

func TestReadLoop_ReleasesOnClose(t *testing.T) {
	srv, _, mock := setupMockServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()

	_, found := waitForMessage(t, mock, game.Subscribe{}, time.Second)
	require.True(t, found)
	mock.ClearMessages()

	require.NoError(t, ws.Close())

	_, found = waitForMessage(t, mock, game.Unsubscribe{}, 2*time.Second)
	assert.True(t, found, "match should receive Unsubscribe after client close")
	_, found = waitForMessage(t, mock, game.ReleaseActions{}, 2*time.Second)
	assert.True(t, found, "held controls should be released after client close")
}

func TestReadLoop_ReleasesOnBadPayload(t *testing.T) {
	srv, _, mock := setupMockServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()
	defer ws.Close()

	_, found := waitForMessage(t, mock, game.Subscribe{}, time.Second)
	require.True(t, found)
	mock.ClearMessages()

	_, err := ws.Write([]byte("this is not json"))
	assert.NoError(t, err)

	_, found = waitForMessage(t, mock, game.ReleaseActions{}, 2*time.Second)
	assert.True(t, found)
}

func TestHandleGetState_ReturnsSnapshot(t *testing.T) {
	srv, _, _ := setupMockServer(t)

	rr := httptest.NewRecorder()
	srv.HandleGetState().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, uint64(7), snap.Tick)
	assert.Equal(t, "mock", snap.MatchID)
}

func TestHandleGetState_NoMatch(t *testing.T) {
	srv := New(nil, nil, nil)

	rr := httptest.NewRecorder()
	srv.HandleGetState().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleGetStateText_DrawsCourt(t *testing.T) {
	srv, _, _ := setupMatchServer(t)

	rr := httptest.NewRecorder()
	srv.HandleGetStateText().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state.txt", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rr.Body.String(), "Press SPACE to start")
}

func TestSubscribe_StreamsMatchTicks(t *testing.T) {
	srv, engine, pid := setupMatchServer(t)
	ws, ts := dial(t, srv)
	defer ts.Close()
	defer ws.Close()

	require.Eventually(t, func() bool {
		reply, err := engine.Ask(pid, game.GetSubscriberCount{}, utils.AskTimeout)
		return err == nil && reply == 1
	}, 2*time.Second, 20*time.Millisecond)

	engine.Send(pid, game.MatchTick{}, nil)

	var out StateMessage
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, websocket.JSON.Receive(ws, &out))
	assert.Equal(t, uint64(1), out.Snapshot.Tick)
	assert.Equal(t, game.Waiting(), out.Snapshot.Phase)

	rr := httptest.NewRecorder()
	srv.HandleHealth().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"actors":3,"subscribers":1}`, rr.Body.String())
}

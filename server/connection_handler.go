// File: server/connection_handler.go
package server

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/game"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

var (
	errActorStopping  = errors.New("connection handler actor stopping")
	errReadLoopExited = errors.New("read loop exited")
)

const (
	readTimeout     = 90 * time.Second
	writeTimeout    = 5 * time.Second
	loopExitTimeout = 2 * time.Second
)

// inputReceived carries a decoded client message from the read loop back
// into the actor.
type inputReceived struct {
	Input InputMessage
}

// ConnectionHandlerActor manages a single websocket connection: it subscribes
// the connection to the match's snapshot stream and turns client messages
// into SetAction messages for the MatchActor.
type ConnectionHandlerActor struct {
	conn     *websocket.Conn
	engine   *bollywood.Engine
	matchPID *bollywood.PID
	selfPID  *bollywood.PID
	connID   string
	logger   *zap.Logger
	renderer *connRenderer

	stopLoops       chan struct{}
	readLoopExited  chan struct{}
	writeLoopExited chan struct{}
	done            chan struct{}
	closeOnce       sync.Once
	loopsStarted    bool
	cleanedUp       bool
}

// ConnectionHandlerArgs holds arguments for creating the actor.
type ConnectionHandlerArgs struct {
	Conn     *websocket.Conn
	MatchPID *bollywood.PID
	Logger   *zap.Logger
	Done     chan struct{} // closed once the actor has stopped
}

// NewConnectionHandlerProducer creates a producer for ConnectionHandlerActor.
func NewConnectionHandlerProducer(args ConnectionHandlerArgs) bollywood.Producer {
	return func() bollywood.Actor {
		connID := uuid.NewString()
		logger := args.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		addr := "unknown"
		if args.Conn != nil && args.Conn.Request() != nil {
			addr = args.Conn.Request().RemoteAddr
		}
		return &ConnectionHandlerActor{
			conn:            args.Conn,
			matchPID:        args.MatchPID,
			connID:          connID,
			logger:          logger.With(zap.String("connId", connID), zap.String("remote", addr)),
			renderer:        newConnRenderer(),
			stopLoops:       make(chan struct{}),
			readLoopExited:  make(chan struct{}),
			writeLoopExited: make(chan struct{}),
			done:            args.Done,
		}
	}
}

// Receive handles messages for the ConnectionHandlerActor.
func (a *ConnectionHandlerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic in connection handler", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			a.cleanup(fmt.Errorf("panic in Receive: %v", r))
		}
	}()

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.engine = ctx.Engine()
		a.selfPID = ctx.Self()
		if a.matchPID == nil || a.conn == nil {
			a.cleanup(errors.New("missing match or connection"))
			return
		}
		a.engine.Send(a.matchPID, game.Subscribe{ID: a.connID, Renderer: a.renderer}, a.selfPID)
		a.loopsStarted = true
		go a.writeLoop()
		go a.readLoop(a.engine, a.selfPID)
		a.logger.Info("client connected")

	case inputReceived:
		a.handleInput(msg.Input)

	case error:
		a.cleanup(msg)

	case bollywood.Stopping:
		a.performCleanupActions(errActorStopping)

	case bollywood.Stopped:
		a.closeOnce.Do(func() {
			if a.done != nil {
				close(a.done)
			}
		})

	default:
		a.logger.Warn("unknown message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (a *ConnectionHandlerActor) handleInput(in InputMessage) {
	action, err := game.ParseAction(in.Action)
	if err != nil {
		a.logger.Debug("rejected client input", zap.Error(err))
		_ = a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = websocket.JSON.Send(a.conn, ErrorMessage{MessageType: messageTypeError, Error: err.Error()})
		return
	}
	a.engine.Send(a.matchPID, game.SetAction{Action: action, Pressed: in.Pressed}, a.selfPID)
}

// readLoop decodes client messages until the connection fails or the actor
// asks it to stop.
func (a *ConnectionHandlerActor) readLoop(engine *bollywood.Engine, selfPID *bollywood.PID) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic in read loop", zap.Any("panic", r))
		}
		close(a.readLoopExited)
		engine.Send(selfPID, errReadLoopExited, nil)
	}()

	for {
		select {
		case <-a.stopLoops:
			return
		default:
		}

		var in InputMessage
		_ = a.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if err := websocket.JSON.Receive(a.conn, &in); err != nil {
			select {
			case <-a.stopLoops:
			default:
				a.logger.Debug("read failed", zap.Error(err))
			}
			return
		}
		engine.Send(selfPID, inputReceived{Input: in}, nil)
	}
}

// writeLoop pushes queued snapshots to the client.
func (a *ConnectionHandlerActor) writeLoop() {
	defer close(a.writeLoopExited)
	for {
		select {
		case <-a.stopLoops:
			return
		case snap := <-a.renderer.out:
			_ = a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := websocket.JSON.Send(a.conn, StateMessage{MessageType: messageTypeState, Snapshot: snap}); err != nil {
				a.logger.Debug("write failed", zap.Error(err))
				// Closing unblocks the read loop, which reports back to the actor.
				_ = a.conn.Close()
				return
			}
		}
	}
}

// cleanup is called when the connection terminates. It releases everything
// and stops the actor.
func (a *ConnectionHandlerActor) cleanup(reason error) {
	a.performCleanupActions(reason)
	if a.engine != nil && a.selfPID != nil {
		a.engine.Stop(a.selfPID)
	}
}

// performCleanupActions stops both loops, closes the socket, and detaches the
// client from the match. It runs once.
func (a *ConnectionHandlerActor) performCleanupActions(reason error) {
	if a.cleanedUp {
		return
	}
	a.cleanedUp = true

	close(a.stopLoops)
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if a.loopsStarted {
		a.waitForLoop(a.readLoopExited, "read")
		a.waitForLoop(a.writeLoopExited, "write")
	}

	if a.engine != nil && a.matchPID != nil {
		a.engine.Send(a.matchPID, game.Unsubscribe{ID: a.connID}, a.selfPID)
		a.engine.Send(a.matchPID, game.ReleaseActions{}, a.selfPID)
	}

	fields := []zap.Field{zap.Int64("droppedFrames", a.renderer.Dropped())}
	if errors.Is(reason, errReadLoopExited) || errors.Is(reason, errActorStopping) {
		a.logger.Info("client disconnected", append(fields, zap.String("reason", reason.Error()))...)
		return
	}
	a.logger.Warn("client disconnected", append(fields, zap.Error(reason))...)
}

func (a *ConnectionHandlerActor) waitForLoop(exited <-chan struct{}, name string) {
	select {
	case <-exited:
	case <-time.After(loopExitTimeout):
		a.logger.Warn("timeout waiting for loop to exit", zap.String("loop", name))
	}
}

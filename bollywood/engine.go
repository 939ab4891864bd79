package bollywood

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrTimeout is returned by Ask when no reply arrives in time.
	ErrTimeout = errors.New("bollywood: ask timed out")
	// ErrActorNotFound is returned by Ask when the target PID is not running.
	ErrActorNotFound = errors.New("bollywood: actor not found")
	// ErrEngineStopping is returned by Ask once Shutdown has begun.
	ErrEngineStopping = errors.New("bollywood: engine is stopping")
)

// Engine manages the lifecycle and message dispatching for actors.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex
	stopping   atomic.Bool
	logger     *zap.Logger
}

// NewEngine creates a new actor engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		actors: make(map[string]*process),
		logger: logger.Named("bollywood"),
	}
}

func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn creates and starts a new actor based on the provided Props.
// It returns nil once the engine is shutting down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		e.logger.Warn("engine is stopping, cannot spawn new actors")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()

	proc.sendMessage(&messageEnvelope{message: Started{}})
	return pid
}

func (e *Engine) lookup(pid *PID) (*process, bool) {
	if pid == nil {
		return nil, false
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	return proc, ok
}

// Send delivers a message to the actor identified by the PID. Delivery is best effort.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if e.stopping.Load() && !isSystemMessage(message) {
		return
	}
	proc, ok := e.lookup(pid)
	if !ok {
		return
	}
	proc.sendMessage(&messageEnvelope{sender: sender, message: message})
}

// Ask delivers a message and waits up to timeout for the actor to call ctx.Reply.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if e.stopping.Load() {
		return nil, ErrEngineStopping
	}
	proc, ok := e.lookup(pid)
	if !ok {
		return nil, fmt.Errorf("ask %s: %w", pid, ErrActorNotFound)
	}

	replyCh := make(chan interface{}, 1)
	if !proc.sendMessage(&messageEnvelope{message: message, replyCh: replyCh}) {
		return nil, fmt.Errorf("ask %s: mailbox rejected %T", pid, message)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-replyCh:
		return reply, nil
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Stop requests an actor to stop. The actor receives Stopping then Stopped.
func (e *Engine) Stop(pid *PID) {
	proc, ok := e.lookup(pid)
	if !ok {
		return
	}
	proc.sendMessage(&messageEnvelope{message: Stopping{}})
	proc.closeStop()
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// ActorCount reports the number of live actors.
func (e *Engine) ActorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.actors)
}

// Shutdown stops all actors and waits up to timeout for them to terminate.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	e.logger.Info("engine shutdown initiated", zap.Int("actors", len(pids)))
	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.ActorCount() == 0 {
			e.logger.Info("engine shutdown complete")
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.Lock()
	remaining := make([]string, 0, len(e.actors))
	for id := range e.actors {
		remaining = append(remaining, id)
	}
	e.actors = make(map[string]*process)
	e.mu.Unlock()
	e.logger.Warn("engine shutdown timed out", zap.Strings("remaining", remaining))
}

package bollywood

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const defaultMailboxSize = 1024

// process represents the running instance of an actor, including its state and mailbox.
type process struct {
	engine   *Engine
	pid      *PID
	actor    Actor
	props    *Props
	mailbox  chan *messageEnvelope
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
	logger   *zap.Logger
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, props.mailboxSize),
		stopCh:  make(chan struct{}),
		logger:  engine.logger.With(zap.String("actor", pid.ID)),
	}
}

func (p *process) closeStop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// sendMessage enqueues without blocking. A full mailbox drops the message.
func (p *process) sendMessage(envelope *messageEnvelope) bool {
	if p.stopped.Load() && !isSystemMessage(envelope.message) {
		return false
	}
	select {
	case p.mailbox <- envelope:
		return true
	default:
		p.logger.Warn("mailbox full, dropping message", zap.String("type", fmt.Sprintf("%T", envelope.message)))
		return false
	}
}

// run is the main loop for the actor process.
func (p *process) run() {
	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			p.invokeReceive(&messageEnvelope{message: Stopped{}})
		}
		p.engine.remove(p.pid)
	}()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("actor panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			p.closeStop()
		}
	}()

	p.actor = p.props.produce()
	if p.actor == nil {
		panic(fmt.Sprintf("actor %s producer returned nil actor", p.pid.ID))
	}

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) {
				p.invokeReceive(&messageEnvelope{message: Stopping{}})
			}
			return

		case envelope := <-p.mailbox:
			switch envelope.message.(type) {
			case Stopping:
				if p.stopped.CompareAndSwap(false, true) {
					p.invokeReceive(envelope)
					p.closeStop()
				}
			case Stopped:
				// Delivered by the deferred cleanup only.
			default:
				if p.stopped.Load() {
					continue
				}
				p.invokeReceive(envelope)
			}
		}
	}
}

// invokeReceive calls the actor's Receive method within a protected context.
func (p *process) invokeReceive(envelope *messageEnvelope) {
	ctx := &context{
		engine:  p.engine,
		self:    p.pid,
		sender:  envelope.sender,
		message: envelope.message,
		replyCh: envelope.replyCh,
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("actor panicked during Receive",
				zap.String("message", fmt.Sprintf("%T", envelope.message)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	p.actor.Receive(ctx)
}

// File: game/broadcaster_actor.go
package game

import (
	"fmt"

	"github.com/lguibr/retrotennis/bollywood"
	"go.uber.org/zap"
)

// BroadcasterActor fans snapshots out to subscribed renderers off the tick
// loop. A renderer that panics is dropped.
type BroadcasterActor struct {
	renderers map[string]Renderer
	order     []string
	logger    *zap.Logger
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer(logger *zap.Logger) bollywood.Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func() bollywood.Actor {
		return &BroadcasterActor{
			renderers: make(map[string]Renderer),
			logger:    logger.Named("broadcaster"),
		}
	}
}

// Receive handles messages for the BroadcasterActor.
func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.logger.Debug("broadcaster started", zap.Stringer("pid", ctx.Self()))

	case Subscribe:
		if msg.Renderer == nil || msg.ID == "" {
			return
		}
		if _, exists := a.renderers[msg.ID]; !exists {
			a.order = append(a.order, msg.ID)
		}
		a.renderers[msg.ID] = msg.Renderer
		a.logger.Info("renderer subscribed", zap.String("id", msg.ID), zap.Int("subscribers", len(a.renderers)))

	case Unsubscribe:
		a.remove(msg.ID)

	case BroadcastSnapshot:
		a.broadcast(msg.Snapshot)

	case GetSubscriberCount:
		ctx.Reply(len(a.renderers))

	case bollywood.Stopping:
		a.logger.Debug("broadcaster stopping", zap.Int("subscribers", len(a.renderers)))
		a.renderers = make(map[string]Renderer)
		a.order = nil

	case bollywood.Stopped:

	default:
		a.logger.Warn("unknown message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (a *BroadcasterActor) remove(id string) {
	if _, exists := a.renderers[id]; !exists {
		return
	}
	delete(a.renderers, id)
	for i, existing := range a.order {
		if existing == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	a.logger.Info("renderer unsubscribed", zap.String("id", id), zap.Int("subscribers", len(a.renderers)))
}

// broadcast hands snap to every renderer in subscription order.
func (a *BroadcasterActor) broadcast(snap Snapshot) {
	var failed []string
	for _, id := range a.order {
		if !a.render(id, a.renderers[id], snap) {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		a.remove(id)
	}
}

func (a *BroadcasterActor) render(id string, r Renderer, snap Snapshot) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("renderer panicked", zap.String("id", id), zap.Any("panic", rec))
			ok = false
		}
	}()
	r.Render(snap)
	return true
}

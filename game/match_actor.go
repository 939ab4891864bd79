// File: game/match_actor.go
package game

import (
	"fmt"
	"time"

	"github.com/lguibr/retrotennis/bollywood"
	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
)

// MatchActor hosts one Simulation. Every mutation of the simulation happens
// inside Receive, so it is stepped by a single goroutine one message at a
// time; the ticker goroutine only posts MatchTick.
type MatchActor struct {
	cfg          utils.Config
	logger       *zap.Logger
	notifier     Notifier
	idle         IdleDriver
	rng          Random
	sim          *Simulation
	input        *ActionState
	latest       Snapshot
	engine       *bollywood.Engine
	selfPID      *bollywood.PID
	broadcaster  *bollywood.PID
	ticker       *time.Ticker
	stopTickerCh chan struct{}
}

// MatchActorOptions configures a MatchActor. Zero values are valid: no sound,
// no attract mode and a seed taken from the config.
type MatchActorOptions struct {
	Config   utils.Config
	Notifier Notifier
	Idle     IdleDriver
	Rand     Random
	Logger   *zap.Logger

	// ManualTick disables the internal ticker; the simulation only advances
	// on MatchTick messages.
	ManualTick bool
}

// NewMatchActorProducer creates a producer for the MatchActor.
func NewMatchActorProducer(opts MatchActorOptions) bollywood.Producer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func() bollywood.Actor {
		a := &MatchActor{
			cfg:          opts.Config,
			logger:       logger.Named("match"),
			notifier:     opts.Notifier,
			idle:         opts.Idle,
			rng:          opts.Rand,
			input:        &ActionState{},
			stopTickerCh: make(chan struct{}),
		}
		if opts.ManualTick {
			a.stopTickerCh = nil
		}
		return a
	}
}

// Receive is the main message handler for the MatchActor.
func (a *MatchActor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.handleStarted(ctx)

	case MatchTick:
		if a.sim != nil {
			a.latest = a.sim.Step()
		}

	case SetAction:
		a.input.Set(msg.Action, msg.Pressed)

	case ReleaseActions:
		a.input.Release()

	case GetSnapshot:
		ctx.Reply(a.latest)

	case Subscribe, Unsubscribe, GetSubscriberCount:
		a.forwardToBroadcaster(ctx, msg)

	case bollywood.Stopping:
		a.logger.Info("match actor stopping", zap.Uint64("tick", a.latest.Tick))
		a.stopTicker()
		if a.broadcaster != nil {
			a.engine.Stop(a.broadcaster)
		}

	case bollywood.Stopped:
		a.logger.Debug("match actor stopped")

	default:
		a.logger.Warn("unknown message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (a *MatchActor) handleStarted(ctx bollywood.Context) {
	a.engine = ctx.Engine()
	a.selfPID = ctx.Self()
	a.broadcaster = a.engine.Spawn(bollywood.NewProps(NewBroadcasterProducer(a.logger)))

	a.sim = NewSimulation(Options{
		Config:   a.cfg,
		Input:    a.input,
		Renderer: &broadcastRenderer{engine: a.engine, target: a.broadcaster, sender: a.selfPID},
		Notifier: a.notifier,
		Idle:     a.idle,
		Rand:     a.rng,
		Logger:   a.logger,
	})
	a.latest = a.sim.Snapshot()
	a.logger.Info("match actor started",
		zap.Stringer("pid", a.selfPID),
		zap.String("matchId", a.sim.MatchID()),
		zap.Duration("tickPeriod", a.cfg.TickPeriod),
	)

	if a.stopTickerCh == nil {
		return
	}
	period := a.cfg.TickPeriod
	if period <= 0 {
		period = time.Second / utils.TicksPerSecond
	}
	a.ticker = time.NewTicker(period)
	go a.runTickerLoop(a.ticker, a.stopTickerCh)
}

func (a *MatchActor) forwardToBroadcaster(ctx bollywood.Context, msg interface{}) {
	if a.broadcaster == nil {
		return
	}
	if _, isAsk := msg.(GetSubscriberCount); isAsk {
		reply, err := a.engine.Ask(a.broadcaster, msg, utils.AskTimeout)
		if err != nil {
			a.logger.Warn("subscriber count failed", zap.Error(err))
			ctx.Reply(0)
			return
		}
		ctx.Reply(reply)
		return
	}
	a.engine.Send(a.broadcaster, msg, a.selfPID)
}

// runTickerLoop sends MatchTick messages to the actor's own mailbox at regular intervals.
func (a *MatchActor) runTickerLoop(ticker *time.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.engine.Send(a.selfPID, MatchTick{}, nil)
		}
	}
}

func (a *MatchActor) stopTicker() {
	if a.ticker != nil {
		a.ticker.Stop()
	}
	if a.stopTickerCh != nil {
		select {
		case <-a.stopTickerCh:
		default:
			close(a.stopTickerCh)
		}
	}
}

// broadcastRenderer forwards each snapshot to the broadcaster actor so slow
// renderers never stall the tick loop.
type broadcastRenderer struct {
	engine *bollywood.Engine
	target *bollywood.PID
	sender *bollywood.PID
}

func (r *broadcastRenderer) Render(snap Snapshot) {
	r.engine.Send(r.target, BroadcastSnapshot{Snapshot: snap}, r.sender)
}

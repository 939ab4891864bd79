package game

import (
	"errors"

	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
)

// MatchDirector sequences the match. It is the only writer of Phase and the
// only caller of the ScoreEngine mutators and of PhysicsEngine serve resets.
type MatchDirector struct {
	cfg        utils.Config
	phase      Phase
	phaseTicks int
	entered    bool // phase changed during the current step
	score      *ScoreEngine
	physics    *PhysicsEngine
	rng        Random
	logger     *zap.Logger
}

func NewMatchDirector(cfg utils.Config, score *ScoreEngine, physics *PhysicsEngine, rng Random, logger *zap.Logger) *MatchDirector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchDirector{
		cfg:     cfg,
		phase:   Waiting(),
		score:   score,
		physics: physics,
		rng:     rng,
		logger:  logger,
	}
}

func (d *MatchDirector) Phase() Phase { return d.phase }

// PhaseTicks is the number of ticks spent in the current phase.
func (d *MatchDirector) PhaseTicks() int { return d.phaseTicks }

func (d *MatchDirector) setPhase(p Phase) {
	if p != d.phase {
		d.logger.Debug("phase transition", zap.Stringer("from", d.phase), zap.Stringer("to", p))
	}
	d.phase = p
	d.phaseTicks = 0
	d.entered = true
}

func (d *MatchDirector) startServe(server Side) {
	d.physics.PrepareServe(server)
	d.setPhase(Serving(server))
}

func (d *MatchDirector) launch(server Side) Event {
	ev := d.physics.Launch(server, d.rng)
	d.setPhase(Playing())
	return ev
}

// Confirm applies a confirm press. It returns the Serve event when the press
// puts the ball in play. Presses in Playing, PointScored and during the
// computer's serve are ignored.
func (d *MatchDirector) Confirm() []Event {
	switch d.phase.Kind {
	case PhaseWaiting:
		d.startServe(d.score.State().Server)
	case PhaseServing:
		if d.phase.Side == Human {
			return []Event{d.launch(Human)}
		}
	case PhaseGameWon:
		if winner := d.score.State().MatchWinner; winner != NoSide {
			d.setPhase(MatchWon(winner))
			return nil
		}
		d.score.NextGame()
		d.startServe(d.score.State().Server)
	case PhaseMatchWon:
		d.score.ResetMatch()
		d.physics.Reset()
		d.setPhase(Waiting())
		d.logger.Info("match reset")
	}
	return nil
}

// HandleEvents feeds physics events into the score. Only PointScored matters
// and only while the ball is in play.
func (d *MatchDirector) HandleEvents(events []Event) {
	for _, ev := range events {
		if ev.Kind != EventPointScored || d.phase.Kind != PhasePlaying {
			continue
		}
		outcome, err := d.score.AwardPoint(ev.Side)
		if err != nil {
			if errors.Is(err, ErrMatchAlreadyWon) {
				d.logger.Debug("point ignored", zap.Stringer("side", ev.Side), zap.Error(err))
				continue
			}
			d.logger.Warn("award point failed", zap.Error(err))
			continue
		}

		st := d.score.State()
		d.logger.Debug("point scored",
			zap.Stringer("side", ev.Side),
			zap.Stringer("outcome", outcome),
			zap.Ints("points", st.Points[:]),
			zap.Ints("games", st.Games[:]),
		)
		switch outcome {
		case OutcomePoint:
			d.setPhase(PointScored())
		case OutcomeGameWon:
			d.setPhase(GameWon(ev.Side))
		case OutcomeMatchWon:
			d.setPhase(MatchWon(ev.Side))
			d.logger.Info("match won", zap.Stringer("winner", ev.Side), zap.Ints("games", st.Games[:]))
		}
	}
}

// Tick closes a step and advances the phase timers: the computer's delayed
// serve and the pause after a point. A phase entered during the step starts
// counting on the next one. It returns the Serve event if the computer served.
func (d *MatchDirector) Tick() []Event {
	defer func() { d.entered = false }()
	if !d.entered {
		d.phaseTicks++
	}
	switch d.phase.Kind {
	case PhaseServing:
		if d.phase.Side == Computer && d.phaseTicks >= d.cfg.ComputerServeDelayTicks {
			return []Event{d.launch(Computer)}
		}
	case PhasePointScored:
		if d.phaseTicks >= d.cfg.PointPauseTicks {
			d.startServe(d.score.State().Server)
		}
	}
	return nil
}

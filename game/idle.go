package game

import (
	"math"

	"github.com/lguibr/retrotennis/utils"
	"go.uber.org/zap"
)

// IdleDriver runs attract mode. Drive is called every tick that carries no
// qualifying human input, and HumanInputObserved on every tick that does.
type IdleDriver interface {
	Drive(snap Snapshot) Intent
	HumanInputObserved()
	Active() bool
}

// DemoDriver plays the human side after a period of inactivity in Waiting.
// It steers the left paddle towards the ball, serves and confirms on dwell
// timers, and hands control back after a match ends.
type DemoDriver struct {
	cfg        utils.Config
	logger     *zap.Logger
	active     bool
	idleTicks  int
	lastPhase  Phase
	phaseTicks int
}

func NewDemoDriver(cfg utils.Config, logger *zap.Logger) *DemoDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoDriver{cfg: cfg, logger: logger, lastPhase: Waiting()}
}

func (d *DemoDriver) Active() bool { return d.active }

func (d *DemoDriver) HumanInputObserved() {
	d.idleTicks = 0
	if d.active {
		d.active = false
		d.logger.Info("attract mode stopped by player input")
	}
}

func (d *DemoDriver) start(phase Phase) {
	d.active = true
	d.lastPhase = phase
	d.phaseTicks = 0
	d.logger.Info("attract mode started", zap.Int("idleTicks", d.idleTicks))
}

func (d *DemoDriver) stop() {
	d.active = false
	d.idleTicks = 0
	d.logger.Info("attract mode finished")
}

func (d *DemoDriver) Drive(snap Snapshot) Intent {
	if !d.active {
		d.idleTicks++
		if snap.Phase.Kind != PhaseWaiting || d.idleTicks < d.cfg.IdleTimeoutTicks {
			return Intent{}
		}
		d.start(snap.Phase)
	}

	if snap.Phase != d.lastPhase {
		d.lastPhase = snap.Phase
		d.phaseTicks = 0
	}
	d.phaseTicks++

	switch snap.Phase.Kind {
	case PhasePlaying:
		return d.track(snap)
	case PhaseServing:
		if snap.Phase.Side == Human && d.dwell(d.cfg.DemoServeDwellTicks) {
			return Intent{Confirm: true}
		}
	case PhaseWaiting:
		if d.dwell(d.cfg.DemoStartDwellTicks) {
			return Intent{Confirm: true}
		}
	case PhaseGameWon:
		if d.dwell(d.cfg.DemoGameWonDwellTicks) {
			return Intent{Confirm: true}
		}
	case PhaseMatchWon:
		if d.dwell(d.cfg.DemoGameWonDwellTicks) {
			d.stop()
			return Intent{Confirm: true}
		}
	}
	return Intent{}
}

// dwell reports whether the current phase has lasted more than threshold
// ticks, restarting the count when it has.
func (d *DemoDriver) dwell(threshold int) bool {
	if d.phaseTicks <= threshold {
		return false
	}
	d.phaseTicks = 0
	return true
}

func (d *DemoDriver) track(snap Snapshot) Intent {
	paddle := snap.Paddles[Human]
	diff := (snap.Ball.Y - paddle.Height/2) - paddle.Y
	if math.Abs(diff) <= d.cfg.DemoTrackDeadZone {
		return Intent{}
	}
	if diff > 0 {
		return Intent{MoveDown: true}
	}
	return Intent{MoveUp: true}
}

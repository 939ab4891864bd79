package game

import (
	"github.com/lguibr/retrotennis/utils"
)

// Random is the subset of *rand.Rand the simulation draws from.
type Random interface {
	Float64() float64
}

// PhysicsEngine owns the ball and both paddles.
type PhysicsEngine struct {
	cfg     utils.Config
	ball    Ball
	paddles [2]Paddle
}

func NewPhysicsEngine(cfg utils.Config) *PhysicsEngine {
	pe := &PhysicsEngine{cfg: cfg}
	pe.Reset()
	return pe
}

// Reset centres both paddles and parks the ball mid-court.
func (pe *PhysicsEngine) Reset() {
	pe.paddles[Human] = NewPaddle(pe.cfg.HumanPaddleX, pe.cfg)
	pe.paddles[Computer] = NewPaddle(pe.cfg.ComputerPaddleX(), pe.cfg)
	pe.ball = NewBall(pe.cfg)
}

func (pe *PhysicsEngine) Ball() Ball { return pe.ball }

func (pe *PhysicsEngine) Paddles() [2]Paddle { return pe.paddles }

// Paddle gives mutable access to side's paddle for the opponent controller.
func (pe *PhysicsEngine) Paddle(side Side) *Paddle {
	if !side.Valid() {
		return nil
	}
	return &pe.paddles[side]
}

// SetBall replaces the ball state. Used by tests and scripted scenarios.
func (pe *PhysicsEngine) SetBall(b Ball) { pe.ball = b }

// PrepareServe parks a motionless ball in front of server's paddle and clears
// the rally bookkeeping.
func (pe *PhysicsEngine) PrepareServe(server Side) {
	pe.ball.Stop()
	pe.pinToServer(server)
}

func (pe *PhysicsEngine) pinToServer(server Side) {
	paddle := pe.Paddle(server)
	if paddle == nil {
		return
	}
	if server == Human {
		pe.ball.X = paddle.Right() + pe.cfg.ServeDistance
	} else {
		pe.ball.X = paddle.X - pe.cfg.ServeDistance
	}
	pe.ball.Y = paddle.CenterY()
}

// Launch puts the ball in play away from server and returns the Serve event.
func (pe *PhysicsEngine) Launch(server Side, rng Random) Event {
	pe.ball.RallyHitCount = 0
	pe.ball.PointAlreadyCounted = false
	pe.ball.Dx = pe.cfg.ServeSpeed
	if server == Computer {
		pe.ball.Dx = -pe.cfg.ServeSpeed
	}
	pe.ball.Dy = (rng.Float64() - 0.5) * pe.cfg.ServeSpread
	return Event{Kind: EventServe, Side: server}
}

// Advance runs one tick of kinematics for the given phase and returns the
// events it produced, in the order they happened.
func (pe *PhysicsEngine) Advance(phase Phase, intent Intent) []Event {
	human := &pe.paddles[Human]
	human.MoveBy(intent.Direction()*pe.cfg.PaddleSpeed, pe.cfg.CourtHeight)

	if phase.Kind == PhaseServing {
		pe.pinToServer(phase.Side)
		return nil
	}
	if phase.Kind != PhasePlaying {
		return nil
	}

	var events []Event
	prevX := pe.ball.X
	pe.ball.Move()

	if pe.ball.CollideWalls(pe.cfg.CourtHeight) {
		events = append(events, Event{Kind: EventWallBounce, Side: NoSide})
	}

	for _, side := range [...]Side{Human, Computer} {
		paddle := &pe.paddles[side]
		if pe.ball.InterceptsPaddle(paddle, side, prevX) {
			pe.ball.HandleCollidePaddle(paddle, pe.cfg.PaddleSpeedUp, pe.cfg.SpinTransferFactor)
			events = append(events, Event{Kind: EventPaddleHit, Side: side})
		}
	}

	if ev, ok := pe.checkScore(); ok {
		events = append(events, ev)
	}
	return events
}

func (pe *PhysicsEngine) checkScore() (Event, bool) {
	if pe.ball.PointAlreadyCounted {
		return Event{}, false
	}
	scorer := NoSide
	switch {
	case pe.ball.X < 0:
		scorer = Computer
	case pe.ball.X > pe.cfg.CourtWidth:
		scorer = Human
	default:
		return Event{}, false
	}
	pe.ball.PointAlreadyCounted = true
	pe.ball.RallyHitCount = 0
	return Event{Kind: EventPointScored, Side: scorer}, true
}

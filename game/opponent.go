package game

import (
	"math"

	"github.com/lguibr/retrotennis/utils"
)

const (
	minRallyDifficulty = 0.3
	difficultyPerHit   = 0.08
	minFatigue         = 0.4
	fatiguePerHit      = 0.06

	lapseMinHits       = 3
	lapseBaseChance    = 0.15
	lapseChancePerHit  = 0.05
	lapseBaseFrames    = 2
	lapseFramesPerHit  = 0.5
	errorMinHits       = 2
	bounceErrorPx      = 40
	maxScoredBounces   = 16
	predictionBasePx   = 20
	predictionPerHitPx = 8
	slowdownMinHits    = 5
	slowdownPerHit     = 0.1
	minSlowdown        = 0.3
	targetJitterPx     = 25
)

// RallyDifficulty is the opponent skill for a rally of the given length. It
// never drops below 0.3.
func RallyDifficulty(base float64, hits int) float64 {
	return math.Max(minRallyDifficulty, base-float64(hits)*difficultyPerHit)
}

// Fatigue scales the opponent's paddle speed down as a rally lengthens. It
// never drops below 0.4.
func Fatigue(hits int) float64 {
	return math.Max(minFatigue, 1-float64(hits)*fatiguePerHit)
}

// LapseChance is the per-tick probability of a reaction lapse while the ball
// approaches. It is zero for short rallies.
func LapseChance(hits int) float64 {
	if hits <= lapseMinHits {
		return 0
	}
	return lapseBaseChance + float64(hits)*lapseChancePerHit
}

// OpponentModel is the computer's view of the rally.
type OpponentModel struct {
	TargetY             float64 `json:"targetY"`
	DifficultyBase      float64 `json:"difficultyBase"`
	ReactionDelayFrames int     `json:"reactionDelayFrames"`
	PredictionErrorPx   float64 `json:"predictionErrorPx"`
}

// OpponentController drives one paddle with a deliberately imperfect
// predictor that degrades as the rally gets longer.
type OpponentController struct {
	cfg   utils.Config
	side  Side
	model OpponentModel
	rng   Random
}

func NewOpponentController(cfg utils.Config, side Side, rng Random) *OpponentController {
	return &OpponentController{
		cfg:  cfg,
		side: side,
		rng:  rng,
		model: OpponentModel{
			TargetY:        cfg.CourtHeight/2 - cfg.PaddleHeight/2,
			DifficultyBase: cfg.OpponentDifficulty,
		},
	}
}

func (o *OpponentController) Model() OpponentModel { return o.model }

// Side is the paddle this controller moves.
func (o *OpponentController) Side() Side { return o.side }

// Reset forgets any pending lapse and recentres the target.
func (o *OpponentController) Reset() {
	o.model.ReactionDelayFrames = 0
	o.model.PredictionErrorPx = 0
	o.model.TargetY = o.restY()
}

func (o *OpponentController) restY() float64 {
	return o.cfg.CourtHeight/2 - o.cfg.PaddleHeight/2
}

// jitter returns a zero-mean random offset in [-scale/2, scale/2).
func (o *OpponentController) jitter(scale float64) float64 {
	return (o.rng.Float64() - 0.5) * scale
}

// Update moves paddle one tick towards where the controller expects ball to
// arrive.
func (o *OpponentController) Update(ball Ball, paddle *Paddle) {
	if paddle == nil {
		return
	}
	if o.model.ReactionDelayFrames > 0 {
		o.model.ReactionDelayFrames--
		paddle.Hold()
		return
	}

	hits := ball.RallyHitCount
	difficulty := RallyDifficulty(o.model.DifficultyBase, hits)
	fatigue := Fatigue(hits)

	if ball.HeadingTowards(o.side) {
		if chance := LapseChance(hits); chance > 0 && o.rng.Float64() < chance {
			o.model.ReactionDelayFrames = int(math.Floor(lapseBaseFrames + float64(hits)*lapseFramesPerHit))
			paddle.Hold()
			return
		}

		o.model.TargetY = o.predictY(ball, paddle, hits) - paddle.Height/2
		if hits > errorMinHits {
			o.model.PredictionErrorPx = o.jitter(predictionBasePx+float64(hits)*predictionPerHitPx) * (1 - difficulty)
			o.model.TargetY += o.model.PredictionErrorPx
		}
	} else {
		o.model.TargetY = o.restY()
	}

	speed := o.cfg.PaddleSpeed * difficulty * fatigue
	if hits > slowdownMinHits {
		speed *= math.Max(minSlowdown, 1-float64(hits-slowdownMinHits)*slowdownPerHit)
	}

	target := o.model.TargetY + o.jitter(targetJitterPx*(1-difficulty))
	target = utils.Clamp(target, 0, paddle.MaxY(o.cfg.CourtHeight))

	next := target
	if diff := target - paddle.Y; math.Abs(diff) > speed {
		next = paddle.Y + math.Copysign(speed, diff)
	}
	paddle.MoveTo(next, o.cfg.CourtHeight)
}

// predictY extrapolates the ball to the paddle face and folds the result back
// off the walls. Bounces after the first add error once the rally is long.
func (o *OpponentController) predictY(ball Ball, paddle *Paddle, hits int) float64 {
	faceX := paddle.X
	if o.side == Human {
		faceX = paddle.Right()
	}
	timeToReach := (faceX - ball.X) / ball.Dx
	raw := ball.Y + ball.Dy*timeToReach
	if !utils.IsFinite(raw) {
		return o.cfg.CourtHeight / 2
	}

	predicted, bounces := utils.FoldIntoRange(raw, o.cfg.CourtHeight)
	if hits > errorMinHits && bounces > 1 {
		offset := 0.0
		for b := 2; b <= utils.MinInt(bounces, maxScoredBounces); b++ {
			offset += o.jitter(bounceErrorPx * float64(b))
		}
		predicted, _ = utils.FoldIntoRange(predicted+offset, o.cfg.CourtHeight)
	}
	return predicted
}

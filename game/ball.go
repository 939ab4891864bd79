package game

import "github.com/lguibr/retrotennis/utils"

// Ball is the free-flying ball. RallyHitCount counts paddle contacts since the
// last serve and PointAlreadyCounted latches once a goal line is crossed.
type Ball struct {
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Dx                  float64 `json:"dx"`
	Dy                  float64 `json:"dy"`
	Radius              float64 `json:"radius"`
	RallyHitCount       int     `json:"rallyHitCount"`
	PointAlreadyCounted bool    `json:"pointAlreadyCounted"`
}

// NewBall returns a motionless ball in the middle of the court.
func NewBall(cfg utils.Config) Ball {
	return Ball{
		X:      cfg.CourtWidth / 2,
		Y:      cfg.CourtHeight / 2,
		Radius: cfg.BallRadius,
	}
}

func (b *Ball) Move() {
	b.X += b.Dx
	b.Y += b.Dy
}

// Stop zeroes the velocity and clears the per-point bookkeeping.
func (b *Ball) Stop() {
	b.Dx = 0
	b.Dy = 0
	b.RallyHitCount = 0
	b.PointAlreadyCounted = false
}

// HeadingTowards reports whether the horizontal velocity points at side's
// goal line. Human defends the left edge.
func (b *Ball) HeadingTowards(side Side) bool {
	switch side {
	case Human:
		return b.Dx < 0
	case Computer:
		return b.Dx > 0
	default:
		return false
	}
}

package game

import "github.com/lguibr/retrotennis/utils"

// Paddle is one side's bat. X is fixed for the whole match; Y is the top edge
// and stays within [0, courtHeight-Height].
type Paddle struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	PrevY    float64 `json:"prevY"`
	Velocity float64 `json:"velocity"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// NewPaddle returns a paddle vertically centred on the court.
func NewPaddle(x float64, cfg utils.Config) Paddle {
	y := cfg.CourtHeight/2 - cfg.PaddleHeight/2
	return Paddle{
		X:      x,
		Y:      y,
		PrevY:  y,
		Width:  cfg.PaddleWidth,
		Height: cfg.PaddleHeight,
	}
}

func (p *Paddle) CenterY() float64 { return p.Y + p.Height/2 }
func (p *Paddle) Bottom() float64  { return p.Y + p.Height }
func (p *Paddle) Right() float64   { return p.X + p.Width }

// MaxY is the largest legal top edge for a court of the given height.
func (p *Paddle) MaxY(courtHeight float64) float64 {
	return courtHeight - p.Height
}

// MoveTo starts a new tick: PrevY takes the current Y, Y becomes y clamped to
// the court and Velocity is the resulting delta.
func (p *Paddle) MoveTo(y, courtHeight float64) {
	p.PrevY = p.Y
	p.Y = utils.Clamp(y, 0, p.MaxY(courtHeight))
	p.Velocity = p.Y - p.PrevY
}

// MoveBy is MoveTo relative to the current position.
func (p *Paddle) MoveBy(dy, courtHeight float64) {
	p.MoveTo(p.Y+dy, courtHeight)
}

// Hold records a tick without movement.
func (p *Paddle) Hold() {
	p.PrevY = p.Y
	p.Velocity = 0
}

package game

import "math"

func (ball *Ball) CollidesTopWall() bool {
	return ball.Y <= ball.Radius
}

func (ball *Ball) CollidesBottomWall(courtHeight float64) bool {
	return ball.Y >= courtHeight-ball.Radius
}

// HandleCollideTop sends the ball downwards. It reports whether Dy changed
// sign, so a ball still inside the wall band after a bounce is not reflected
// back into the wall on the next tick.
func (ball *Ball) HandleCollideTop() bool {
	if ball.Dy >= 0 {
		return false
	}
	ball.Dy = math.Abs(ball.Dy)
	return true
}

func (ball *Ball) HandleCollideBottom() bool {
	if ball.Dy <= 0 {
		return false
	}
	ball.Dy = -math.Abs(ball.Dy)
	return true
}

// CollideWalls reflects off the top and bottom walls. The position is left as
// is; a fast ball may sit past the wall for one tick.
func (ball *Ball) CollideWalls(courtHeight float64) bool {
	if ball.CollidesTopWall() {
		return ball.HandleCollideTop()
	}
	if ball.CollidesBottomWall(courtHeight) {
		return ball.HandleCollideBottom()
	}
	return false
}

// InterceptsPaddle is the box-vs-circle test for the paddle defending side.
// The ball must be travelling towards the paddle with its centre inside the
// paddle span. The sweep from prevX to X must reach the paddle face, and the
// ball must not have been wholly behind the paddle at prevX, so a fast ball
// cannot tunnel through.
func (ball *Ball) InterceptsPaddle(paddle *Paddle, side Side, prevX float64) bool {
	if paddle == nil || !ball.HeadingTowards(side) {
		return false
	}
	if ball.Y < paddle.Y || ball.Y > paddle.Bottom() {
		return false
	}
	switch side {
	case Human:
		return ball.X-ball.Radius <= paddle.Right() && prevX+ball.Radius >= paddle.X
	case Computer:
		return ball.X+ball.Radius >= paddle.X && prevX-ball.Radius <= paddle.Right()
	default:
		return false
	}
}

// HandleCollidePaddle returns the ball faster and with spin taken from the
// paddle's current velocity.
func (ball *Ball) HandleCollidePaddle(paddle *Paddle, speedUp, spinTransfer float64) {
	ball.Dx = -ball.Dx * speedUp
	ball.Dy += paddle.Velocity * spinTransfer
	ball.RallyHitCount++
}

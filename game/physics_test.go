package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayingPhysics(t *testing.T, ball Ball) *PhysicsEngine {
	t.Helper()
	pe := NewPhysicsEngine(testConfig())
	ball.Radius = pe.cfg.BallRadius
	pe.SetBall(ball)
	return pe
}

func TestPhysics_WallReflection(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 400, Y: 8 - 1, Dy: -2})

	events := pe.Advance(Playing(), Intent{})

	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventWallBounce, Side: NoSide}, events[0])
	assert.Equal(t, 2.0, pe.Ball().Dy)
}

func TestPhysics_WallReflectionBottom(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 400, Y: 395, Dy: 3})

	events := pe.Advance(Playing(), Intent{})

	assert.Equal(t, []EventKind{EventWallBounce}, eventKinds(events))
	assert.Equal(t, -3.0, pe.Ball().Dy)
	assert.Equal(t, 398.0, pe.Ball().Y, "position is not clamped back inside")
}

func TestPhysics_WallDoesNotReflectTwice(t *testing.T) {
	// Still inside the wall band but already heading away.
	pe := newPlayingPhysics(t, Ball{X: 400, Y: 2, Dy: 1})

	events := pe.Advance(Playing(), Intent{})

	assert.Empty(t, events)
	assert.Equal(t, 1.0, pe.Ball().Dy)
}

func TestPhysics_PaddleHits(t *testing.T) {
	testCases := []struct {
		name     string
		ball     Ball
		intent   Intent
		side     Side
		wantDx   float64
		wantDy   float64
		wantHits int
	}{
		{"Human still", Ball{X: 40, Y: 200, Dx: -4}, Intent{}, Human, 4 * 1.02, 0, 1},
		{"Human moving down adds spin", Ball{X: 40, Y: 200, Dx: -4, Dy: 1}, Intent{MoveDown: true}, Human, 4 * 1.02, 1 + 5*0.3, 1},
		{"Computer still", Ball{X: 758, Y: 200, Dx: 4, RallyHitCount: 2}, Intent{}, Computer, -4 * 1.02, 0, 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pe := newPlayingPhysics(t, tc.ball)

			events := pe.Advance(Playing(), tc.intent)

			require.Len(t, events, 1)
			assert.Equal(t, Event{Kind: EventPaddleHit, Side: tc.side}, events[0])
			b := pe.Ball()
			assert.InDelta(t, tc.wantDx, b.Dx, 1e-9)
			assert.InDelta(t, tc.wantDy, b.Dy, 1e-9)
			assert.Equal(t, tc.wantHits, b.RallyHitCount)
		})
	}
}

func TestPhysics_OverlapMovingAwayDoesNotRetrigger(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 30, Y: 200, Dx: 4})

	events := pe.Advance(Playing(), Intent{})

	assert.Empty(t, events)
	assert.Equal(t, 4.0, pe.Ball().Dx)
}

func TestPhysics_MissOutsidePaddleSpan(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 40, Y: 100, Dx: -4})

	events := pe.Advance(Playing(), Intent{})

	assert.Empty(t, events)
	assert.Equal(t, -4.0, pe.Ball().Dx)
}

func TestPhysics_FastBallDoesNotTunnel(t *testing.T) {
	testCases := []struct {
		name string
		ball Ball
		side Side
	}{
		{"Human paddle skipped in one tick", Ball{X: 60, Y: 200, Dx: -50}, Human},
		{"Computer paddle skipped in one tick", Ball{X: 740, Y: 200, Dx: 50}, Computer},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pe := newPlayingPhysics(t, tc.ball)

			events := pe.Advance(Playing(), Intent{})

			require.Equal(t, []Event{{Kind: EventPaddleHit, Side: tc.side}}, events)
			assert.InDelta(t, -tc.ball.Dx*1.02, pe.Ball().Dx, 1e-9)
		})
	}
}

func TestPhysics_BallBehindPaddleIsNotReturned(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 5, Y: 200, Dx: -4})

	events := pe.Advance(Playing(), Intent{})
	assert.Empty(t, events)

	events = pe.Advance(Playing(), Intent{})
	assert.Equal(t, []Event{{Kind: EventPointScored, Side: Computer}}, events)
}

func TestPhysics_ScoringLatch(t *testing.T) {
	pe := newPlayingPhysics(t, Ball{X: 798, Y: 50, Dx: 4, RallyHitCount: 6})

	events := pe.Advance(Playing(), Intent{})
	require.Equal(t, []Event{{Kind: EventPointScored, Side: Human}}, events)
	assert.True(t, pe.Ball().PointAlreadyCounted)
	assert.Zero(t, pe.Ball().RallyHitCount)

	for i := 0; i < 50; i++ {
		for _, ev := range pe.Advance(Playing(), Intent{}) {
			assert.NotEqual(t, EventPointScored, ev.Kind, "tick %d", i)
		}
	}
}

func TestPhysics_ServingPinsBall(t *testing.T) {
	pe := NewPhysicsEngine(testConfig())
	pe.PrepareServe(Human)

	events := pe.Advance(Serving(Human), Intent{MoveDown: true})

	assert.Empty(t, events)
	human := pe.Paddles()[Human]
	assert.Equal(t, 175.0, human.Y)
	assert.Equal(t, 5.0, human.Velocity)
	b := pe.Ball()
	assert.Equal(t, human.CenterY(), b.Y)
	assert.Equal(t, human.Right()+15, b.X)
	assert.Zero(t, b.Dx)

	pe.PrepareServe(Computer)
	pe.Advance(Serving(Computer), Intent{})
	computer := pe.Paddles()[Computer]
	assert.Equal(t, computer.X-15, pe.Ball().X)
	assert.Equal(t, computer.CenterY(), pe.Ball().Y)
}

func TestPhysics_FrozenOutsidePlay(t *testing.T) {
	for _, phase := range []Phase{Waiting(), PointScored(), GameWon(Human), MatchWon(Computer)} {
		pe := newPlayingPhysics(t, Ball{X: 400, Y: 200, Dx: 4, Dy: 2})
		events := pe.Advance(phase, Intent{MoveUp: true})
		assert.Empty(t, events, phase.String())
		assert.Equal(t, 400.0, pe.Ball().X, phase.String())
		assert.Equal(t, 165.0, pe.Paddles()[Human].Y, "human paddle still moves in %s", phase)
	}
}

func TestPhysics_HumanPaddleClamped(t *testing.T) {
	pe := NewPhysicsEngine(testConfig())
	pe.Paddle(Human).Y = -50

	pe.Advance(Waiting(), Intent{})
	assert.Equal(t, 0.0, pe.Paddles()[Human].Y)

	pe.Advance(Waiting(), Intent{MoveUp: true})
	assert.Equal(t, 0.0, pe.Paddles()[Human].Y)
	assert.Zero(t, pe.Paddles()[Human].Velocity)

	pe.Paddle(Human).Y = 338
	pe.Advance(Waiting(), Intent{MoveDown: true})
	assert.Equal(t, 340.0, pe.Paddles()[Human].Y)
	assert.Equal(t, 2.0, pe.Paddles()[Human].Velocity)
}

func TestPhysics_Launch(t *testing.T) {
	pe := NewPhysicsEngine(testConfig())
	pe.PrepareServe(Human)

	ev := pe.Launch(Human, fixedRandom(0.5))
	assert.Equal(t, Event{Kind: EventServe, Side: Human}, ev)
	assert.Equal(t, 4.0, pe.Ball().Dx)
	assert.Zero(t, pe.Ball().Dy)

	ev = pe.Launch(Computer, fixedRandom(1))
	assert.Equal(t, Computer, ev.Side)
	assert.Equal(t, -4.0, pe.Ball().Dx)
	assert.Equal(t, 1.5, pe.Ball().Dy)
}

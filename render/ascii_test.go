package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/lguibr/retrotennis/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courtSnapshot() game.Snapshot {
	snap := game.Snapshot{
		Court: game.Court{Width: 800, Height: 400},
		Phase: game.Playing(),
		Ball:  game.Ball{X: 400, Y: 200, Radius: 8},
	}
	snap.Paddles[game.Human] = game.Paddle{X: 20, Y: 170, Width: 10, Height: 60}
	snap.Paddles[game.Computer] = game.Paddle{X: 770, Y: 0, Width: 10, Height: 60}
	snap.Display = game.Display{Points: [2]string{"15", "40"}, Status: "Deuce"}
	snap.Match.Games = [2]int{1, 2}
	return snap
}

func runeAt(f Frame, row, col int) rune { return f.Cells[row][col].Rune }

func TestNewFrame_Layout(t *testing.T) {
	f := NewFrame(courtSnapshot(), 80, 24)

	require.Len(t, f.Cells, 22)
	for _, row := range f.Cells {
		require.Len(t, row, 80)
	}
	assert.Equal(t, GlyphWall, runeAt(f, 0, 5))
	assert.Equal(t, GlyphWall, runeAt(f, 21, 5))

	// Ball at the court centre.
	assert.Equal(t, GlyphBall, runeAt(f, 11, 40))
	assert.Equal(t, ColorBall, f.Cells[11][40].Color)

	// Human paddle spans rows 9..12 in column 2.
	for row := 9; row <= 12; row++ {
		assert.Equal(t, GlyphPaddle, runeAt(f, row, 2), "row %d", row)
	}
	assert.Equal(t, ColorHuman, f.Cells[9][2].Color)
	assert.Equal(t, GlyphEmpty, runeAt(f, 13, 2))

	// Computer paddle at the top is kept below the wall row.
	assert.Equal(t, GlyphPaddle, runeAt(f, 1, 77))
	assert.Equal(t, ColorComputer, f.Cells[1][77].Color)

	assert.Contains(t, f.Header, "Player 15 [1]")
	assert.Contains(t, f.Header, "[2] 40 Computer")
	assert.Equal(t, "Deuce", strings.TrimSpace(f.Status))
	assert.Len(t, f.Status, 80)
}

func TestNewFrame_ClampsOutOfCourtBall(t *testing.T) {
	snap := courtSnapshot()
	snap.Ball.X, snap.Ball.Y = -50, 1000

	f := NewFrame(snap, 40, 12)
	assert.Equal(t, GlyphBall, runeAt(f, 8, 0))
}

func TestNewFrame_SkipsNonFiniteBall(t *testing.T) {
	snap := courtSnapshot()
	snap.Ball.X = math.NaN()

	f := NewFrame(snap, 40, 12)
	assert.NotContains(t, f.String(), string(GlyphBall))
}

func TestNewFrame_MinimumSize(t *testing.T) {
	f := NewFrame(courtSnapshot(), 1, 1)
	assert.Len(t, f.Cells, MinRows-2)
	assert.Len(t, f.Cells[0], MinCols)
}

func TestNewFrame_DemoBanner(t *testing.T) {
	snap := courtSnapshot()
	snap.Demo = true
	assert.Contains(t, NewFrame(snap, 80, 24).Header, "DEMO")
}

func TestFrame_ANSI(t *testing.T) {
	f := NewFrame(courtSnapshot(), 40, 12)
	out := f.ANSI()
	assert.Contains(t, out, "\033[38;2;250;230;90mO\033[0m")
	assert.Equal(t, strings.Count(f.String(), "\n"), strings.Count(out, "\n"))
}

func TestWatcher_RendersEveryNthTick(t *testing.T) {
	var buf bytes.Buffer
	w := NewWatcher(&buf, 40, 12, 3, false)
	clears := 0
	w.clear = func() { clears++ }

	snap := courtSnapshot()
	for tick := uint64(1); tick <= 9; tick++ {
		snap.Tick = tick
		w.Render(snap)
	}

	assert.Equal(t, 3, clears)
	assert.Equal(t, 3, strings.Count(buf.String(), "Deuce"))
}

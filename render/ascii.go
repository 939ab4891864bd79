package render

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lguibr/retrotennis/game"
	"github.com/lguibr/retrotennis/utils"
)

// Glyphs used to draw the court.
const (
	GlyphEmpty  = ' '
	GlyphWall   = '-'
	GlyphNet    = ':'
	GlyphPaddle = '#'
	GlyphBall   = 'O'
)

// Smallest frame that still shows both paddles, the net and the ball.
const (
	MinCols = 20
	MinRows = 8
)

// RGB is a 24-bit terminal colour.
type RGB struct {
	R, G, B uint8
}

// Colours for the court elements.
var (
	ColorHuman    = RGB{R: 80, G: 220, B: 120}
	ColorComputer = RGB{R: 230, G: 80, B: 80}
	ColorBall     = RGB{R: 250, G: 230, B: 90}
	ColorCourt    = RGB{R: 150, G: 150, B: 150}
)

// Cell is one character of a Frame.
type Cell struct {
	Rune  rune
	Color RGB
}

// Frame is a snapshot drawn onto a character grid: a header row with the
// score, the court between two wall rows, and a status row.
type Frame struct {
	Header string
	Status string
	Cells  [][]Cell
}

// NewFrame draws snap into a cols x rows grid. Sizes below MinCols/MinRows
// are raised to the minimum.
func NewFrame(snap game.Snapshot, cols, rows int) Frame {
	if cols < MinCols {
		cols = MinCols
	}
	if rows < MinRows {
		rows = MinRows
	}
	courtRows := rows - 2

	cells := make([][]Cell, courtRows)
	for y := range cells {
		cells[y] = make([]Cell, cols)
		fill := rune(GlyphEmpty)
		if y == 0 || y == courtRows-1 {
			fill = GlyphWall
		}
		for x := range cells[y] {
			cells[y][x] = Cell{Rune: fill, Color: ColorCourt}
		}
	}

	m := mapper{court: snap.Court, cols: cols, rows: courtRows}
	for y := 1; y < courtRows-1; y += 2 {
		cells[y][cols/2] = Cell{Rune: GlyphNet, Color: ColorCourt}
	}

	for side, p := range snap.Paddles {
		if p.Width <= 0 || p.Height <= 0 {
			continue
		}
		color := ColorHuman
		if game.Side(side) == game.Computer {
			color = ColorComputer
		}
		x0, x1 := m.col(p.X), m.col(p.X+p.Width-1)
		y0, y1 := m.row(p.Y), m.row(p.Y+p.Height-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				cells[y][x] = Cell{Rune: GlyphPaddle, Color: color}
			}
		}
	}

	if utils.IsFinite(snap.Ball.X) && utils.IsFinite(snap.Ball.Y) {
		cells[m.row(snap.Ball.Y)][m.col(snap.Ball.X)] = Cell{Rune: GlyphBall, Color: ColorBall}
	}

	return Frame{
		Header: center(header(snap), cols),
		Status: center(snap.Display.Status, cols),
		Cells:  cells,
	}
}

func header(snap game.Snapshot) string {
	h := fmt.Sprintf("Player %2s [%d]   [%d] %-2s Computer",
		snap.Display.Points[game.Human], snap.Match.Games[game.Human],
		snap.Match.Games[game.Computer], snap.Display.Points[game.Computer])
	if snap.Demo {
		h += "   DEMO"
	}
	return h
}

// mapper converts court pixels to grid cells, keeping everything inside the
// two wall rows.
type mapper struct {
	court game.Court
	cols  int
	rows  int
}

func (m mapper) col(x float64) int {
	if m.court.Width <= 0 {
		return 0
	}
	c := int(math.Floor(x / m.court.Width * float64(m.cols)))
	return clamp(c, 0, m.cols-1)
}

func (m mapper) row(y float64) int {
	if m.court.Height <= 0 {
		return 1
	}
	inner := m.rows - 2
	r := 1 + int(math.Floor(y/m.court.Height*float64(inner)))
	return clamp(r, 1, m.rows-2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// center pads s with spaces to width, truncating if it is too long.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// rgbToAnsi converts a colour to an ANSI escape code for that colour.
func rgbToAnsi(c RGB) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// String returns the frame as plain text, one line per row.
func (f Frame) String() string {
	return f.write(false)
}

// ANSI returns the frame with 24-bit colour escapes.
func (f Frame) ANSI() string {
	return f.write(true)
}

func (f Frame) write(color bool) string {
	var b strings.Builder
	b.WriteString(f.Header)
	b.WriteByte('\n')
	for _, row := range f.Cells {
		for _, c := range row {
			if color && c.Rune != GlyphEmpty {
				b.WriteString(rgbToAnsi(c.Color))
				b.WriteRune(c.Rune)
				b.WriteString("\033[0m") // Reset color after each character
				continue
			}
			b.WriteRune(c.Rune)
		}
		b.WriteByte('\n')
	}
	b.WriteString(f.Status)
	b.WriteByte('\n')
	return b.String()
}

// RenderToASCII draws snap as plain text.
func RenderToASCII(snap game.Snapshot, cols, rows int) string {
	return NewFrame(snap, cols, rows).String()
}

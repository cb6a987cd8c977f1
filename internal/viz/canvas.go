package viz

import (
	"strings"

	"github.com/san-kum/fieldsim/internal/field"
)

// Braille dot bits for a 2x4 cell, indexed [row][col].
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille pixel buffer. Its resolution in pixels is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// DrawNodal marks every pixel whose nearest grid sample changes sign against
// its right or lower neighbour, tracing the nodal lines of the field.
func (c *Canvas) DrawNodal(g *field.Grid) {
	c.Clear()
	pw, ph := c.Width*2, c.Height*4
	sample := func(px, py int) float64 {
		return g.At(py*g.NY/ph, px*g.NX/pw)
	}
	for py := 0; py < ph; py++ {
		for px := 0; px < pw; px++ {
			v := sample(px, py)
			if px+1 < pw && signChange(v, sample(px+1, py)) {
				c.Set(px, py)
			}
			if py+1 < ph && signChange(v, sample(px, py+1)) {
				c.Set(px, py)
			}
		}
	}
}

func signChange(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

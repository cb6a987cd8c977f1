package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Grid is a ny×nx scalar field on a periodic domain, stored row-major.
type Grid struct {
	NY, NX int
	Data   []float64
}

func NewGrid(ny, nx int) *Grid {
	return &Grid{NY: ny, NX: nx, Data: make([]float64, ny*nx)}
}

// FromRows builds a grid from a rectangular [][]float64.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShapeMismatch)
	}
	g := NewGrid(len(rows), len(rows[0]))
	for y, row := range rows {
		if len(row) != g.NX {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, y, len(row), g.NX)
		}
		copy(g.Data[y*g.NX:], row)
	}
	return g, nil
}

func (g *Grid) Len() int { return len(g.Data) }

func (g *Grid) At(y, x int) float64     { return g.Data[y*g.NX+x] }
func (g *Grid) Set(y, x int, v float64) { g.Data[y*g.NX+x] = v }

// Row returns a view of row y; writes go through to the grid.
func (g *Grid) Row(y int) []float64 { return g.Data[y*g.NX : (y+1)*g.NX] }

func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.NY)
	for y := range rows {
		rows[y] = append([]float64(nil), g.Row(y)...)
	}
	return rows
}

func (g *Grid) Clone() *Grid {
	c := NewGrid(g.NY, g.NX)
	copy(c.Data, g.Data)
	return c
}

func (g *Grid) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && g.NY == o.NY && g.NX == o.NX
}

func (g *Grid) IsValid() bool {
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g *Grid) Sum() float64 { return floats.Sum(g.Data) }

// SumSquares returns Σ g².
func (g *Grid) SumSquares() float64 { return floats.Dot(g.Data, g.Data) }

func (g *Grid) Norm() float64 { return math.Sqrt(g.SumSquares()) }

func (g *Grid) Max() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return floats.Max(g.Data)
}

func (g *Grid) Min() float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return floats.Min(g.Data)
}

// AbsMax returns the largest magnitude in the grid.
func (g *Grid) AbsMax() float64 {
	return math.Max(math.Abs(g.Max()), math.Abs(g.Min()))
}

// AddScaled performs g += alpha*s.
func (g *Grid) AddScaled(alpha float64, s *Grid) {
	floats.AddScaled(g.Data, alpha, s.Data)
}

// Roll shifts the grid along axis (0 = rows, 1 = columns) with wraparound,
// so that Roll(s, axis)[i] = g[i-s]. It matches numpy.roll.
func (g *Grid) Roll(shift, axis int) *Grid {
	out := NewGrid(g.NY, g.NX)
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			sy, sx := y, x
			if axis == 0 {
				sy = wrap(y-shift, g.NY)
			} else {
				sx = wrap(x-shift, g.NX)
			}
			out.Data[y*g.NX+x] = g.Data[sy*g.NX+sx]
		}
	}
	return out
}

// Dense wraps the grid in a gonum matrix sharing the same backing slice.
func (g *Grid) Dense() *mat.Dense {
	return mat.NewDense(g.NY, g.NX, g.Data)
}

// FromDense copies a gonum matrix into a new grid.
func FromDense(m *mat.Dense) *Grid {
	r, c := m.Dims()
	g := NewGrid(r, c)
	for y := 0; y < r; y++ {
		copy(g.Row(y), m.RawRowView(y))
	}
	return g
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Wrap maps an arbitrary index onto [0, n).
func Wrap(i, n int) int { return wrap(i, n) }

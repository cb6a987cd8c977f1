package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fieldsim/internal/field"
)

// ramp orders glyphs from zero to full amplitude.
var ramp = []rune(" .:-=+*#%@")

// Shade maps |v|/scale onto the glyph ramp.
func Shade(v, scale float64) rune {
	if scale <= 0 || math.IsNaN(v) {
		return ramp[0]
	}
	f := math.Min(1, math.Abs(v)/scale)
	return ramp[int(f*float64(len(ramp)-1))]
}

// Downsample block-averages g onto at most h rows and w columns.
func Downsample(g *field.Grid, w, h int) *field.Grid {
	rows, cols := min(h, g.NY), min(w, g.NX)
	out := field.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		y0, y1 := r*g.NY/rows, (r+1)*g.NY/rows
		for c := 0; c < cols; c++ {
			x0, x1 := c*g.NX/cols, (c+1)*g.NX/cols
			sum := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += g.At(y, x)
				}
			}
			out.Set(r, c, sum/float64((y1-y0)*(x1-x0)))
		}
	}
	return out
}

// Heatmap renders g as shaded text no larger than w by h. A non-positive
// scale normalizes to the largest magnitude in the downsampled grid.
func Heatmap(g *field.Grid, w, h int, scale float64, theme Theme) string {
	if w < 1 || h < 1 || g.Len() == 0 {
		return ""
	}
	d := Downsample(g, w, h)
	if scale <= 0 {
		scale = d.AbsMax()
	}

	pos := lipgloss.NewStyle().Foreground(theme.Positive)
	neg := lipgloss.NewStyle().Foreground(theme.Negative)

	var b strings.Builder
	for y := 0; y < d.NY; y++ {
		for x := 0; x < d.NX; x++ {
			v := d.At(y, x)
			glyph := string(Shade(v, scale))
			if v < 0 {
				b.WriteString(neg.Render(glyph))
			} else {
				b.WriteString(pos.Render(glyph))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/viz"
)

// FieldSVG renders g as a grid of cells coloured on a diverging blue-white-red
// scale, saturating at the largest magnitude in g.
func FieldSVG(g *field.Grid, cell float64) string {
	width := float64(g.NX) * cell
	height := float64(g.NY) * cell
	scale := g.AbsMax()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, width, height, width, height)

	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x)*cell, float64(y)*cell, cell, cell, Diverging(g.At(y, x), scale))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// Diverging maps v in [-scale, scale] to blue through white to red.
func Diverging(v, scale float64) string {
	if scale <= 0 || math.IsNaN(v) {
		return "#ffffff"
	}
	t := math.Max(-1, math.Min(1, v/scale))
	fade := int(math.Round(255 * (1 - math.Abs(t))))
	if t >= 0 {
		return fmt.Sprintf("#ff%02x%02x", fade, fade)
	}
	return fmt.Sprintf("#%02x%02xff", fade, fade)
}

// CanvasToSVG converts a braille canvas to dots on a dark background.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for py := 0; py < canvas.Height*4; py++ {
		for px := 0; px < canvas.Width*2; px++ {
			if !canvas.IsSet(px, py) {
				continue
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(px)*scale+scale/2, float64(py)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

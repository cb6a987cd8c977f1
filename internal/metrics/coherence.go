package metrics

import (
	"math"

	"github.com/san-kum/fieldsim/internal/analysis"
	"github.com/san-kum/fieldsim/internal/field"
)

// Epsilon keeps the coherence ratio finite for a flat spectrum.
const Epsilon = 1e-12

// CoherenceProxy is the peak-to-mean ratio of the power spectrum of u.
// The mean skips the first row and column (the DC axes) when the spectrum has
// at least two of each; otherwise it covers the whole spectrum.
func CoherenceProxy(u *field.Grid) float64 {
	p := analysis.PowerSpectrum2D(u)

	peak := math.Inf(-1)
	for _, v := range p.Data {
		peak = math.Max(peak, v)
	}

	var mean float64
	if p.NY > 1 && p.NX > 1 {
		sum := 0.0
		for y := 1; y < p.NY; y++ {
			for _, v := range p.Row(y)[1:] {
				sum += v
			}
		}
		mean = sum / float64((p.NY-1)*(p.NX-1))
	} else {
		mean = p.Sum() / float64(p.Len())
	}

	return peak / (mean + Epsilon)
}

type Coherence struct {
	last    float64
	samples int
}

func NewCoherence() *Coherence { return &Coherence{} }

func (c *Coherence) Name() string { return "coherence_proxy" }

func (c *Coherence) Observe(st *field.State) {
	c.last = CoherenceProxy(st.U)
	c.samples++
}

func (c *Coherence) Value() float64 { return c.last }

func (c *Coherence) Reset() {
	c.last = 0
	c.samples = 0
}

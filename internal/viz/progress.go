package viz

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/metrics"
)

// Progress is a sim.Observer that rewrites a one-line status on w at most
// frameRate times per second.
type Progress struct {
	w         io.Writer
	steps     int
	frameRate int
	lastFrame time.Time
	printed   bool
}

func NewProgress(w io.Writer, steps, frameRate int) *Progress {
	return &Progress{w: w, steps: steps, frameRate: max(1, frameRate)}
}

func (p *Progress) OnSample(row metrics.Row, _ *field.State) {
	final := row.Step == p.steps-1
	if !final && time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = time.Now()
	p.printed = true

	frac := float64(row.Step+1) / float64(p.steps)
	fmt.Fprintf(p.w, "\r%s %3.0f%%  step %d  energy %.6g  coh %.4g ",
		ProgressBar(frac, 20), frac*100, row.Step, row.Energy, row.Coherence)
}

// Done terminates the status line.
func (p *Progress) Done() {
	if p.printed {
		fmt.Fprintln(p.w)
	}
}

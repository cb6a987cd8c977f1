package sim

import (
	"errors"
	"time"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/metrics"
)

// ErrUnstable is returned in strict mode when a sampled state holds NaN or Inf.
var ErrUnstable = errors.New("sim: simulation unstable (state diverged)")

// Observer is notified at every diagnostics checkpoint.
type Observer interface {
	OnSample(row metrics.Row, st *field.State)
}

type ObserverFunc func(row metrics.Row, st *field.State)

func (f ObserverFunc) OnSample(row metrics.Row, st *field.State) { f(row, st) }

type Result struct {
	Params     *config.Params
	Integrator string
	State      *field.State
	Rows       []metrics.Row
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
}

// Final returns the last diagnostics row.
func (r *Result) Final() (metrics.Row, bool) {
	if len(r.Rows) == 0 {
		return metrics.Row{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}

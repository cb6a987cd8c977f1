package metrics

import "github.com/san-kum/fieldsim/internal/field"

type Metric interface {
	Name() string
	Observe(st *field.State)
	Value() float64
	Reset()
}

// Row is one diagnostics sample.
type Row struct {
	Step      int     `json:"step" yaml:"step"`
	Energy    float64 `json:"energy_like" yaml:"energy_like"`
	Coherence float64 `json:"coherence_proxy" yaml:"coherence_proxy"`
}

// Cadence returns the sampling interval for a run of the given length.
func Cadence(steps int) int {
	return max(1, steps/100)
}

// ShouldSample reports whether step is a diagnostics checkpoint: every
// Cadence(steps) steps plus the final step.
func ShouldSample(step, steps int) bool {
	return step%Cadence(steps) == 0 || step == steps-1
}

// Sampler records diagnostics rows at checkpoints. Extra metrics observe the
// same checkpoints and are reported by Values.
type Sampler struct {
	steps     int
	energy    *Energy
	coherence *Coherence
	extra     []Metric
	rows      []Row
}

func NewSampler(steps int, sys field.Hamiltonian, extra ...Metric) *Sampler {
	return &Sampler{
		steps:     steps,
		energy:    NewEnergy(sys),
		coherence: NewCoherence(),
		extra:     extra,
		rows:      make([]Row, 0, steps/Cadence(steps)+2),
	}
}

// Observe samples st if step is a checkpoint. It only reads the state.
func (s *Sampler) Observe(step int, st *field.State) (Row, bool) {
	if !ShouldSample(step, s.steps) {
		return Row{}, false
	}
	s.energy.Observe(st)
	s.coherence.Observe(st)
	for _, m := range s.extra {
		m.Observe(st)
	}
	row := Row{Step: step, Energy: s.energy.Value(), Coherence: s.coherence.Value()}
	s.rows = append(s.rows, row)
	return row, true
}

func (s *Sampler) Rows() []Row { return s.rows }

// Values returns the latest value of every metric keyed by name.
func (s *Sampler) Values() map[string]float64 {
	out := map[string]float64{
		s.energy.Name():    s.energy.Value(),
		s.coherence.Name(): s.coherence.Value(),
	}
	for _, m := range s.extra {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Sampler) Reset() {
	s.energy.Reset()
	s.coherence.Reset()
	for _, m := range s.extra {
		m.Reset()
	}
	s.rows = s.rows[:0]
}

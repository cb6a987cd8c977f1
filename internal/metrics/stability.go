package metrics

import "github.com/san-kum/fieldsim/internal/field"

// Stability is the fraction of observed samples whose fields are finite.
type Stability struct {
	invalid int
	samples int
}

func NewStability() *Stability {
	return &Stability{}
}

func (s *Stability) Name() string { return "finite_fraction" }

func (s *Stability) Observe(st *field.State) {
	s.samples++
	if !st.IsValid() {
		s.invalid++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.invalid)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.invalid = 0
	s.samples = 0
}

package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/integrators"
	"github.com/san-kum/fieldsim/internal/metrics"
	"github.com/san-kum/fieldsim/internal/physics"
)

type Simulator struct {
	params     *config.Params
	source     physics.Source
	integName  string
	integrator field.Integrator
	observers  []Observer
}

type Option func(*Simulator) error

// WithIntegrator replaces the default semi-implicit scheme.
func WithIntegrator(name string) Option {
	return func(s *Simulator) error {
		integ, err := integrators.New(name)
		if err != nil {
			return err
		}
		s.integName, s.integrator = name, integ
		return nil
	}
}

// New validates p and resolves its source variant.
func New(p *config.Params, opts ...Option) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	src, err := p.SourceField()
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		params:     p.Clone(),
		source:     src,
		integName:  integrators.Default,
		integrator: integrators.NewSemiImplicitEuler(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() *config.Params { return s.params.Clone() }

// Start allocates a zeroed state and builds the source grid for a new run.
func (s *Simulator) Start() *Session {
	p := s.params
	srcGrid := s.source.Build(p.NY, p.NX)
	sys := physics.NewWave2D(p.C, p.K, p.Dx, srcGrid)
	return &Session{
		sim:       s,
		sys:       sys,
		state:     field.NewState(p.NY, p.NX),
		sampler:   metrics.NewSampler(p.Steps, sys, metrics.NewEnergyDrift(sys), metrics.NewStability()),
		startedAt: time.Now(),
	}
}

// Run integrates all steps and returns the final state and diagnostics.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	sess := s.Start()
	for !sess.Done() {
		select {
		case <-ctx.Done():
			return sess.Result(), ctx.Err()
		default:
		}
		if _, err := sess.Advance(1); err != nil {
			return sess.Result(), err
		}
	}
	return sess.Result(), nil
}

// Session is one run in progress. It owns the field state exclusively.
type Session struct {
	sim       *Simulator
	sys       *physics.Wave2D
	state     *field.State
	sampler   *metrics.Sampler
	step      int
	startedAt time.Time
}

func (r *Session) Step() int               { return r.step }
func (r *Session) Done() bool              { return r.step >= r.sim.params.Steps }
func (r *Session) State() *field.State     { return r.state }
func (r *Session) System() *physics.Wave2D { return r.sys }
func (r *Session) Rows() []metrics.Row     { return r.sampler.Rows() }

// Advance runs up to n steps and returns the rows sampled along the way.
func (r *Session) Advance(n int) ([]metrics.Row, error) {
	p := r.sim.params
	var rows []metrics.Row
	for i := 0; i < n && !r.Done(); i++ {
		if err := r.sim.integrator.Step(r.sys, r.state, p.Dt); err != nil {
			return rows, &field.StepError{Step: r.step, Wrapped: err}
		}

		row, ok := r.sampler.Observe(r.step, r.state)
		step := r.step
		r.step++
		if !ok {
			continue
		}
		rows = append(rows, row)
		for _, o := range r.sim.observers {
			o.OnSample(row, r.state)
		}
		if p.Strict && !r.state.IsValid() {
			return rows, &field.StepError{Step: step, Wrapped: fmt.Errorf("%w: %w", ErrUnstable, field.ErrInvalidState)}
		}
	}
	return rows, nil
}

func (r *Session) Result() *Result {
	return &Result{
		Params:     r.sim.params.Clone(),
		Integrator: r.sim.integName,
		State:      r.state,
		Rows:       r.sampler.Rows(),
		Metrics:    r.sampler.Values(),
		StepsTaken: r.step,
		Elapsed:    time.Since(r.startedAt),
	}
}

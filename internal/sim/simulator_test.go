package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/metrics"
)

func quiescent() *config.Params {
	p := config.DefaultParams()
	p.NX, p.NY = 8, 8
	p.Steps = 10
	p.Dt, p.Dx, p.C, p.K = 0.01, 1.0, 1.0, 0.0
	p.Source = "none"
	return p
}

func TestQuiescentRun(t *testing.T) {
	s, err := New(quiescent())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.State.U.SumSquares() != 0 || result.State.V.SumSquares() != 0 {
		t.Error("expected all-zero u and v")
	}
	if len(result.Rows) != 10 {
		t.Errorf("expected 10 rows, got %d", len(result.Rows))
	}
	for _, row := range result.Rows {
		if row.Energy != 0 {
			t.Errorf("step %d: energy %v, want 0", row.Step, row.Energy)
		}
		if row.Coherence != 0 {
			t.Errorf("step %d: coherence %v, want 0", row.Step, row.Coherence)
		}
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps taken, got %d", result.StepsTaken)
	}
	if result.Integrator != "symplectic" {
		t.Errorf("expected symplectic integrator, got %s", result.Integrator)
	}
}

func TestGaussianTwoStepValues(t *testing.T) {
	p := quiescent()
	p.NX, p.NY, p.Steps = 4, 4, 2
	p.Dt, p.Dx, p.C, p.K = 0.1, 1.0, 1.0, 0.1
	p.Source, p.SrcAmp, p.SrcSigma = "gaussian", 1.0, 1.0

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Step 1 from rest: v = dt·S, u = dt²·S.
	// Step 2: a = c²·lap(u) - k·v + S, v += dt·a, u += dt·v.
	tests := []struct {
		y, x int
		u, v float64
	}{
		{2, 2, 0.029742612263885058, 0.19742612263885054},
		{2, 3, 0.018079763878080638, 0.12014457280954302},
		{0, 0, 0.0005731453466672179, 0.0038998895777987604},
	}
	for _, tt := range tests {
		if got := result.State.U.At(tt.y, tt.x); math.Abs(got-tt.u) > 1e-14 {
			t.Errorf("u(%d,%d) = %v, want %v", tt.y, tt.x, got, tt.u)
		}
		if got := result.State.V.At(tt.y, tt.x); math.Abs(got-tt.v) > 1e-14 {
			t.Errorf("v(%d,%d) = %v, want %v", tt.y, tt.x, got, tt.v)
		}
	}
}

func TestRunCadence(t *testing.T) {
	p := quiescent()
	p.Steps = 500
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if n := len(result.Rows); n != 100 && n != 101 {
		t.Errorf("expected 100 or 101 rows, got %d", n)
	}
	final, ok := result.Final()
	if !ok || final.Step != 499 {
		t.Errorf("last row step = %d, want 499", final.Step)
	}
}

func TestGaussianRunEvolves(t *testing.T) {
	p := quiescent()
	p.NX, p.NY, p.Steps = 16, 16, 50
	p.Source, p.SrcAmp, p.SrcSigma = "gaussian", 1.0, 2.0

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	final, _ := result.Final()
	if final.Energy <= 0 {
		t.Errorf("forced field should gain energy, got %v", final.Energy)
	}
	if result.Metrics["finite_fraction"] != 1 {
		t.Errorf("finite_fraction = %v, want 1", result.Metrics["finite_fraction"])
	}
	if result.Metrics["energy_like"] != final.Energy {
		t.Error("metrics map disagrees with final row")
	}
	if _, ok := result.Metrics["energy_drift"]; !ok {
		t.Error("expected energy_drift in metrics")
	}
}

func TestRunDeterministic(t *testing.T) {
	p := quiescent()
	p.NX, p.NY, p.Steps = 12, 10, 40
	p.Source, p.SrcSigma = "gaussian", 2.5

	run := func() *Result {
		s, err := New(p)
		if err != nil {
			t.Fatal(err)
		}
		r, err := s.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	a, b := run(), run()
	for i := range a.State.U.Data {
		if a.State.U.Data[i] != b.State.U.Data[i] || a.State.V.Data[i] != b.State.V.Data[i] {
			t.Fatalf("cell %d differs between identical runs", i)
		}
	}
}

func TestNewInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *config.Params)
	}{
		{"zero dx", func(p *config.Params) { p.Dx = 0 }},
		{"zero steps", func(p *config.Params) { p.Steps = 0 }},
		{"bad source", func(p *config.Params) { p.Source = "ring" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quiescent()
			tt.mutate(p)
			if _, err := New(p); !errors.Is(err, config.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestUnknownIntegrator(t *testing.T) {
	if _, err := New(quiescent(), WithIntegrator("rk4")); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func unstable() *config.Params {
	p := quiescent()
	p.NX, p.NY, p.Steps = 8, 8, 1000
	p.Dt, p.K = 1e-3, -10000
	p.Source, p.SrcSigma = "gaussian", 2
	return p
}

func TestInstabilityIsSilentByDefault(t *testing.T) {
	s, err := New(unstable())
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("non-strict run should not fail: %v", err)
	}
	if result.State.IsValid() {
		t.Error("expected diverged state")
	}
	if result.StepsTaken != 1000 {
		t.Errorf("expected all steps, got %d", result.StepsTaken)
	}
	if result.Metrics["finite_fraction"] >= 1 {
		t.Error("expected some non-finite samples")
	}
}

func TestStrictModeAborts(t *testing.T) {
	p := unstable()
	p.Strict = true
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	result, err := s.Run(context.Background())
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	var stepErr *field.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
	if result.StepsTaken >= 1000 {
		t.Error("strict run should stop early")
	}
	if stepErr.Step != result.StepsTaken-1 {
		t.Errorf("error step %d, steps taken %d", stepErr.Step, result.StepsTaken)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(quiescent())
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

func TestObserver(t *testing.T) {
	s, err := New(quiescent())
	if err != nil {
		t.Fatal(err)
	}

	var steps []int
	s.AddObserver(ObserverFunc(func(row metrics.Row, st *field.State) {
		steps = append(steps, row.Step)
	}))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(steps) != 10 || steps[9] != 9 {
		t.Errorf("observer saw steps %v", steps)
	}
}

func TestSessionAdvance(t *testing.T) {
	p := quiescent()
	p.Steps = 7
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	sess := s.Start()
	rows, err := sess.Advance(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || sess.Step() != 3 {
		t.Errorf("after 3 steps: %d rows, step %d", len(rows), sess.Step())
	}

	if _, err := sess.Advance(100); err != nil {
		t.Fatal(err)
	}
	if !sess.Done() || sess.Step() != 7 {
		t.Errorf("expected done at step 7, got %d", sess.Step())
	}
}

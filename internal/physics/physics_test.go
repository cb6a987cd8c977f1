package physics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/fieldsim/internal/field"
)

func randomGrid(ny, nx int, seed int64) *field.Grid {
	r := rand.New(rand.NewSource(seed))
	g := field.NewGrid(ny, nx)
	for i := range g.Data {
		g.Data[i] = r.Float64()*2 - 1
	}
	return g
}

func TestLaplacianConstantField(t *testing.T) {
	g := field.NewGrid(5, 7)
	g.Fill(3.0)

	lap := LaplacianOf(g, 0.5)
	for i, v := range lap.Data {
		if v != 0 {
			t.Fatalf("cell %d = %v, want 0", i, v)
		}
	}
}

func TestLaplacianPointSource(t *testing.T) {
	g := field.NewGrid(4, 4)
	g.Set(0, 0, 1)

	lap := LaplacianOf(g, 2.0)
	tests := []struct {
		y, x int
		want float64
	}{
		{0, 0, -4.0 / 4},
		{1, 0, 1.0 / 4},
		{3, 0, 1.0 / 4}, // wraps from the top edge
		{0, 3, 1.0 / 4}, // wraps from the left edge
		{0, 1, 1.0 / 4},
		{2, 2, 0},
	}
	for _, tt := range tests {
		if got := lap.At(tt.y, tt.x); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("lap(%d,%d) = %v, want %v", tt.y, tt.x, got, tt.want)
		}
	}
}

func TestLaplacianPeriodicity(t *testing.T) {
	u := randomGrid(6, 9, 1)
	base := LaplacianOf(u, 1.3)

	for axis := 0; axis < 2; axis++ {
		for _, shift := range []int{1, -1, 4} {
			got := LaplacianOf(u.Roll(shift, axis), 1.3)
			want := base.Roll(shift, axis)
			for i := range want.Data {
				if math.Abs(got.Data[i]-want.Data[i]) > 1e-12 {
					t.Fatalf("axis %d shift %d: cell %d = %v, want %v", axis, shift, i, got.Data[i], want.Data[i])
				}
			}
		}
	}
}

func TestGaussianSource(t *testing.T) {
	s := Gaussian{Amplitude: 2.0, Sigma: 3.0}
	g := s.Build(8, 10)

	if g.NY != 8 || g.NX != 10 {
		t.Fatalf("shape %dx%d, want 8x10", g.NY, g.NX)
	}
	if got := g.At(4, 5); got != 2.0 {
		t.Errorf("centre = %v, want 2.0", got)
	}
	want := 2.0 * math.Exp(-1.0/(2*9.0))
	if got := g.At(4, 6); math.Abs(got-want) > 1e-15 {
		t.Errorf("neighbour = %v, want %v", got, want)
	}
	if g.At(0, 0) >= g.At(4, 5) {
		t.Error("corner should be smaller than centre")
	}
}

func TestGaussianSourceDeterministic(t *testing.T) {
	s := Gaussian{Amplitude: 1.0, Sigma: 2.5}
	a := s.Build(17, 13)
	b := s.Build(17, 13)

	for i := range a.Data {
		if math.Float64bits(a.Data[i]) != math.Float64bits(b.Data[i]) {
			t.Fatalf("cell %d differs: %v vs %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestImpulseAndNone(t *testing.T) {
	imp := Impulse{Amplitude: 5}.Build(5, 4)
	if imp.At(2, 2) != 5 || imp.Sum() != 5 {
		t.Errorf("impulse at (2,2) = %v, sum = %v", imp.At(2, 2), imp.Sum())
	}

	none := NoSource{}.Build(3, 3)
	if none.SumSquares() != 0 {
		t.Error("none source should be all zero")
	}
}

func TestParseSource(t *testing.T) {
	for _, kind := range SourceKinds() {
		s, err := ParseSource(kind, 1, 2)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", kind, err)
		}
		if s.Kind() != kind {
			t.Errorf("Kind() = %q, want %q", s.Kind(), kind)
		}
	}

	_, err := ParseSource("ring", 1, 2)
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}

func TestWave2DAccelerate(t *testing.T) {
	st := field.NewState(4, 4)
	st.U.Set(1, 1, 1)
	st.V.Fill(0.5)
	src := field.NewGrid(4, 4)
	src.Fill(0.1)

	w := NewWave2D(2.0, 0.2, 1.0, src)
	a := field.NewGrid(4, 4)
	if err := w.Accelerate(a, st); err != nil {
		t.Fatalf("Accelerate: %v", err)
	}

	// c²·(-4) - k·v + S at the displaced cell.
	want := 4*(-4.0) - 0.2*0.5 + 0.1
	if got := a.At(1, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("a(1,1) = %v, want %v", got, want)
	}
	want = -0.2*0.5 + 0.1
	if got := a.At(3, 3); math.Abs(got-want) > 1e-12 {
		t.Errorf("a(3,3) = %v, want %v", got, want)
	}
}

func TestWave2DShapeMismatch(t *testing.T) {
	st := field.NewState(4, 4)
	w := NewWave2D(1, 0, 1, field.NewGrid(3, 3))
	if err := w.Accelerate(field.NewGrid(4, 4), st); !errors.Is(err, field.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestEnergyLike(t *testing.T) {
	st := field.NewState(3, 3)
	if e := EnergyLike(st, 1, 1); e != 0 {
		t.Errorf("zero field energy = %v, want 0", e)
	}

	st.V.Set(0, 0, 2)
	if e := EnergyLike(st, 1, 1); e != 2 {
		t.Errorf("kinetic energy = %v, want 2", e)
	}

	st = field.NewState(3, 3)
	st.U.Set(1, 1, 1)
	// Four forward differences touch the displaced cell, each contributing 1.
	want := 0.5 * (16.0 / 4.0) * 4
	if e := EnergyLike(st, 4, 2); math.Abs(e-want) > 1e-12 {
		t.Errorf("potential energy = %v, want %v", e, want)
	}
}

func TestCourant(t *testing.T) {
	if got := Courant(1, 0.5, 1); got != 0.5 {
		t.Errorf("Courant = %v, want 0.5", got)
	}
	if Courant(1, 1e-3, 1) > MaxCourant {
		t.Error("default parameters should be stable")
	}
}

func TestWave2DParams(t *testing.T) {
	w := NewWave2D(1, 0.1, 1, nil)
	if err := w.SetParam("damping", 0.3); err != nil {
		t.Fatal(err)
	}
	if w.GetParams()["damping"] != 0.3 {
		t.Error("damping not updated")
	}
	if err := w.SetParam("dx", 0); err == nil {
		t.Error("expected error for zero dx")
	}
	if err := w.SetParam("mass", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

package integrators

import "github.com/san-kum/fieldsim/internal/field"

// SemiImplicitEuler updates velocity first and then moves the displacement
// with the updated velocity (symplectic Euler).
type SemiImplicitEuler struct {
	acc *field.Grid
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(sys field.System, st *field.State, dt float64) error {
	e.acc = ensure(e.acc, st.U)
	if err := sys.Accelerate(e.acc, st); err != nil {
		return err
	}
	u, v, a := st.U.Data, st.V.Data, e.acc.Data
	for i := range v {
		v[i] = v[i] + dt*a[i]
	}
	for i := range u {
		u[i] = u[i] + dt*v[i]
	}
	return nil
}

// Euler is the naive explicit update: displacement moves with the velocity
// from the start of the step.
type Euler struct {
	acc *field.Grid
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys field.System, st *field.State, dt float64) error {
	e.acc = ensure(e.acc, st.U)
	if err := sys.Accelerate(e.acc, st); err != nil {
		return err
	}
	u, v, a := st.U.Data, st.V.Data, e.acc.Data
	for i := range u {
		u[i] = u[i] + dt*v[i]
		v[i] = v[i] + dt*a[i]
	}
	return nil
}

func ensure(g, like *field.Grid) *field.Grid {
	if g == nil || !g.SameShape(like) {
		return field.NewGrid(like.NY, like.NX)
	}
	return g
}

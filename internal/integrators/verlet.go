package integrators

import "github.com/san-kum/fieldsim/internal/field"

// Leapfrog is the kick-drift-kick scheme. It costs two accelerations per step.
type Leapfrog struct {
	acc *field.Grid
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys field.System, st *field.State, dt float64) error {
	l.acc = ensure(l.acc, st.U)
	halfDt := 0.5 * dt

	if err := sys.Accelerate(l.acc, st); err != nil {
		return err
	}
	st.V.AddScaled(halfDt, l.acc)
	st.U.AddScaled(dt, st.V)

	if err := sys.Accelerate(l.acc, st); err != nil {
		return err
	}
	st.V.AddScaled(halfDt, l.acc)
	return nil
}

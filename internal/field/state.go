package field

// State holds the displacement and velocity of the field at one time step.
type State struct {
	U *Grid
	V *Grid
}

func NewState(ny, nx int) *State {
	return &State{U: NewGrid(ny, nx), V: NewGrid(ny, nx)}
}

func (s *State) Shape() (ny, nx int) { return s.U.NY, s.U.NX }

func (s *State) Clone() *State {
	return &State{U: s.U.Clone(), V: s.V.Clone()}
}

func (s *State) IsValid() bool {
	return s.U.IsValid() && s.V.IsValid()
}

// System produces the acceleration of a second-order field equation.
type System interface {
	Accelerate(dst *Grid, st *State) error
}

// Hamiltonian is implemented by systems with an energy diagnostic.
type Hamiltonian interface {
	Energy(st *State) float64
}

// Integrator advances a State in place by one step of size dt.
type Integrator interface {
	Step(sys System, st *State, dt float64) error
}

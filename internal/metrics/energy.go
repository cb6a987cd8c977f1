package metrics

import (
	"math"

	"github.com/san-kum/fieldsim/internal/field"
)

// Energy tracks the energy-like diagnostic of a Hamiltonian system.
type Energy struct {
	sys     field.Hamiltonian
	last    float64
	samples int
}

func NewEnergy(sys field.Hamiltonian) *Energy {
	return &Energy{sys: sys}
}

func (e *Energy) Name() string { return "energy_like" }

func (e *Energy) Observe(st *field.State) {
	e.last = e.sys.Energy(st)
	e.samples++
}

func (e *Energy) Value() float64 { return e.last }

func (e *Energy) Reset() {
	e.last = 0
	e.samples = 0
}

// EnergyDrift records the largest relative deviation from the first
// observed energy.
type EnergyDrift struct {
	sys      field.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys field.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(st *field.State) {
	energy := e.sys.Energy(st)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

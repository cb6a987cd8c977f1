package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldsim/internal/field"
)

// Default is the scheme used by runs and sweeps.
const Default = "symplectic"

var registry = map[string]func() field.Integrator{
	"symplectic": func() field.Integrator { return NewSemiImplicitEuler() },
	"euler":      func() field.Integrator { return NewEuler() },
	"leapfrog":   func() field.Integrator { return NewLeapfrog() },
}

func New(name string) (field.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

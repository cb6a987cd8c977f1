// Package physics provides the 2D periodic wave model.
//
//   - [Laplacian]: five-point stencil with wraparound neighbours
//   - [Source]: static forcing term ([NoSource], [Gaussian], [Impulse])
//   - [Wave2D]: damped, forced wave equation d²u/dt² = c²∇²u - k·du/dt + S
//
// The source is resolved once from its kind string by [ParseSource] and built
// into a grid before integration; it is never re-evaluated per step.
//
// # Stability
//
// The explicit scheme is only stable while c·dt/dx stays below [MaxCourant].
// Nothing here checks that; an unstable parameter set produces diverging or
// NaN fields.
package physics

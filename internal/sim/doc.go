// Package sim runs one parameterized field simulation.
//
// A [Simulator] validates its parameters and resolves the source once. Each
// call to [Simulator.Run] (or [Simulator.Start] for step-wise driving)
// allocates a zeroed state, builds the source grid, and then for every step
// applies the integrator and samples diagnostics at checkpoints.
//
// Numeric blow-up is not detected unless the parameters set Strict; NaN and
// Inf otherwise flow into the result unflagged.
//
// # Thread Safety
//
// A Session is not safe for concurrent use. Independent runs may execute in
// parallel since they share no state.
package sim

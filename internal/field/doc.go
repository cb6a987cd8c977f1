// Package field provides the grid primitives shared by the simulator.
//
//   - [Grid]: row-major ny×nx scalar samples on a periodic domain
//   - [State]: displacement U and velocity V grids of one run
//
// Neighbour lookups wrap around both axes, so the last row is adjacent to
// the first and the last column to the first.
//
// # Example
//
//	st := field.NewState(128, 128)
//	st.V.Set(64, 64, 1.0)
//	e := st.V.SumSquares()
package field

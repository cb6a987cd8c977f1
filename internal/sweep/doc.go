// Package sweep runs a grid of damping values and Gaussian source widths and
// collects each case's final diagnostics into sweep_summary.csv.
//
// Every case writes its own archive and metrics table under the plan
// directory. The summary is built by reading back the last row of each metrics
// table, so it reflects exactly what was persisted.
package sweep

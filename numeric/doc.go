// Package numeric implements the four triangle sub-solvers spec §4.2.6
// describes as external collaborators, summarized here for completeness:
// solve_ddd (three distances), solve_dad (distance-angle-distance),
// solve_add (angle-distance-distance) and solve_ada (angle-distance-angle).
// Each places its first two points in a canonical frame and lets package
// vector's intersection routines locate the third, so the method executors
// in package method stay free of trigonometry.
package numeric

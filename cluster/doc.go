// Package cluster defines the closed set of geometric cluster variants —
// Rigid, Hedgehog and Balloon — that the rewriting engine in package solver
// operates on. The Method interface and its concrete merge/derive
// implementations (the "method catalog", spec §4.3) live in package method.
//
// Cluster identity is structural: two clusters of the same variant with
// equal variable sets (and, for a Hedgehog, equal center) are the same
// cluster, and compare equal by Key(). The engine never holds two distinct
// instances for the same Key.
package cluster

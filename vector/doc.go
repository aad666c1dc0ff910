// Package vector provides the 2-D geometric primitives the cluster-rewriting
// engine builds on: a plain 2-vector type, circle/ray intersection routines,
// and the angle/distance/tolerance helpers the numeric methods in package
// numeric call to turn symbolic merges into coordinates.
//
// Everything here is pure and allocation-light: no vector mutates its
// receiver, and every function is safe to call from multiple goroutines.
package vector

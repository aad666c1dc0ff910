// Package method is the method catalog (spec §4.3, §3.4): typed, declarative
// nodes that describe a merge or derivation symbolically and carry a pure
// numeric executor. Every type here is produced exclusively by package
// solver's pattern-matching search — nothing in this package searches for
// anything, it only knows how to execute once given inputs.
//
// Methods are immutable once constructed; their Execute never mutates the
// configurations it is given (spec §4.3 "Executors are pure").
package method

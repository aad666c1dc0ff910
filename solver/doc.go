// Package solver is the pattern-matching search engine and public façade
// (spec §2 "Pattern-matching search", ≈45% of the system): given a newly
// added top-level cluster it scans the dependency graph for applicable
// rewrite rules, in a fixed priority order, and emits the methods and
// derived clusters those rules justify.
//
// Add, Remove, Set, SetRoot and Saturate are the only mutating entry points;
// the engine itself
// is single-threaded and synchronous (spec §5) — Solver serializes calls
// with its own mutex so a concurrent host gets a clear contract rather than
// silently racing the dependency graph.
package solver

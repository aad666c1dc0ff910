// Package selconstr implements the "selection-constraint collaborator" of
// spec §6: sign predicates attached to methods as prototype constraints
// (spec §3.4, §4.2.4) and evaluated by the host to pick among the mirror
// solutions a method's executor returns. The rewriting engine only ever
// carries these as data (spec §9); it never calls Satisfied itself.
package selconstr

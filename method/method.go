package method

import (
	"errors"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/selconstr"
)

// Structural precondition errors (spec §7): a constructor returns one of
// these when its inputs don't actually satisfy the geometric relationship
// the method claims to encode. Package solver treats these as fatal to the
// current Add and rolls back the partial search (spec §7 "Propagation
// policy").
var (
	ErrUnderconstrained  = errors.New("method: inputs are underconstrained for this merge")
	ErrHogCenterMismatch = errors.New("method: hedgehog center is not where this merge expects it")
	ErrHogCentersDiffer  = errors.New("method: the two hedgehogs being merged have different centers")
)

// Method is an immutable rewrite-rule instance: an ordered list of input
// clusters, an ordered list of output clusters (the engine only ever
// produces exactly one), a purity-preserving numeric Execute, the
// overconstrained/consistent flags, and any prototype selection constraints
// (spec §3.4).
type Method interface {
	// Inputs returns the method's input clusters, in the order Execute
	// expects their configurations.
	Inputs() []cluster.Cluster
	// Outputs returns the method's output clusters (always length 1 in
	// this engine, though the type permits more).
	Outputs() []cluster.Cluster
	// Overconstrained reports whether the inputs jointly provide more
	// information than the output strictly needs.
	Overconstrained() bool
	// Consistent reports whether the method trusts its inputs to agree
	// (methods never set this to false themselves; it exists for a host
	// that detects numeric inconsistency after the fact).
	Consistent() bool
	// PrototypeConstraints returns the selection predicates, if any, that
	// disambiguate this method's mirror solutions.
	PrototypeConstraints() []selconstr.Constraint
	// Execute computes the output configuration(s) for one input tuple,
	// positionally aligned with Inputs(). It is pure: it never mutates any
	// argument and depends on nothing but its arguments.
	Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error)
	String() string
}

// base carries the fields every concrete Method shares. It is not itself a
// Method: each concrete type embeds it and supplies Execute (and, where
// needed, PrototypeConstraints).
type base struct {
	inputs          []cluster.Cluster
	outputs         []cluster.Cluster
	overconstrained bool
	consistent      bool
}

func (b *base) Inputs() []cluster.Cluster  { return b.inputs }
func (b *base) Outputs() []cluster.Cluster { return b.outputs }
func (b *base) Overconstrained() bool      { return b.overconstrained }
func (b *base) Consistent() bool           { return b.consistent }
func (b *base) PrototypeConstraints() []selconstr.Constraint {
	return nil
}

package configuration

import (
	"errors"
	"math/cmplx"
	"sort"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/vector"
)

// Errors returned by the alignment operations. A caller receiving one of
// these from a method executor has violated a structural precondition
// (spec §7): the inputs to a merge must share enough points to determine
// the requested alignment.
var (
	ErrNoSharedVars = errors.New("configuration: no shared variables to align on")
)

// Configuration is a concrete coordinate assignment for a cluster's point
// variables. It is the numeric counterpart of a cluster.Cluster: clusters
// describe symbolic constraints, Configurations carry actual [2]float64
// positions that satisfy them (up to the cluster's symmetry group).
//
// Underconstrained flags a degenerate solve (spec §4.2.6's solve_ada
// colinear case, spec §7 "under-constrained configuration"): it is not an
// error. Copy, Select, Merge2D and MergeScale2D carry it into their results,
// so it reaches every configuration built from this one by those operations.
// A method executor that only reads values from an input configuration (a
// hedgehog input's angles, Merge1C's point, the two hedgehogs of
// BalloonFromHogs) does not carry that input's flag into its output.
type Configuration struct {
	values          map[cluster.Var]vector.Vec
	Underconstrained bool
}

// New builds a Configuration from a variable -> coordinate map. The map is
// copied; later mutation of m does not affect the returned Configuration.
func New(m map[cluster.Var]vector.Vec) *Configuration {
	values := make(map[cluster.Var]vector.Vec, len(m))
	for k, v := range m {
		values[k] = v
	}
	return &Configuration{values: values}
}

// Get returns the coordinate of v, and whether v is present.
func (c *Configuration) Get(v cluster.Var) (vector.Vec, bool) {
	p, ok := c.values[v]
	return p, ok
}

// MustGet returns the coordinate of v, panicking if v is absent. Method
// executors use this once a search rule has already established that v is
// one of the configuration's variables — an absent var at that point is a
// bug in the rewriter, not user-facing input.
func (c *Configuration) MustGet(v cluster.Var) vector.Vec {
	p, ok := c.values[v]
	if !ok {
		panic("configuration: MustGet on absent variable " + string(v))
	}
	return p
}

// Vars returns the configuration's point variables, sorted.
func (c *Configuration) Vars() []cluster.Var {
	out := make([]cluster.Var, 0, len(c.values))
	for v := range c.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Copy returns a structural clone of c.
func (c *Configuration) Copy() *Configuration {
	out := New(c.values)
	out.Underconstrained = c.Underconstrained
	return out
}

// Select returns the restriction of c to vars. Every element of vars must
// already be present in c.
func (c *Configuration) Select(vars []cluster.Var) *Configuration {
	m := make(map[cluster.Var]vector.Vec, len(vars))
	for _, v := range vars {
		if p, ok := c.values[v]; ok {
			m[v] = p
		}
	}
	out := New(m)
	out.Underconstrained = c.Underconstrained
	return out
}

func sharedVars(a, b *Configuration) []cluster.Var {
	shared := make([]cluster.Var, 0)
	for v := range a.values {
		if _, ok := b.values[v]; ok {
			shared = append(shared, v)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
	return shared
}

// similarityTransform finds the unique complex affine map z -> a*z + b that
// sends otherP1 -> selfP1 and otherP2 -> selfP2. Its modulus |a| is the
// uniform scale factor and its argument the rotation; Merge2D and
// MergeScale2D share this one routine, differing only in which anchors they
// pick and in whether the caller's inputs are known to already agree in
// scale (rigid merges) or not (similarity merges).
func similarityTransform(selfP1, selfP2, otherP1, otherP2 vector.Vec) (a, b complex128) {
	toC := func(v vector.Vec) complex128 { return complex(v.X, v.Y) }
	sp1, sp2 := toC(selfP1), toC(selfP2)
	op1, op2 := toC(otherP1), toC(otherP2)
	denom := op2 - op1
	if cmplx.Abs(denom) < vector.Tolerance {
		// Degenerate anchor pair (coincident points); fall back to a pure
		// translation, which is the best available rigid alignment.
		return 1, sp1 - op1
	}
	a = (sp2 - sp1) / denom
	b = sp1 - a*op1
	return a, b
}

func applyTransform(a, b complex128, v vector.Vec) vector.Vec {
	z := a*complex(v.X, v.Y) + b
	return vector.Vec{X: real(z), Y: imag(z)}
}

// mergeWith performs the shared implementation of Merge2D and MergeScale2D:
// align other onto self's frame using the given anchor pair (or, if none is
// given, the two lowest-sorted shared variables), then union the two
// variable maps, self's values taking precedence on overlap. self fixes the
// frame, per spec §3.3.
func (c *Configuration) mergeWith(other *Configuration, anchors []cluster.Var) (*Configuration, error) {
	shared := anchors
	if len(shared) == 0 {
		shared = sharedVars(c, other)
	}
	if len(shared) == 0 {
		return nil, ErrNoSharedVars
	}

	out := make(map[cluster.Var]vector.Vec, len(c.values)+len(other.values))
	for v, p := range other.values {
		out[v] = p
	}

	if len(shared) == 1 {
		// Translation-only alignment: no second anchor to fix rotation/scale.
		delta := c.values[shared[0]].Sub(other.values[shared[0]])
		for v, p := range out {
			out[v] = p.Add(delta)
		}
	} else {
		p1, p2 := shared[0], shared[1]
		a, b := similarityTransform(c.values[p1], c.values[p2], other.values[p1], other.values[p2])
		for v, p := range out {
			out[v] = applyTransform(a, b, p)
		}
	}

	for v, p := range c.values {
		out[v] = p
	}

	result := New(out)
	result.Underconstrained = c.Underconstrained || other.Underconstrained
	return result, nil
}

// Merge2D rigidly aligns other onto c's frame using the variables the two
// configurations share (at least one is required; two fix rotation too),
// and returns a configuration over the union of variables. c fixes the
// global frame. This implements the "rigid alignment" operation spec §3.3
// requires of the configuration collaborator.
func (c *Configuration) Merge2D(other *Configuration) *Configuration {
	result, err := c.mergeWith(other, nil)
	if err != nil {
		// A merge executor only ever calls Merge2D once a search rule has
		// already verified the inputs share at least one point; reaching
		// this is a bug in the rewriter, not a user-facing condition.
		panic(err)
	}
	return result
}

// MergeScale2D performs a similarity alignment (rotation, translation and
// uniform scale) of other onto c's frame. If anchor is non-empty it names
// the exact two variables to use as alignment anchors (both must be shared
// between c and other); otherwise the two lowest-sorted shared variables
// are used. Implements the "similarity alignment" operation spec §3.3
// requires, used for balloon-balloon, balloon-rigid and hog-hog merges.
func (c *Configuration) MergeScale2D(other *Configuration, anchor ...cluster.Var) *Configuration {
	result, err := c.mergeWith(other, anchor)
	if err != nil {
		panic(err)
	}
	return result
}

package cluster

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Var is an opaque, hashable point-variable identifier. It carries no
// semantics beyond equality, as spec §3.1 requires; integers are accepted
// via VarFromInt for callers that prefer numeric variable names.
type Var string

// VarFromInt converts an integer point-variable name into a Var.
func VarFromInt(n int) Var {
	return Var(strconv.Itoa(n))
}

// Kind tags which of the three closed cluster variants a Cluster is.
type Kind int

const (
	// KindRigid marks a sub-figure known up to rigid motion.
	KindRigid Kind = iota
	// KindHedgehog marks an angle cluster fixed at a single center.
	KindHedgehog
	// KindBalloon marks a sub-figure known up to similarity.
	KindBalloon
)

// String renders the kind's dependency-graph sentinel root name.
func (k Kind) String() string {
	switch k {
	case KindRigid:
		return "_rigids"
	case KindHedgehog:
		return "_hogs"
	case KindBalloon:
		return "_balloons"
	default:
		return "_unknown"
	}
}

// Sentinel errors for malformed clusters (spec §7 "structural precondition
// violated" — these are raised at construction, before the cluster ever
// reaches the engine).
var (
	ErrEmptyRigid     = errors.New("cluster: rigid must have at least one point variable")
	ErrTooFewSpokes   = errors.New("cluster: hedgehog must have at least two spoke variables")
	ErrCenterInSpokes = errors.New("cluster: hedgehog center must not be one of its own spokes")
	ErrTooFewPoints   = errors.New("cluster: balloon must have at least three point variables")
)

// Cluster is the closed sum type of the three geometric cluster variants.
// The unexported sealed method prevents types outside this package from
// implementing Cluster, so the engine's variant dispatch (spec §9 "Search
// dispatch") can remain an exhaustive type switch.
type Cluster interface {
	// Kind reports which variant this cluster is.
	Kind() Kind
	// Vars returns the cluster's point variables in canonical sorted order.
	Vars() []Var
	// Key returns the cluster's structural identity: clusters with equal
	// Key values are, by definition, the same cluster.
	Key() string
	// String renders a short human-readable form, e.g. "Rigid{a,b,c}".
	String() string

	sealed()
}

func sortedCopy(vars []Var) []Var {
	out := make([]Var, len(vars))
	copy(out, vars)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedup(vars []Var) []Var {
	seen := make(map[Var]struct{}, len(vars))
	out := make([]Var, 0, len(vars))
	for _, v := range vars {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func joinVars(vars []Var) string {
	ss := make([]string, len(vars))
	for i, v := range vars {
		ss[i] = string(v)
	}
	return strings.Join(ss, ",")
}

// Rigid is a sub-figure known up to rigid motion (position and orientation
// free): an unordered set of at least one point variable.
type Rigid struct {
	vars []Var
}

// NewRigid constructs a Rigid over the given (deduplicated) variables.
// Returns ErrEmptyRigid if vars is empty.
func NewRigid(vars []Var) (*Rigid, error) {
	vs := sortedCopy(dedup(vars))
	if len(vs) < 1 {
		return nil, ErrEmptyRigid
	}
	return &Rigid{vars: vs}, nil
}

func (r *Rigid) Kind() Kind   { return KindRigid }
func (r *Rigid) Vars() []Var  { return append([]Var(nil), r.vars...) }
func (r *Rigid) Key() string  { return "R:" + joinVars(r.vars) }
func (r *Rigid) String() string {
	return fmt.Sprintf("Rigid{%s}", joinVars(r.vars))
}
func (r *Rigid) sealed() {}

// Hedgehog is an angle cluster at a center: the pairwise angles between its
// spoke variables, as seen from cvar, are fixed; distances are free.
type Hedgehog struct {
	cvar  Var
	xvars []Var
}

// NewHedgehog constructs a Hedgehog centered at cvar with the given
// (deduplicated) spokes. Returns ErrTooFewSpokes if fewer than two distinct
// spokes remain after deduplication, or ErrCenterInSpokes if cvar is also
// listed as a spoke.
func NewHedgehog(cvar Var, xvars []Var) (*Hedgehog, error) {
	xs := sortedCopy(dedup(xvars))
	for _, v := range xs {
		if v == cvar {
			return nil, ErrCenterInSpokes
		}
	}
	if len(xs) < 2 {
		return nil, ErrTooFewSpokes
	}
	return &Hedgehog{cvar: cvar, xvars: xs}, nil
}

func (h *Hedgehog) Kind() Kind { return KindHedgehog }
func (h *Hedgehog) CVar() Var  { return h.cvar }
func (h *Hedgehog) XVars() []Var {
	return append([]Var(nil), h.xvars...)
}

// Vars returns cvar together with every spoke, sorted.
func (h *Hedgehog) Vars() []Var {
	return sortedCopy(append(append([]Var(nil), h.xvars...), h.cvar))
}

func (h *Hedgehog) Key() string {
	return "H:" + string(h.cvar) + ";" + joinVars(h.xvars)
}

func (h *Hedgehog) String() string {
	return fmt.Sprintf("Hedgehog(%s,{%s})", h.cvar, joinVars(h.xvars))
}
func (h *Hedgehog) sealed() {}

// Balloon is a sub-figure known up to similarity (rigid motion and uniform
// scale): an unordered set of at least three point variables.
type Balloon struct {
	vars []Var
}

// NewBalloon constructs a Balloon over the given (deduplicated) variables.
// Returns ErrTooFewPoints if fewer than three distinct variables remain.
func NewBalloon(vars []Var) (*Balloon, error) {
	vs := sortedCopy(dedup(vars))
	if len(vs) < 3 {
		return nil, ErrTooFewPoints
	}
	return &Balloon{vars: vs}, nil
}

func (b *Balloon) Kind() Kind  { return KindBalloon }
func (b *Balloon) Vars() []Var { return append([]Var(nil), b.vars...) }
func (b *Balloon) Key() string { return "B:" + joinVars(b.vars) }
func (b *Balloon) String() string {
	return fmt.Sprintf("Balloon{%s}", joinVars(b.vars))
}
func (b *Balloon) sealed() {}

// VarSet is a small set helper used throughout the search engine to
// intersect/union/subtract variable lists. It intentionally stays a thin
// wrapper over map[Var]struct{} rather than a generic container, since the
// engine only ever needs set algebra over Var.
type VarSet map[Var]struct{}

// NewVarSet builds a VarSet from a slice of variables.
func NewVarSet(vars []Var) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Slice returns the set's members sorted.
func (s VarSet) Slice() []Var {
	out := make([]Var, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intersect returns the members of s also present in other.
func (s VarSet) Intersect(other VarSet) VarSet {
	out := make(VarSet)
	for v := range s {
		if _, ok := other[v]; ok {
			out[v] = struct{}{}
		}
	}
	return out
}

// Union returns the members of s together with those of other.
func (s VarSet) Union(other VarSet) VarSet {
	out := make(VarSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Sub returns the members of s not present in other.
func (s VarSet) Sub(other VarSet) VarSet {
	out := make(VarSet)
	for v := range s {
		if _, ok := other[v]; !ok {
			out[v] = struct{}{}
		}
	}
	return out
}

// Contains reports whether v is a member of s.
func (s VarSet) Contains(v Var) bool {
	_, ok := s[v]
	return ok
}

// SubsetOf reports whether every member of s is also in other.
func (s VarSet) SubsetOf(other VarSet) bool {
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

package depgraph

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/method"
)

// Sentinel errors for dependency-graph operations (spec §7).
var (
	ErrClusterNotFound = errors.New("depgraph: cluster not found")
	ErrMethodNotFound  = errors.New("depgraph: method not found")
	ErrVarNotFound     = errors.New("depgraph: variable not found")
	ErrDuplicateNode   = errors.New("depgraph: node already present")
)

type vkind int

const (
	vkVar vkind = iota
	vkRoot
	vkCluster
	vkMethod
)

type node struct {
	kind vkind
	v    cluster.Var
	c    cluster.Cluster
	m    method.Method
}

func rootID(k cluster.Kind) string { return k.String() }
func varID(v cluster.Var) string   { return "v:" + string(v) }

// Graph is an arena-with-indices directed graph (spec §4.4, §9 "Arena"):
// nodes are stored once by ID and referenced everywhere else by that ID, so
// cluster and method values never need to be compared or hashed directly.
// muVert guards the node catalog; muEdgeAdj guards the adjacency lists,
// mirroring the separate-lock discipline this module's graph collaborator is
// built on (spec §5).
type Graph struct {
	muVert    sync.RWMutex
	muEdgeAdj sync.RWMutex

	nodes map[string]*node
	fwd   map[string]map[string]struct{} // id -> successors
	rev   map[string]map[string]struct{} // id -> predecessors

	nextMethodID uint64
}

// New returns an empty dependency graph with the three sentinel kind-roots
// already present.
func New() *Graph {
	g := &Graph{
		nodes: make(map[string]*node),
		fwd:   make(map[string]map[string]struct{}),
		rev:   make(map[string]map[string]struct{}),
	}
	for _, k := range []cluster.Kind{cluster.KindRigid, cluster.KindHedgehog, cluster.KindBalloon} {
		g.nodes[rootID(k)] = &node{kind: vkRoot}
	}
	return g
}

func (g *Graph) link(from, to string) {
	if g.fwd[from] == nil {
		g.fwd[from] = make(map[string]struct{})
	}
	g.fwd[from][to] = struct{}{}
	if g.rev[to] == nil {
		g.rev[to] = make(map[string]struct{})
	}
	g.rev[to][from] = struct{}{}
}

func (g *Graph) unlink(from, to string) {
	delete(g.fwd[from], to)
	delete(g.rev[to], from)
}

// AddVar inserts a variable vertex. Idempotent.
func (g *Graph) AddVar(v cluster.Var) {
	g.muVert.Lock()
	defer g.muVert.Unlock()
	id := varID(v)
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{kind: vkVar, v: v}
}

// HasCluster reports whether a cluster with this structural key is present.
func (g *Graph) HasCluster(id string) bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	n, ok := g.nodes[id]
	return ok && n.kind == vkCluster
}

// GetCluster returns the cluster stored under id.
func (g *Graph) GetCluster(id string) (cluster.Cluster, bool) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	n, ok := g.nodes[id]
	if !ok || n.kind != vkCluster {
		return nil, false
	}
	return n.c, true
}

// AddCluster inserts c, wiring an edge from every one of its variables (and
// from its kind's sentinel root) to the new cluster vertex. Returns
// ErrDuplicateNode if a structurally identical cluster is already present.
func (g *Graph) AddCluster(c cluster.Cluster) error {
	id := c.Key()

	g.muVert.Lock()
	if _, ok := g.nodes[id]; ok {
		g.muVert.Unlock()
		return ErrDuplicateNode
	}
	g.nodes[id] = &node{kind: vkCluster, c: c}
	for _, v := range c.Vars() {
		vid := varID(v)
		if _, ok := g.nodes[vid]; !ok {
			g.nodes[vid] = &node{kind: vkVar, v: v}
		}
	}
	g.muVert.Unlock()

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	for _, v := range c.Vars() {
		g.link(varID(v), id)
	}
	g.link(rootID(c.Kind()), id)
	return nil
}

// AddMethod inserts m, wiring edges from each of its input clusters to the
// new method vertex and from the method vertex to each of its output
// clusters. Every input cluster must already be present; an output cluster
// may be registered with AddCluster afterwards, and the method -> output
// edge is already in place when it is. Returns a generated method ID.
func (g *Graph) AddMethod(m method.Method) (string, error) {
	g.muVert.RLock()
	for _, in := range m.Inputs() {
		if n, ok := g.nodes[in.Key()]; !ok || n.kind != vkCluster {
			g.muVert.RUnlock()
			return "", ErrClusterNotFound
		}
	}
	g.muVert.RUnlock()

	id := "m" + strconv.FormatUint(atomic.AddUint64(&g.nextMethodID, 1), 10)

	g.muVert.Lock()
	g.nodes[id] = &node{kind: vkMethod, m: m}
	g.muVert.Unlock()

	outKeys := make(map[string]bool, len(m.Outputs()))
	for _, out := range m.Outputs() {
		outKeys[out.Key()] = true
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	for _, in := range m.Inputs() {
		if outKeys[in.Key()] {
			// The output is structurally the same cluster as this input (spec
			// §3.2: identity is structural, the engine never duplicates a
			// cluster). That input isn't consumed by the method — it's
			// reconfirmed — so it keeps its top-level status.
			continue
		}
		g.link(in.Key(), id)
	}
	for _, out := range m.Outputs() {
		g.link(id, out.Key())
	}
	return id, nil
}

// Consumers returns the methods that take the cluster identified by id as
// an input.
func (g *Graph) Consumers(id string) []method.Method {
	g.muEdgeAdj.RLock()
	succ := make([]string, 0, len(g.fwd[id]))
	for s := range g.fwd[id] {
		succ = append(succ, s)
	}
	g.muEdgeAdj.RUnlock()

	g.muVert.RLock()
	defer g.muVert.RUnlock()
	out := make([]method.Method, 0, len(succ))
	for _, s := range succ {
		if n, ok := g.nodes[s]; ok && n.kind == vkMethod {
			out = append(out, n.m)
		}
	}
	return out
}

// ClustersWithVar returns every cluster, of any kind, that has v among its
// variables.
func (g *Graph) ClustersWithVar(v cluster.Var) []cluster.Cluster {
	return g.clustersReachedFrom(varID(v))
}

// ClustersOfKind returns every cluster of the given kind currently present.
func (g *Graph) ClustersOfKind(k cluster.Kind) []cluster.Cluster {
	return g.clustersReachedFrom(rootID(k))
}

func (g *Graph) clustersReachedFrom(from string) []cluster.Cluster {
	g.muEdgeAdj.RLock()
	succ := make([]string, 0, len(g.fwd[from]))
	for s := range g.fwd[from] {
		succ = append(succ, s)
	}
	g.muEdgeAdj.RUnlock()

	g.muVert.RLock()
	defer g.muVert.RUnlock()
	out := make([]cluster.Cluster, 0, len(succ))
	for _, s := range succ {
		if n, ok := g.nodes[s]; ok && n.kind == vkCluster {
			out = append(out, n.c)
		}
	}
	return out
}

// IsSink reports whether the cluster identified by id is not yet the input
// of any method — i.e. it is a current top-level hypothesis (spec §4.4
// "top-level").
func (g *Graph) IsSink(id string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	for succ := range g.fwd[id] {
		g.muVert.RLock()
		n, ok := g.nodes[succ]
		g.muVert.RUnlock()
		if ok && n.kind == vkMethod {
			return false
		}
	}
	return true
}

// TopLevel returns every cluster of kind k that is currently a sink.
func (g *Graph) TopLevel(k cluster.Kind) []cluster.Cluster {
	all := g.ClustersOfKind(k)
	out := make([]cluster.Cluster, 0, len(all))
	for _, c := range all {
		if g.IsSink(c.Key()) {
			out = append(out, c)
		}
	}
	return out
}

// RemoveVar deletes the variable vertex and cascades to every cluster that
// depends on it (spec §4.4 "cascading removal").
func (g *Graph) RemoveVar(v cluster.Var) error {
	id := varID(v)
	g.muVert.RLock()
	_, ok := g.nodes[id]
	g.muVert.RUnlock()
	if !ok {
		return ErrVarNotFound
	}

	visited := make(map[string]bool)
	g.removeClusterConsumers(id, visited)

	g.muVert.Lock()
	delete(g.nodes, id)
	g.muVert.Unlock()
	g.muEdgeAdj.Lock()
	delete(g.fwd, id)
	delete(g.rev, id)
	g.muEdgeAdj.Unlock()
	return nil
}

// removeClusterConsumers removes every cluster vertex reachable as a direct
// successor of from (without removing from itself), cascading through
// RemoveCluster.
func (g *Graph) removeClusterConsumers(from string, visited map[string]bool) {
	g.muEdgeAdj.RLock()
	succ := make([]string, 0, len(g.fwd[from]))
	for s := range g.fwd[from] {
		succ = append(succ, s)
	}
	g.muEdgeAdj.RUnlock()

	for _, s := range succ {
		g.muVert.RLock()
		n, ok := g.nodes[s]
		g.muVert.RUnlock()
		if ok && n.kind == vkCluster {
			g.removeCluster(s, visited)
		}
	}
}

// RemoveCluster deletes the cluster identified by id, cascading to every
// method that consumed it (and transitively to their output clusters) and
// to the method that produced it, if any (spec §4.4 "cascading removal").
func (g *Graph) RemoveCluster(id string) error {
	g.muVert.RLock()
	n, ok := g.nodes[id]
	g.muVert.RUnlock()
	if !ok || n.kind != vkCluster {
		return ErrClusterNotFound
	}
	g.removeCluster(id, make(map[string]bool))
	return nil
}

func (g *Graph) removeCluster(id string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	g.muEdgeAdj.RLock()
	succ := make([]string, 0, len(g.fwd[id]))
	for s := range g.fwd[id] {
		succ = append(succ, s)
	}
	pred := make([]string, 0, len(g.rev[id]))
	for p := range g.rev[id] {
		pred = append(pred, p)
	}
	g.muEdgeAdj.RUnlock()

	for _, s := range succ {
		g.muVert.RLock()
		n, ok := g.nodes[s]
		g.muVert.RUnlock()
		if ok && n.kind == vkMethod {
			g.removeMethod(s, visited)
		}
	}
	for _, p := range pred {
		g.muVert.RLock()
		n, ok := g.nodes[p]
		g.muVert.RUnlock()
		if ok && n.kind == vkMethod {
			g.removeMethod(p, visited)
		}
	}

	g.muEdgeAdj.Lock()
	for from := range g.rev[id] {
		g.unlink(from, id)
	}
	for to := range g.fwd[id] {
		g.unlink(id, to)
	}
	delete(g.fwd, id)
	delete(g.rev, id)
	g.muEdgeAdj.Unlock()

	g.muVert.Lock()
	delete(g.nodes, id)
	g.muVert.Unlock()
}

func (g *Graph) removeMethod(id string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	g.muEdgeAdj.RLock()
	outs := make([]string, 0, len(g.fwd[id]))
	for o := range g.fwd[id] {
		outs = append(outs, o)
	}
	g.muEdgeAdj.RUnlock()

	g.muEdgeAdj.Lock()
	for from := range g.rev[id] {
		g.unlink(from, id)
	}
	for to := range g.fwd[id] {
		g.unlink(id, to)
	}
	delete(g.fwd, id)
	delete(g.rev, id)
	g.muEdgeAdj.Unlock()

	g.muVert.Lock()
	delete(g.nodes, id)
	g.muVert.Unlock()

	for _, o := range outs {
		g.removeCluster(o, visited)
	}
}

// Counts returns the current number of variable, cluster and method
// vertices, used by package solver to detect whether a saturation pass made
// progress.
func (g *Graph) Counts() (vars, clusters, methods int) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	for _, n := range g.nodes {
		switch n.kind {
		case vkVar:
			vars++
		case vkCluster:
			clusters++
		case vkMethod:
			methods++
		}
	}
	return vars, clusters, methods
}

// ContainsVar reports whether v is currently tracked (by any cluster, or on
// its own).
func (g *Graph) ContainsVar(v cluster.Var) bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	n, ok := g.nodes[varID(v)]
	return ok && n.kind == vkVar
}

// RemoveMethod deletes the method identified by id and cascades to its
// output cluster(s).
func (g *Graph) RemoveMethod(id string) error {
	g.muVert.RLock()
	n, ok := g.nodes[id]
	g.muVert.RUnlock()
	if !ok || n.kind != vkMethod {
		return ErrMethodNotFound
	}
	g.removeMethod(id, make(map[string]bool))
	return nil
}

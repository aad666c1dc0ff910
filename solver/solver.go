package solver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/projectdiscovery/gologger"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/depgraph"
	"github.com/Dave4675/geosolver/method"
)

// Sentinel errors surfaced by the façade (spec §7 "structural precondition
// violated"). A caller receiving one of these from Add has had the whole
// search pass rolled back: the dependency graph is exactly as it was before
// the call.
var (
	ErrTwoRootClusters = errors.New("solver: merge would combine two root-containing clusters")
	ErrUnknownCluster  = errors.New("solver: cluster not present")
)

// assertf panics if cond is false. It guards internal bookkeeping invariants
// in the search engine (spec §9's "unexpected case" branches) that a caller
// can never trigger through the public API; reaching one is a bug in the
// rewriter, not a condition any public error type reports.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("solver: internal invariant violated: "+format, args...))
	}
}

type rollbackEntry struct {
	isMethod bool
	id       string
}

// Solver is the cluster store, dependency graph owner and search-engine
// façade (spec §4.1, §2). Add/Remove/Set/SetRoot/Saturate are the only
// mutating entry points; mu serializes them the way spec §5 requires callers
// to.
type Solver struct {
	mu sync.Mutex

	graph   *depgraph.Graph
	configs map[string][]*configuration.Configuration

	root    cluster.Var
	hasRoot bool

	recording *[]rollbackEntry
}

// New returns an empty Solver with no designated root variable.
func New() *Solver {
	return &Solver{
		graph:   depgraph.New(),
		configs: make(map[string][]*configuration.Configuration),
	}
}

// SetRoot designates the variable that fixes the global frame (spec §4.1
// "contains_root", spec's Glossary "Root variable"). Merge rules prefer the
// root-containing input as the frame-defining one.
func (s *Solver) SetRoot(v cluster.Var) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = v
	s.hasRoot = true
}

// ContainsRoot reports whether c.Vars() contains the designated root
// variable. Always false if no root has been set. It takes no lock: the
// merge rules call it while Add or Saturate already hold mu.
func (s *Solver) ContainsRoot(c cluster.Cluster) bool {
	if !s.hasRoot {
		return false
	}
	for _, v := range c.Vars() {
		if v == s.root {
			return true
		}
	}
	return false
}

func (s *Solver) addClusterNode(c cluster.Cluster) error {
	if err := s.graph.AddCluster(c); err != nil {
		return err
	}
	if s.recording != nil {
		*s.recording = append(*s.recording, rollbackEntry{id: c.Key()})
	}
	return nil
}

func (s *Solver) addMethodNode(m method.Method) (string, error) {
	id, err := s.graph.AddMethod(m)
	if err != nil {
		return "", err
	}
	if s.recording != nil {
		*s.recording = append(*s.recording, rollbackEntry{isMethod: true, id: id})
	}
	return id, nil
}

// addMergeOutput registers a merge's output cluster and immediately searches
// from it, matching the depth-first "derived clusters are themselves
// searched" behavior spec §4.1/§5 describes. Some merges (absorb-hog, and any
// two-cluster merge where one input is a subset of the other) produce an
// output that is structurally identical to one of their own inputs; per spec
// §3.2 that output IS the existing cluster, so there's nothing new to insert
// or search from.
func (s *Solver) addMergeOutput(c cluster.Cluster) error {
	if s.graph.HasCluster(c.Key()) {
		return nil
	}
	if err := s.addClusterNode(c); err != nil {
		return err
	}
	return s.search(c)
}

// addDeriveOutput registers a derivation's output cluster (a sub-hog or a
// hog synthesized from a rigid/balloon) without searching from it: these
// exist only to be fed straight into the method that just derived them.
func (s *Solver) addDeriveOutput(c cluster.Cluster) error {
	return s.addClusterNode(c)
}

// transaction runs fn, recording every cluster/method it registers, and
// rolls all of them back — in reverse order — if fn returns a structural
// error. This implements spec §7's "try/commit wrapper around the search
// dispatch".
func (s *Solver) transaction(fn func() error) error {
	var rec []rollbackEntry
	prev := s.recording
	s.recording = &rec
	err := fn()
	s.recording = prev

	if err != nil {
		for i := len(rec) - 1; i >= 0; i-- {
			e := rec[i]
			if e.isMethod {
				_ = s.graph.RemoveMethod(e.id)
			} else {
				_ = s.graph.RemoveCluster(e.id)
				delete(s.configs, e.id)
			}
		}
	}
	return err
}

// Add inserts c. If an equal cluster is already present, Add is a no-op
// (spec §8 "Adding a cluster already present is a no-op"). Otherwise it runs
// the pattern-matching search pass (§4.2); any structural error rolls the
// whole pass back.
func (s *Solver) Add(c cluster.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph.HasCluster(c.Key()) {
		gologger.Debug().Msgf("geosolver: %s already present, skipping add", c)
		return nil
	}

	gologger.Verbose().Msgf("geosolver: adding %s", c)
	return s.transaction(func() error {
		if err := s.addClusterNode(c); err != nil {
			return err
		}
		return s.search(c)
	})
}

// Remove deletes c and every method/cluster transitively derived from it
// (spec §4.1 "remove", §3.5 "cascading removal").
func (s *Solver) Remove(c cluster.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gologger.Verbose().Msgf("geosolver: removing %s", c)
	if err := s.graph.RemoveCluster(c.Key()); err != nil {
		return err
	}
	delete(s.configs, c.Key())
	return nil
}

// Get returns the configurations currently attached to c.
func (s *Solver) Get(c cluster.Cluster) ([]*configuration.Configuration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graph.HasCluster(c.Key()) {
		return nil, false
	}
	confs, ok := s.configs[c.Key()]
	return confs, ok
}

// TopLevel enumerates the current top-level clusters of the given kind
// (spec §4.1 "top_level").
func (s *Solver) TopLevel(k cluster.Kind) []cluster.Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.TopLevel(k)
}

// Set attaches configs to c and propagates them downstream: every method
// consuming c whose every input is now configured is executed, for every
// combination of its inputs' candidate configurations, and the results are
// attached to its output and propagated in turn (spec §4.1 "set", §5
// "Configuration propagation").
func (s *Solver) Set(c cluster.Cluster, configs []*configuration.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.graph.HasCluster(c.Key()) {
		return fmt.Errorf("%w: %s", ErrUnknownCluster, c)
	}
	s.configs[c.Key()] = configs
	return s.propagate(c.Key())
}

func (s *Solver) propagate(id string) error {
	for _, m := range s.graph.Consumers(id) {
		tuples, ok := s.inputTuples(m)
		if !ok {
			continue
		}
		out := m.Outputs()[0]
		var produced []*configuration.Configuration
		for _, tuple := range tuples {
			outs, err := m.Execute(tuple)
			if err != nil {
				gologger.Warning().Msgf("geosolver: %s failed: %v", m, err)
				continue
			}
			produced = append(produced, outs...)
		}
		if len(produced) == 0 {
			continue
		}
		s.configs[out.Key()] = append(s.configs[out.Key()], produced...)
		if err := s.propagate(out.Key()); err != nil {
			return err
		}
	}
	return nil
}

// inputTuples returns the cartesian product of m's input configuration
// lists, positionally aligned with m.Inputs(). ok is false if any input has
// no configurations yet.
func (s *Solver) inputTuples(m method.Method) ([][]*configuration.Configuration, bool) {
	inputs := m.Inputs()
	lists := make([][]*configuration.Configuration, len(inputs))
	for i, in := range inputs {
		confs := s.configs[in.Key()]
		if len(confs) == 0 {
			return nil, false
		}
		lists[i] = confs
	}

	tuples := [][]*configuration.Configuration{{}}
	for _, list := range lists {
		next := make([][]*configuration.Configuration, 0, len(tuples)*len(list))
		for _, prefix := range tuples {
			for _, item := range list {
				tuple := make([]*configuration.Configuration, len(prefix)+1)
				copy(tuple, prefix)
				tuple[len(prefix)] = item
				next = append(next, tuple)
			}
		}
		tuples = next
	}
	return tuples, true
}

// Saturate repeatedly re-scans every top-level cluster and re-runs the §4.2
// rule chains until one full pass produces no new method (spec §9's first
// Open Question, resolved: Add keeps its first-rule-wins depth-first
// contract; Saturate is this separate, explicitly-invoked confluence pass).
func (s *Solver) Saturate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		_, _, methodsBefore := s.graph.Counts()
		for _, k := range []cluster.Kind{cluster.KindRigid, cluster.KindHedgehog, cluster.KindBalloon} {
			for _, c := range s.graph.TopLevel(k) {
				if !s.graph.IsSink(c.Key()) {
					// consumed by a rule fired earlier in this same pass
					continue
				}
				if err := s.search(c); err != nil {
					return err
				}
			}
		}
		_, _, methodsAfter := s.graph.Counts()
		if methodsAfter == methodsBefore {
			return nil
		}
		gologger.Debug().Msgf("geosolver: saturation pass added %d methods, rescanning", methodsAfter-methodsBefore)
	}
}

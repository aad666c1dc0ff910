package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/vector"
)

func newRigid(t *testing.T, vars ...cluster.Var) *cluster.Rigid {
	t.Helper()
	r, err := cluster.NewRigid(vars)
	require.NoError(t, err)
	return r
}

func newHog(t *testing.T, cvar cluster.Var, xvars ...cluster.Var) *cluster.Hedgehog {
	t.Helper()
	h, err := cluster.NewHedgehog(cvar, xvars)
	require.NoError(t, err)
	return h
}

func newBalloon(t *testing.T, vars ...cluster.Var) *cluster.Balloon {
	t.Helper()
	b, err := cluster.NewBalloon(vars)
	require.NoError(t, err)
	return b
}

func topLevelKeys(s *Solver, k cluster.Kind) map[string]bool {
	out := make(map[string]bool)
	for _, c := range s.TopLevel(k) {
		out[c.Key()] = true
	}
	return out
}

func TestAddIsNoOpWhenClusterAlreadyPresent(t *testing.T) {
	s := New()
	r := newRigid(t, "a", "b")
	require.NoError(t, s.Add(r))
	require.NoError(t, s.Add(r))
	require.Len(t, s.TopLevel(cluster.KindRigid), 1)
}

func TestGetUnknownClusterReturnsFalse(t *testing.T) {
	s := New()
	r := newRigid(t, "a", "b")
	_, ok := s.Get(r)
	require.False(t, ok)
}

func TestSetUnknownClusterReturnsError(t *testing.T) {
	s := New()
	r := newRigid(t, "a", "b")
	err := s.Set(r, nil)
	require.ErrorIs(t, err, ErrUnknownCluster)
}

// Right-triangle scenario: three point-pairs merge into a single triangle
// rigid via Merge3C, and configuration propagation produces both mirror
// solutions once all three inputs are configured.
func TestRightTriangleMergesAndPropagates(t *testing.T) {
	s := New()
	cAB := newRigid(t, "a", "b")
	cBC := newRigid(t, "b", "c")
	cAC := newRigid(t, "a", "c")

	require.NoError(t, s.Add(cAB))
	require.NoError(t, s.Add(cBC))
	require.NoError(t, s.Add(cAC))

	top := s.TopLevel(cluster.KindRigid)
	require.Len(t, top, 1)
	require.Equal(t, "R:a,b,c", top[0].Key())
	merged := top[0]

	confAB := configuration.New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(3, 0)})
	confBC := configuration.New(map[cluster.Var]vector.Vec{"b": vector.New(0, 0), "c": vector.New(5, 0)})
	confAC := configuration.New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "c": vector.New(4, 0)})

	require.NoError(t, s.Set(cAB, []*configuration.Configuration{confAB}))
	require.NoError(t, s.Set(cBC, []*configuration.Configuration{confBC}))
	require.NoError(t, s.Set(cAC, []*configuration.Configuration{confAC}))

	results, ok := s.Get(merged)
	require.True(t, ok)
	require.Len(t, results, 2)
	for _, r := range results {
		pa, pb, pc := r.MustGet("a"), r.MustGet("b"), r.MustGet("c")
		require.InDelta(t, 3.0, vector.Distance2P(pa, pb), 1e-6)
		require.InDelta(t, 5.0, vector.Distance2P(pb, pc), 1e-6)
		require.InDelta(t, 4.0, vector.Distance2P(pa, pc), 1e-6)
	}
}

// Absorb-hog: a hedgehog whose spokes are already fully contained in a rigid
// gets consumed by MergeCH without producing a second, duplicate rigid.
func TestAbsorbHogKeepsRigidTopLevel(t *testing.T) {
	s := New()
	r := newRigid(t, "a", "b", "c")
	hog := newHog(t, "a", "b", "c")

	require.NoError(t, s.Add(r))
	require.NoError(t, s.Add(hog))

	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids[r.Key()])
	require.Len(t, rigids, 1)
	require.Empty(t, s.TopLevel(cluster.KindHedgehog))
}

// Hog-hog balloon synthesis: two hedgehogs with distinct centers sharing a
// spoke combine into a 3-point balloon via BalloonFromHogs.
func TestBalloonFromHogsSynthesizesBalloon(t *testing.T) {
	s := New()
	hogX := newHog(t, "x", "y", "z")
	hogY := newHog(t, "y", "x", "z")

	require.NoError(t, s.Add(hogX))
	require.NoError(t, s.Add(hogY))

	balloons := topLevelKeys(s, cluster.KindBalloon)
	require.True(t, balloons["B:x,y,z"])
	require.Len(t, balloons, 1)
	require.Empty(t, s.TopLevel(cluster.KindHedgehog))
}

// Cluster-Hog-Cluster: two rigids both containing a hedgehog's center, each
// contributing one spoke, merge via solve_dad.
func TestClusterHogClusterMerge(t *testing.T) {
	s := New()
	cPQ := newRigid(t, "p", "q")
	cPR := newRigid(t, "p", "r")
	hog := newHog(t, "p", "q", "r")

	require.NoError(t, s.Add(cPQ))
	require.NoError(t, s.Add(cPR))
	require.NoError(t, s.Add(hog))

	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids["R:p,q,r"])
	require.Len(t, rigids, 1)
	require.Empty(t, s.TopLevel(cluster.KindHedgehog))
}

// Cluster-Cluster-Hog: two rigids sharing one point, with a hedgehog
// centered in exactly one of them providing the angle, merge via solve_add.
func TestClusterClusterHogMerge(t *testing.T) {
	s := New()
	cAB := newRigid(t, "a", "b")
	hog := newHog(t, "a", "b", "c")
	cBC := newRigid(t, "b", "c")

	require.NoError(t, s.Add(cAB))
	require.NoError(t, s.Add(hog))
	require.NoError(t, s.Add(cBC))

	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids["R:a,b,c"])
	require.Len(t, rigids, 1)
	require.Empty(t, s.TopLevel(cluster.KindHedgehog))
}

// Balloon-rigid scale merge: a balloon and a rigid sharing two points merge
// into a rigid with the balloon's scale fixed by the rigid.
func TestBalloonRigidMerge(t *testing.T) {
	s := New()
	b := newBalloon(t, "p", "q", "r")
	c := newRigid(t, "p", "q", "z")

	require.NoError(t, s.Add(b))
	require.NoError(t, s.Add(c))

	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids["R:p,q,r,z"])
	require.Empty(t, s.TopLevel(cluster.KindBalloon))
}

// A merge that would combine two root-containing clusters is fatal, and the
// whole Add is rolled back: the rejected cluster never enters the graph.
func TestTwoRootClustersRollsBackTheWholeAdd(t *testing.T) {
	s := New()
	s.SetRoot("r")
	c1 := newRigid(t, "r", "a", "b")
	c2 := newRigid(t, "r", "a", "c")

	require.NoError(t, s.Add(c1))
	err := s.Add(c2)
	require.ErrorIs(t, err, ErrTwoRootClusters)

	_, ok := s.Get(c2)
	require.False(t, ok)
	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids[c1.Key()])
	require.Len(t, rigids, 1)
}

// Saturate is idempotent on an already-quiescent graph: a second pass adds
// no new methods and leaves top-level sets unchanged.
func TestSaturateIsIdempotentOnQuiescentGraph(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newRigid(t, "a", "b")))
	require.NoError(t, s.Add(newRigid(t, "b", "c")))
	require.NoError(t, s.Add(newRigid(t, "a", "c")))

	before := topLevelKeys(s, cluster.KindRigid)
	_, _, methodsBefore := s.graph.Counts()
	require.NoError(t, s.Saturate())
	after := topLevelKeys(s, cluster.KindRigid)
	require.Equal(t, before, after)
	_, _, methodsAfter := s.graph.Counts()
	require.Equal(t, methodsBefore, methodsAfter)
}

// Remove cascades through a merged output: removing one of the triangle's
// original inputs also removes the merged rigid, and the surviving inputs
// return to top-level.
func TestRemoveCascadesThroughMergedOutput(t *testing.T) {
	s := New()
	cAB := newRigid(t, "a", "b")
	cBC := newRigid(t, "b", "c")
	cAC := newRigid(t, "a", "c")

	require.NoError(t, s.Add(cAB))
	require.NoError(t, s.Add(cBC))
	require.NoError(t, s.Add(cAC))

	merged, ok := s.graph.GetCluster("R:a,b,c")
	require.True(t, ok)

	require.NoError(t, s.Remove(cAB))

	_, ok = s.Get(merged)
	require.False(t, ok)

	rigids := topLevelKeys(s, cluster.KindRigid)
	require.True(t, rigids[cBC.Key()])
	require.True(t, rigids[cAC.Key()])
	require.False(t, rigids["R:a,b,c"])
}

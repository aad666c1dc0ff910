package depgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/method"
)

func rigid(t *testing.T, vars ...cluster.Var) *cluster.Rigid {
	t.Helper()
	r, err := cluster.NewRigid(vars)
	require.NoError(t, err)
	return r
}

func TestAddClusterWiresVarsAndRoot(t *testing.T) {
	g := New()
	r := rigid(t, "a", "b")
	require.NoError(t, g.AddCluster(r))

	require.True(t, g.HasCluster(r.Key()))
	got, ok := g.GetCluster(r.Key())
	require.True(t, ok)
	require.Equal(t, r, got)

	require.True(t, g.ContainsVar("a"))
	require.True(t, g.ContainsVar("b"))
	require.Contains(t, g.ClustersWithVar("a"), cluster.Cluster(r))
	require.Contains(t, g.ClustersOfKind(cluster.KindRigid), cluster.Cluster(r))
}

func TestAddClusterRejectsDuplicate(t *testing.T) {
	g := New()
	r := rigid(t, "a", "b")
	require.NoError(t, g.AddCluster(r))
	require.ErrorIs(t, g.AddCluster(r), ErrDuplicateNode)
}

func TestTopLevelOnlyListsSinks(t *testing.T) {
	g := New()
	c1 := rigid(t, "a", "b")
	c2 := rigid(t, "b", "c")
	out := rigid(t, "a", "b", "c")
	require.NoError(t, g.AddCluster(c1))
	require.NoError(t, g.AddCluster(c2))
	require.NoError(t, g.AddCluster(out))

	m, err := method.NewMerge2C(c1, c2, out)
	require.NoError(t, err)
	_, err = g.AddMethod(m)
	require.NoError(t, err)

	top := g.TopLevel(cluster.KindRigid)
	keys := make(map[string]bool)
	for _, c := range top {
		keys[c.Key()] = true
	}
	require.False(t, keys[c1.Key()], "consumed input must not be top-level")
	require.False(t, keys[c2.Key()], "consumed input must not be top-level")
	require.True(t, keys[out.Key()], "unconsumed output must be top-level")
}

// When a method's output is structurally identical to one of its own
// inputs (the absorb-hog shape, spec §3.2), that input is reconfirmed, not
// consumed, and keeps its top-level status.
func TestTopLevelKeepsSelfReferentialInputTopLevel(t *testing.T) {
	g := New()
	c := rigid(t, "a", "b", "c")
	hog, err := cluster.NewHedgehog("a", []cluster.Var{"b", "c"})
	require.NoError(t, err)
	out := rigid(t, "a", "b", "c")
	require.NoError(t, g.AddCluster(c))
	require.NoError(t, g.AddCluster(hog))

	m, err := method.NewMergeCH(c, hog, out)
	require.NoError(t, err)
	_, err = g.AddMethod(m)
	require.NoError(t, err)

	top := g.TopLevel(cluster.KindRigid)
	require.Len(t, top, 1)
	require.Equal(t, c.Key(), top[0].Key())
	require.Empty(t, g.TopLevel(cluster.KindHedgehog))
}

func TestAddMethodRejectsUnknownInput(t *testing.T) {
	g := New()
	c1 := rigid(t, "a", "b")
	c2 := rigid(t, "b", "c")
	out := rigid(t, "a", "b", "c")
	// c2 is never added to the graph.
	require.NoError(t, g.AddCluster(c1))
	require.NoError(t, g.AddCluster(out))

	m, err := method.NewMerge2C(c1, c2, out)
	require.NoError(t, err)
	_, err = g.AddMethod(m)
	require.ErrorIs(t, err, ErrClusterNotFound)
}

func TestConsumersReturnsMethodsTakingClusterAsInput(t *testing.T) {
	g := New()
	c1 := rigid(t, "a", "b")
	c2 := rigid(t, "b", "c")
	out := rigid(t, "a", "b", "c")
	require.NoError(t, g.AddCluster(c1))
	require.NoError(t, g.AddCluster(c2))
	require.NoError(t, g.AddCluster(out))

	m, err := method.NewMerge2C(c1, c2, out)
	require.NoError(t, err)
	_, err = g.AddMethod(m)
	require.NoError(t, err)

	consumers := g.Consumers(c1.Key())
	require.Len(t, consumers, 1)
	require.Same(t, m, consumers[0])
}

func TestRemoveClusterCascadesToConsumingMethodAndItsOutput(t *testing.T) {
	g := New()
	c1 := rigid(t, "a", "b")
	c2 := rigid(t, "b", "c")
	out := rigid(t, "a", "b", "c")
	require.NoError(t, g.AddCluster(c1))
	require.NoError(t, g.AddCluster(c2))
	require.NoError(t, g.AddCluster(out))

	m, err := method.NewMerge2C(c1, c2, out)
	require.NoError(t, err)
	methodID, err := g.AddMethod(m)
	require.NoError(t, err)

	require.NoError(t, g.RemoveCluster(c1.Key()))

	require.False(t, g.HasCluster(out.Key()), "output must cascade away with its producing method")
	require.Empty(t, g.Consumers(c1.Key()))
	require.True(t, g.HasCluster(c2.Key()), "surviving input is not itself removed")
	_, _, methods := g.Counts()
	require.Equal(t, 0, methods)
	require.ErrorIs(t, g.RemoveMethod(methodID), ErrMethodNotFound)
}

func TestRemoveVarCascadesToDependentClusters(t *testing.T) {
	g := New()
	r := rigid(t, "a", "b")
	require.NoError(t, g.AddCluster(r))

	require.NoError(t, g.RemoveVar("a"))
	require.False(t, g.HasCluster(r.Key()))
	require.False(t, g.ContainsVar("a"))
}

func TestRemoveVarRejectsUnknownVar(t *testing.T) {
	g := New()
	require.ErrorIs(t, g.RemoveVar("nope"), ErrVarNotFound)
}

func TestRemoveClusterRejectsUnknownCluster(t *testing.T) {
	g := New()
	require.ErrorIs(t, g.RemoveCluster("R:missing"), ErrClusterNotFound)
}

func TestCountsTracksVertexKinds(t *testing.T) {
	g := New()
	r := rigid(t, "a", "b")
	require.NoError(t, g.AddCluster(r))

	vars, clusters, methods := g.Counts()
	require.Equal(t, 2, vars)
	require.Equal(t, 1, clusters)
	require.Equal(t, 0, methods)
}

package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/vector"
)

func TestSelectRestrictsToGivenVars(t *testing.T) {
	c := New(map[cluster.Var]vector.Vec{
		"a": vector.New(0, 0),
		"b": vector.New(1, 0),
		"c": vector.New(0, 1),
	})
	sub := c.Select([]cluster.Var{"a", "b"})
	require.Equal(t, []cluster.Var{"a", "b"}, sub.Vars())
}

func TestMustGetPanicsOnAbsentVar(t *testing.T) {
	c := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0)})
	require.Panics(t, func() { c.MustGet("z") })
}

func TestMerge2DTranslatesOnSingleSharedVar(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(1, 0)})
	c2 := New(map[cluster.Var]vector.Vec{"a": vector.New(5, 5), "c": vector.New(6, 5)})

	merged := c1.Merge2D(c2)
	// c1 fixes the frame: a must keep c1's coordinate.
	a, _ := merged.Get("a")
	require.InDelta(t, 0, a.X, 1e-9)
	require.InDelta(t, 0, a.Y, 1e-9)
	c, _ := merged.Get("c")
	require.InDelta(t, 1, c.X, 1e-9)
	require.InDelta(t, 0, c.Y, 1e-9)
}

func TestMerge2DRigidAlignmentPreservesDistances(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(10, 0)})
	c2 := New(map[cluster.Var]vector.Vec{
		"a": vector.New(100, 100),
		"b": vector.New(100, 110),
		"c": vector.New(105, 105),
	})

	merged := c1.Merge2D(c2)
	cPos, _ := merged.Get("c")
	aPos, _ := merged.Get("a")
	origDist := vector.Distance2P(vector.New(100, 100), vector.New(105, 105))
	require.InDelta(t, origDist, vector.Distance2P(aPos, cPos), 1e-6)
}

func TestMergeScale2DScalesDistances(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(2, 0)})
	c2 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(1, 0), "c": vector.New(0, 1)})

	merged := c1.MergeScale2D(c2)
	cPos, _ := merged.Get("c")
	// other's a-b distance is 1, c1's is 2: scale factor 2.
	require.InDelta(t, 2.0, vector.Distance2P(vector.New(0, 0), cPos), 1e-6)
}

func TestMergeWithNoSharedVarsPanics(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0)})
	c2 := New(map[cluster.Var]vector.Vec{"z": vector.New(1, 1)})
	require.Panics(t, func() { c1.Merge2D(c2) })
}

func TestUnderconstrainedPropagatesThroughMerge(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(1, 0)})
	c2 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(1, 0)})
	c2.Underconstrained = true

	merged := c1.Merge2D(c2)
	require.True(t, merged.Underconstrained)
}

func TestCopyIsIndependent(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0)})
	c2 := c1.Copy()
	c2.Underconstrained = true
	require.False(t, c1.Underconstrained)
}

func TestMergeScale2DExplicitAnchor(t *testing.T) {
	c1 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "c": vector.New(0, 4)})
	c2 := New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(2, 0), "c": vector.New(0, 2)})

	merged := c1.MergeScale2D(c2, "a", "c")
	bPos, _ := merged.Get("b")
	// anchors a,c fix a 2x scale; b comes only from c2, so it must be transformed.
	require.InDelta(t, 4, bPos.X, 1e-9)
	require.InDelta(t, 0, bPos.Y, 1e-9)
}

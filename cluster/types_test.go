package cluster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRigidRejectsEmpty(t *testing.T) {
	_, err := NewRigid(nil)
	require.ErrorIs(t, err, ErrEmptyRigid)
}

func TestNewRigidDedupsAndSorts(t *testing.T) {
	r, err := NewRigid([]Var{"c", "a", "c", "b"})
	require.NoError(t, err)
	require.Equal(t, []Var{"a", "b", "c"}, r.Vars())
	require.Equal(t, "R:a,b,c", r.Key())
}

func TestNewHedgehogRejectsCenterInSpokes(t *testing.T) {
	_, err := NewHedgehog("a", []Var{"a", "b", "c"})
	require.ErrorIs(t, err, ErrCenterInSpokes)
}

func TestNewHedgehogRejectsTooFewSpokes(t *testing.T) {
	_, err := NewHedgehog("a", []Var{"b"})
	require.ErrorIs(t, err, ErrTooFewSpokes)
}

func TestNewHedgehogVars(t *testing.T) {
	h, err := NewHedgehog("a", []Var{"c", "b"})
	require.NoError(t, err)
	require.Equal(t, Var("a"), h.CVar())
	require.Equal(t, []Var{"b", "c"}, h.XVars())
	require.Equal(t, []Var{"a", "b", "c"}, h.Vars())
}

func TestNewBalloonRejectsTooFewPoints(t *testing.T) {
	_, err := NewBalloon([]Var{"a", "b"})
	require.ErrorIs(t, err, ErrTooFewPoints)
}

func TestClusterKeysDistinguishVariants(t *testing.T) {
	r, _ := NewRigid([]Var{"a", "b"})
	b, _ := NewBalloon([]Var{"a", "b", "c"})
	require.NotEqual(t, r.Key(), b.Key())
}

func TestVarSetAlgebra(t *testing.T) {
	a := NewVarSet([]Var{"1", "2", "3"})
	b := NewVarSet([]Var{"2", "3", "4"})

	require.Equal(t, []Var{"2", "3"}, a.Intersect(b).Slice())
	require.Equal(t, []Var{"1", "2", "3", "4"}, a.Union(b).Slice())
	require.Equal(t, []Var{"1"}, a.Sub(b).Slice())
	require.True(t, a.Contains("1"))
	require.False(t, a.Contains("4"))
	require.True(t, NewVarSet([]Var{"2", "3"}).SubsetOf(a))
	require.False(t, a.SubsetOf(NewVarSet([]Var{"1", "2"})))
}

func TestKindStringNamesSentinelRoots(t *testing.T) {
	require.Equal(t, "_rigids", KindRigid.String())
	require.Equal(t, "_hogs", KindHedgehog.String())
	require.Equal(t, "_balloons", KindBalloon.String())
}

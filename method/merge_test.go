package method

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/vector"
)

func mustRigid(t *testing.T, vars ...cluster.Var) *cluster.Rigid {
	t.Helper()
	r, err := cluster.NewRigid(vars)
	require.NoError(t, err)
	return r
}

func mustHog(t *testing.T, cvar cluster.Var, xvars ...cluster.Var) *cluster.Hedgehog {
	t.Helper()
	h, err := cluster.NewHedgehog(cvar, xvars)
	require.NoError(t, err)
	return h
}

func mustBalloon(t *testing.T, vars ...cluster.Var) *cluster.Balloon {
	t.Helper()
	b, err := cluster.NewBalloon(vars)
	require.NoError(t, err)
	return b
}

func TestNewMerge1CRejectsMultiVarPoint(t *testing.T) {
	point := mustRigid(t, "a", "b")
	other := mustRigid(t, "a", "c")
	out := mustRigid(t, "a", "b", "c")
	_, err := NewMerge1C(point, other, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewMerge2CRejectsNoSharedVars(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "x", "y")
	out := mustRigid(t, "a", "b", "x", "y")
	_, err := NewMerge2C(c1, c2, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewMergeCHRejectsSpokesOutsideRigid(t *testing.T) {
	r := mustRigid(t, "a", "b")
	hog := mustHog(t, "a", "b", "z")
	out := mustRigid(t, "a", "b", "z")
	_, err := NewMergeCH(r, hog, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewMergeBHRejectsSpokesOutsideBalloon(t *testing.T) {
	b := mustBalloon(t, "a", "b", "c")
	hog := mustHog(t, "a", "b", "z")
	out := mustBalloon(t, "a", "b", "c", "z")
	_, err := NewMergeBH(b, hog, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewMerge3CRejectsMissingPairwiseShare(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "b", "c")
	c3 := mustRigid(t, "x", "y")
	out := mustRigid(t, "a", "b", "c", "x", "y")
	_, err := NewMerge3C(c1, c2, c3, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestMerge3CExecuteProducesRightTriangle(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "b", "c")
	c3 := mustRigid(t, "a", "c")
	out := mustRigid(t, "a", "b", "c")
	m, err := NewMerge3C(c1, c2, c3, out)
	require.NoError(t, err)
	require.False(t, m.Overconstrained())

	conf1 := configuration.New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "b": vector.New(3, 0)})
	conf2 := configuration.New(map[cluster.Var]vector.Vec{"b": vector.New(0, 0), "c": vector.New(5, 0)})
	conf3 := configuration.New(map[cluster.Var]vector.Vec{"a": vector.New(0, 0), "c": vector.New(4, 0)})

	results, err := m.Execute([]*configuration.Configuration{conf1, conf2, conf3})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		pa, pb, pc := r.MustGet("a"), r.MustGet("b"), r.MustGet("c")
		require.InDelta(t, 3.0, vector.Distance2P(pa, pb), 1e-6)
		require.InDelta(t, 5.0, vector.Distance2P(pb, pc), 1e-6)
		require.InDelta(t, 4.0, vector.Distance2P(pa, pc), 1e-6)
	}
}

func TestNewMergeCHCRejectsCenterMismatch(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "b", "c")
	hog := mustHog(t, "z", "a", "c")
	out := mustRigid(t, "a", "b", "c")
	_, err := NewMergeCHC(c1, hog, c2, out)
	require.ErrorIs(t, err, ErrHogCenterMismatch)
}

func TestNewMergeCCHRejectsCenterInBoth(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "a", "c")
	hog := mustHog(t, "a", "b", "c")
	out := mustRigid(t, "a", "b", "c")
	_, err := NewMergeCCH(c1, c2, hog, out)
	require.ErrorIs(t, err, ErrHogCenterMismatch)
}

func TestNewMergeCCHRejectsCenterInNeither(t *testing.T) {
	c1 := mustRigid(t, "a", "b")
	c2 := mustRigid(t, "c", "d")
	hog := mustHog(t, "z", "b", "c")
	out := mustRigid(t, "a", "b", "c", "d")
	_, err := NewMergeCCH(c1, c2, hog, out)
	require.ErrorIs(t, err, ErrHogCenterMismatch)
}

func TestNewBalloonFromHogsRejectsSameCenter(t *testing.T) {
	h1 := mustHog(t, "a", "b", "c")
	h2 := mustHog(t, "a", "d", "e")
	out := mustBalloon(t, "a", "b", "c")
	_, err := NewBalloonFromHogs(h1, h2, out)
	require.ErrorIs(t, err, ErrHogCentersDiffer)
}

func TestNewBalloonFromHogsRejectsNoSharedSpoke(t *testing.T) {
	h1 := mustHog(t, "a", "x", "y")
	h2 := mustHog(t, "b", "p", "q")
	out := mustBalloon(t, "a", "b", "x")
	_, err := NewBalloonFromHogs(h1, h2, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewBalloonMergeRejectsFewerThanTwoSharedPoints(t *testing.T) {
	b1 := mustBalloon(t, "a", "b", "c")
	b2 := mustBalloon(t, "c", "d", "e")
	out := mustBalloon(t, "a", "b", "c", "d", "e")
	_, err := NewBalloonMerge(b1, b2, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewBalloonRigidMergeRejectsFewerThanTwoSharedPoints(t *testing.T) {
	b := mustBalloon(t, "a", "b", "c")
	r := mustRigid(t, "c", "d")
	out := mustRigid(t, "a", "b", "c", "d")
	_, err := NewBalloonRigidMerge(b, r, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestNewMergeHogsRejectsDifferentCenters(t *testing.T) {
	h1 := mustHog(t, "a", "b", "c")
	h2 := mustHog(t, "z", "b", "c")
	out := mustHog(t, "a", "b", "c")
	_, err := NewMergeHogs(h1, h2, out)
	require.ErrorIs(t, err, ErrHogCentersDiffer)
}

func TestNewMergeHogsRejectsNoSharedSpoke(t *testing.T) {
	h1 := mustHog(t, "a", "b", "c")
	h2 := mustHog(t, "a", "x", "y")
	out := mustHog(t, "a", "b", "c", "x", "y")
	_, err := NewMergeHogs(h1, h2, out)
	require.ErrorIs(t, err, ErrUnderconstrained)
}

func TestMergeCHExecuteReturnsRigidConfigurationUnchanged(t *testing.T) {
	r := mustRigid(t, "a", "b", "c")
	hog := mustHog(t, "a", "b", "c")
	out := mustRigid(t, "a", "b", "c")
	m, err := NewMergeCH(r, hog, out)
	require.NoError(t, err)

	conf := configuration.New(map[cluster.Var]vector.Vec{
		"a": vector.New(0, 0), "b": vector.New(1, 0), "c": vector.New(0, 1),
	})
	hogConf := conf.Select([]cluster.Var{"a", "b", "c"})
	results, err := m.Execute([]*configuration.Configuration{conf, hogConf})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, conf.Vars(), results[0].Vars())
}

package numeric

import (
	"math"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/vector"
)

// SolveDDD places v1 at the origin and v2 at (d12, 0), then locates v3 by
// circle-circle intersection of the circles of radius d31 around v1 and
// radius d23 around v2. Returns zero, one or two configurations (spec
// §4.2.6).
func SolveDDD(v1, v2, v3 cluster.Var, d12, d23, d31 float64) []*configuration.Configuration {
	p1 := vector.New(0, 0)
	p2 := vector.New(d12, 0)
	p3s := vector.CCInt(p1, d31, p2, d23)

	out := make([]*configuration.Configuration, 0, len(p3s))
	for _, p3 := range p3s {
		out = append(out, configuration.New(map[cluster.Var]vector.Vec{v1: p1, v2: p2, v3: p3}))
	}
	return out
}

// SolveDAD places v2 at the origin and v1 at (d12, 0), then locates v3 by
// polar coordinates (d23, a123) from v2. Always exactly one solution (spec
// §4.2.6).
func SolveDAD(v1, v2, v3 cluster.Var, d12, a123, d23 float64) []*configuration.Configuration {
	p2 := vector.New(0, 0)
	p1 := vector.New(d12, 0)
	p3 := vector.New(d23*math.Cos(a123), d23*math.Sin(a123))

	return []*configuration.Configuration{
		configuration.New(map[cluster.Var]vector.Vec{v1: p1, v2: p2, v3: p3}),
	}
}

// SolveADD places a at the origin and b at (d_ab, 0), then locates c by
// intersecting the ray from a at angle -a_cab with the circle of radius
// d_bc around b. Returns zero, one or two configurations (spec §4.2.6).
func SolveADD(a, b, c cluster.Var, aCab, dAB, dBC float64) []*configuration.Configuration {
	pa := vector.New(0, 0)
	pb := vector.New(dAB, 0)
	dir := vector.New(math.Cos(-aCab), math.Sin(-aCab))

	out := make([]*configuration.Configuration, 0, 2)
	for _, pc := range vector.CRInt(pb, dBC, pa, dir) {
		out = append(out, configuration.New(map[cluster.Var]vector.Vec{a: pa, b: pb, c: pc}))
	}
	return out
}

// SolveADA places a at the origin and b at (d_ab, 0), then locates c by
// intersecting the ray from a at angle -a_cab with the ray from b at angle
// -(pi-a_abc), both below the x axis. If both angles are near 0 or pi the rays are colinear: the
// triangle is under-constrained to a 1-parameter family, and SolveADA
// returns a single degenerate configuration with Underconstrained set
// (spec §4.2.6, §7). Otherwise returns zero or one configuration.
func SolveADA(a, b, c cluster.Var, aCab, dAB, aAbc float64) []*configuration.Configuration {
	pa := vector.New(0, 0)
	pb := vector.New(dAB, 0)
	dirAC := vector.New(math.Cos(-aCab), math.Sin(-aCab))
	dirBC := vector.New(-math.Cos(-aAbc), math.Sin(-aAbc))

	if vector.TolZero(math.Sin(aCab)) && vector.TolZero(math.Sin(aAbc)) {
		m := dAB/2 + math.Cos(-aCab)*dAB - math.Cos(-aAbc)*dAB
		pc := vector.New(m, 0)
		conf := configuration.New(map[cluster.Var]vector.Vec{a: pa, b: pb, c: pc})
		conf.Underconstrained = true
		return []*configuration.Configuration{conf}
	}

	out := make([]*configuration.Configuration, 0, 1)
	for _, pc := range vector.RRInt(pa, dirAC, pb, dirBC) {
		out = append(out, configuration.New(map[cluster.Var]vector.Vec{a: pa, b: pb, c: pc}))
	}
	return out
}

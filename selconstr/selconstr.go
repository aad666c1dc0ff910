package selconstr

import (
	"fmt"
	"math"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/vector"
)

// Constraint is a sign predicate over a candidate configuration, used to
// disambiguate the mirror solutions a method executor may return (spec
// §3.4). Satisfied must be a pure function of the coordinates it is given.
type Constraint interface {
	// Satisfied reports whether the constraint holds for the given
	// variable -> coordinate assignment. Every variable the constraint
	// names must be present in m.
	Satisfied(m map[cluster.Var]vector.Vec) bool
	String() string
}

// orientation3 is the 2x signed area of the triangle (p1, p2, p3): positive
// for counter-clockwise winding, negative for clockwise, zero for colinear.
func orientation3(p1, p2, p3 vector.Vec) float64 {
	return p2.Sub(p1).Cross(p3.Sub(p1))
}

// NotCounterClockwiseConstraint is satisfied when v1, v2, v3 do not wind
// counter-clockwise (orientation <= 0), used by Merge3C (spec §4.2.4) to
// reject one of the two mirror solve_ddd solutions.
type NotCounterClockwiseConstraint struct {
	V1, V2, V3 cluster.Var
}

func (c NotCounterClockwiseConstraint) Satisfied(m map[cluster.Var]vector.Vec) bool {
	return orientation3(m[c.V1], m[c.V2], m[c.V3]) <= vector.Tolerance
}

func (c NotCounterClockwiseConstraint) String() string {
	return fmt.Sprintf("NotCounterClockwise(%s,%s,%s)", c.V1, c.V2, c.V3)
}

// NotClockwiseConstraint is satisfied when v1, v2, v3 do not wind clockwise
// (orientation >= 0); paired with NotCounterClockwiseConstraint so exactly
// one of the two survives for a non-degenerate triangle.
type NotClockwiseConstraint struct {
	V1, V2, V3 cluster.Var
}

func (c NotClockwiseConstraint) Satisfied(m map[cluster.Var]vector.Vec) bool {
	return orientation3(m[c.V1], m[c.V2], m[c.V3]) >= -vector.Tolerance
}

func (c NotClockwiseConstraint) String() string {
	return fmt.Sprintf("NotClockwise(%s,%s,%s)", c.V1, c.V2, c.V3)
}

// NotAcuteConstraint is satisfied when the angle at Q (between rays Q->P
// and Q->R) is not acute, i.e. angle_3p(P, Q, R) >= pi/2 in absolute value.
// Used by MergeCCH (spec §4.2.4) to reject one of the two mirror solve_add
// solutions.
type NotAcuteConstraint struct {
	P, Q, R cluster.Var
}

func (c NotAcuteConstraint) Satisfied(m map[cluster.Var]vector.Vec) bool {
	a := math.Abs(vector.Angle3P(m[c.P], m[c.Q], m[c.R]))
	return a >= math.Pi/2-vector.Tolerance
}

func (c NotAcuteConstraint) String() string {
	return fmt.Sprintf("NotAcute(%s,%s,%s)", c.P, c.Q, c.R)
}

// NotObtuseConstraint is satisfied when the angle at Q is not obtuse, i.e.
// |angle_3p(P, Q, R)| <= pi/2; paired with NotAcuteConstraint.
type NotObtuseConstraint struct {
	P, Q, R cluster.Var
}

func (c NotObtuseConstraint) Satisfied(m map[cluster.Var]vector.Vec) bool {
	a := math.Abs(vector.Angle3P(m[c.P], m[c.Q], m[c.R]))
	return a <= math.Pi/2+vector.Tolerance
}

func (c NotObtuseConstraint) String() string {
	return fmt.Sprintf("NotObtuse(%s,%s,%s)", c.P, c.Q, c.R)
}

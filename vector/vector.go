package vector

import "math"

// Tolerance is the default absolute tolerance used by TolEq and every
// intersection routine in this package to decide near-zero and
// near-coincidence cases.
const Tolerance = 1e-9

// Vec is an immutable 2-D vector. Values are passed and returned by value;
// no method mutates its receiver.
type Vec struct {
	X, Y float64
}

// New returns the vector (x, y).
func New(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z-component of the 3-D cross product of v and o,
// treating both as lying in the plane. Its sign is the orientation test
// used by the NotClockwise / NotCounterClockwise selection constraints.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate returns v rotated by theta radians counter-clockwise.
func (v Vec) Rotate(theta float64) Vec {
	c, s := math.Cos(theta), math.Sin(theta)
	return Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Distance2P returns the Euclidean distance between p and q.
func Distance2P(p, q Vec) float64 {
	return p.Sub(q).Norm()
}

// Angle3P returns the angle at vertex q in the triangle p-q-r, i.e. the
// angle between rays q->p and q->r, in radians in (-pi, pi]. This mirrors
// the Python original's angle_3p(p, q, r).
func Angle3P(p, q, r Vec) float64 {
	a := p.Sub(q)
	b := r.Sub(q)
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// TolEq reports whether a and b are equal within Tolerance.
func TolEq(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// TolZero reports whether a is within Tolerance of zero.
func TolZero(a float64) bool {
	return TolEq(a, 0.0)
}

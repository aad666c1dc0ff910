package vector

import "math"

// CCInt returns the intersection points of the circle centered at p1 with
// radius r1 and the circle centered at p2 with radius r2. It returns zero,
// one (tangent circles) or two points. Mirrors the Python original's
// cc_int(p1, r1, p2, r2).
func CCInt(p1 Vec, r1 float64, p2 Vec, r2 float64) []Vec {
	d := Distance2P(p1, p2)
	if TolZero(d) {
		// Concentric circles: no finite intersection unless degenerate,
		// which callers should have already excluded via distance checks.
		return nil
	}
	if d > r1+r2+Tolerance || d < math.Abs(r1-r2)-Tolerance {
		return nil
	}

	// Distance from p1 to the line through the intersection points,
	// projected onto the p1->p2 axis.
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		if h2 > -Tolerance {
			h2 = 0
		} else {
			return nil
		}
	}
	h := math.Sqrt(h2)

	axis := p2.Sub(p1).Scale(1 / d)
	normal := Vec{X: -axis.Y, Y: axis.X}
	mid := p1.Add(axis.Scale(a))

	if TolZero(h) {
		return []Vec{mid}
	}
	return []Vec{mid.Add(normal.Scale(h)), mid.Sub(normal.Scale(h))}
}

// CRInt returns the intersection points of the circle centered at p with
// radius r and the ray from q in direction dir. Mirrors the Python
// original's cr_int(p, r, q, dir): a "ray" represented as point + direction.
// Roots behind the ray's own origin (t < 0) are discarded, since they lie on
// the line the ray spans but not on the ray itself.
func CRInt(p Vec, r float64, q Vec, dir Vec) []Vec {
	dn := dir.Norm()
	if TolZero(dn) {
		return nil
	}
	u := dir.Scale(1 / dn)
	// Parametrize the line as q + t*u; substitute into |x - p|^2 = r^2.
	w := q.Sub(p)
	b := 2 * w.Dot(u)
	c := w.Dot(w) - r*r
	disc := b*b - 4*c
	if disc < 0 {
		if disc > -Tolerance {
			disc = 0
		} else {
			return nil
		}
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / 2
	t2 := (-b - sq) / 2
	if TolEq(t1, t2) {
		if t1 < -Tolerance {
			return nil
		}
		return []Vec{q.Add(u.Scale(t1))}
	}
	var out []Vec
	if t1 >= -Tolerance {
		out = append(out, q.Add(u.Scale(t1)))
	}
	if t2 >= -Tolerance {
		out = append(out, q.Add(u.Scale(t2)))
	}
	return out
}

// RRInt returns the intersection point of the ray from p in direction dir1
// and the ray from q in direction dir2, or nil if the two lines they span
// are parallel (including colinear) or the lines cross only behind one of
// the two ray origins. Mirrors the Python original's rr_int(p, dir1, q,
// dir2).
func RRInt(p Vec, dir1 Vec, q Vec, dir2 Vec) []Vec {
	denom := dir1.Cross(dir2)
	if TolZero(denom) {
		return nil
	}
	diff := q.Sub(p)
	t := diff.Cross(dir2) / denom
	s := diff.Cross(dir1) / denom
	if t < -Tolerance || s < -Tolerance {
		return nil
	}
	return []Vec{p.Add(dir1.Scale(t))}
}

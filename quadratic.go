package aurora

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Roots holds the real roots of a quadratic. When Count is 2, T0 <= T1 (for a > 0).
// When Count is 1 the single root is stored in T0 and T1.
type Roots struct {
	Count  int
	T0, T1 float32
}

// SolveQuadratic solves a*t^2 + b*t + c = 0 for real t.
// An exactly zero discriminant is handled as a single tangent root, never as two roots.
// a must be non-zero.
func SolveQuadratic(a, b, c float32) Roots {
	disc := b*b - 4*a*c
	if disc > 0 {
		sq := math32.Sqrt(disc)
		return Roots{
			Count: 2,
			T0:    (-b - sq) / (2 * a),
			T1:    (-b + sq) / (2 * a),
		}
	} else if disc >= 0 {
		t := (-b + math32.Sqrt(disc)) / (2 * a)
		return Roots{Count: 1, T0: t, T1: t}
	}
	return Roots{}
}

// SphereRoots intersects the ray origin+t*dir with a sphere of the given radius centered at the origin.
func SphereRoots(origin, dir ms3.Vec, radius float32) Roots {
	a := ms3.Dot(dir, dir)
	b := 2 * ms3.Dot(dir, origin)
	c := ms3.Dot(origin, origin) - radius*radius
	return SolveQuadratic(a, b, c)
}

// Classify reports the branch of the hollow shell cascade a ray falls in given its outer
// and inner sphere roots. The cascade is evaluated top to bottom, first match wins:
// tangent to the outer sphere, then missing or grazing the inner sphere (single segment),
// then crossing the inner core (hollow split). ok is false if the outer sphere is missed.
func Classify(outer, inner Roots) (mode ShellMode, ok bool) {
	switch {
	case outer.Count == 0:
		return 0, false
	case outer.Count == 1:
		return ShellTangent, true
	case inner.Count <= 1:
		return ShellSingleSegment, true
	default:
		return ShellHollowSplit, true
	}
}

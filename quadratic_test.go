package aurora_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/aurora"
	"github.com/soypat/geometry/ms3"
)

func TestSphereRootsIntersect(t *testing.T) {
	const tol = 1e-5
	var tests = []struct {
		origin, dir ms3.Vec
		d1, d2      float32
	}{
		{origin: ms3.Vec{Z: -2}, dir: ms3.Vec{Z: 1}, d1: 1, d2: 3},
		{origin: ms3.Vec{X: 5}, dir: ms3.Vec{X: -1}, d1: 4, d2: 6},
		// Off-axis chord: half chord is sqrt(1-0.6^2)=0.8.
		{origin: ms3.Vec{X: 0.6, Z: -2}, dir: ms3.Vec{Z: 1}, d1: 1.2, d2: 2.8},
		{origin: ms3.Vec{Y: 0.6, Z: 3}, dir: ms3.Vec{Z: -1}, d1: 2.2, d2: 3.8},
		// Origin inside sphere yields a negative first root.
		{origin: ms3.Vec{}, dir: ms3.Vec{Y: 1}, d1: -1, d2: 1},
	}
	for _, test := range tests {
		roots := aurora.SphereRoots(test.origin, test.dir, 1)
		if roots.Count != 2 {
			t.Errorf("origin=%v dir=%v: want 2 roots, got %d", test.origin, test.dir, roots.Count)
			continue
		}
		if math32.Abs(roots.T0-test.d1) > tol || math32.Abs(roots.T1-test.d2) > tol {
			t.Errorf("origin=%v dir=%v: want (%g,%g), got (%g,%g)", test.origin, test.dir, test.d1, test.d2, roots.T0, roots.T1)
		}
		if roots.T0 > roots.T1 {
			t.Errorf("roots not ordered: %+v", roots)
		}
	}
}

func TestSphereRootsTangent(t *testing.T) {
	// Line at distance 1 from the center. Foot of perpendicular is at t=2.
	roots := aurora.SphereRoots(ms3.Vec{X: 1, Z: -2}, ms3.Vec{Z: 1}, 1)
	if roots.Count != 1 {
		t.Fatalf("want tangent single root, got %+v", roots)
	}
	if roots.T0 != 2 || roots.T1 != 2 {
		t.Errorf("want tangent root at 2, got %+v", roots)
	}
}

func TestSphereRootsMiss(t *testing.T) {
	for _, origin := range []ms3.Vec{{X: 1.01, Z: -2}, {Y: -3, Z: -2}, {X: 2, Y: 2, Z: 2}} {
		roots := aurora.SphereRoots(origin, ms3.Vec{Z: 1}, 1)
		if roots.Count != 0 {
			t.Errorf("origin=%v: want miss, got %+v", origin, roots)
		}
	}
}

func TestSolveQuadraticZeroDiscriminant(t *testing.T) {
	// (t-3)^2 = t^2 - 6t + 9 has discriminant exactly 0.
	roots := aurora.SolveQuadratic(1, -6, 9)
	if roots.Count != 1 || roots.T0 != 3 {
		t.Fatalf("zero discriminant must fold into the single root branch, got %+v", roots)
	}
	roots = aurora.SolveQuadratic(2, -4, 2) // 2(t-1)^2
	if roots.Count != 1 || roots.T0 != 1 {
		t.Fatalf("zero discriminant must fold into the single root branch, got %+v", roots)
	}
}

func TestClassify(t *testing.T) {
	two := aurora.Roots{Count: 2, T0: 1, T1: 3}
	one := aurora.Roots{Count: 1, T0: 2, T1: 2}
	var tests = []struct {
		outer, inner aurora.Roots
		want         aurora.ShellMode
		ok           bool
	}{
		{outer: aurora.Roots{}, inner: aurora.Roots{}, ok: false},
		{outer: one, inner: two, want: aurora.ShellTangent, ok: true}, // Tangent wins over inner crossing.
		{outer: two, inner: aurora.Roots{}, want: aurora.ShellSingleSegment, ok: true},
		{outer: two, inner: one, want: aurora.ShellSingleSegment, ok: true},
		{outer: two, inner: two, want: aurora.ShellHollowSplit, ok: true},
	}
	for _, test := range tests {
		got, ok := aurora.Classify(test.outer, test.inner)
		if ok != test.ok || (ok && got != test.want) {
			t.Errorf("Classify(%+v,%+v)=(%v,%v), want (%v,%v)", test.outer, test.inner, got, ok, test.want, test.ok)
		}
	}
}

// Package aurora implements a volumetric "aurora" shell shader for a unit sphere.
//
// The shader is a pure function evaluated once per fragment: a ray is cast from
// the camera through a fragment on the sphere surface, intersected analytically
// against an outer sphere of radius 1 and an inner sphere of radius 1-depth, and
// the density field is integrated over the shell segments the ray traverses.
// The accumulated volume is clamped and mapped to a colour gradient.
//
// All computation is float32 to match GPU shading precision.
package aurora

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	// OuterRadius is the radius of the outer shell sphere. The fragment mesh is the unit sphere.
	OuterRadius = 1.0
	// MaxVolume is the clamp applied to accumulated volume before colour mapping.
	MaxVolume = 0.9
	// stepWeightFactor compensates for discretization undercount of the marcher.
	stepWeightFactor = 2
)

// cubicPulse is Inigo Quilez's cubic pulse: a smooth bump of half-width w centered at c.
func cubicPulse(c, w, x float32) float32 {
	x = math32.Abs(x - c)
	if x > w || w <= 0 {
		return 0
	}
	x /= w
	return 1 - x*x*(3-2*x)
}

// StepSize returns the march increment for the given iteration count. It returns 0 for iterations < 1.
func StepSize(iterations int) float32 {
	if iterations < 1 {
		return 0
	}
	return 1 / float32(iterations)
}

// StepWeight returns the per-sample weight used by the marcher for a given step size.
func StepWeight(stepSize float32) float32 {
	return stepWeightFactor * stepSize
}

// RayDir returns the normalized direction from the camera to the fragment.
// camera and frag must not coincide.
func RayDir(camera, frag ms3.Vec) ms3.Vec {
	return ms3.Unit(ms3.Sub(frag, camera))
}

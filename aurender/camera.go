// Package aurender renders the aurora shell shader over the unit sphere into images and animations.
package aurender

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/aurora"
	"github.com/soypat/geometry/ms3"
)

// Camera is a perspective pinhole camera.
type Camera struct {
	Eye    ms3.Vec
	Target ms3.Vec
	Up     ms3.Vec
	// FovY is the vertical field of view in degrees.
	FovY float32
}

// DefaultCamera looks at the unit sphere from +Z.
func DefaultCamera() Camera {
	return Camera{
		Eye:  ms3.Vec{Z: 3},
		Up:   ms3.Vec{Y: 1},
		FovY: 45,
	}
}

const (
	zNear = 0.1
	zFar  = 100
)

// View returns the camera's view matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(vec3(c.Eye), vec3(c.Target), vec3(c.Up))
}

// Projection returns the camera's projection matrix for the given aspect ratio (width/height).
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, zNear, zFar)
}

// Viewport prepares the camera for casting rays through the pixels of a width x height image.
func (c Camera) Viewport(width, height int) (Viewport, error) {
	if width <= 0 || height <= 0 {
		return Viewport{}, errors.New("viewport must have positive dimensions")
	} else if !(c.FovY > 0 && c.FovY < 180) {
		return Viewport{}, errors.New("field of view must be in (0,180) degrees")
	}
	look := ms3.Sub(c.Target, c.Eye)
	if ms3.Norm(look) == 0 || vec3(look).Cross(vec3(c.Up)).Len() == 0 {
		return Viewport{}, errors.New("degenerate camera: eye equals target or up is parallel to view direction")
	}
	vp := c.Projection(float32(width) / float32(height)).Mul4(c.View())
	return Viewport{
		eye:    c.Eye,
		inv:    vp.Inv(),
		width:  width,
		height: height,
	}, nil
}

// Viewport casts rays from a camera through image pixels.
type Viewport struct {
	eye           ms3.Vec
	inv           mgl32.Mat4
	width, height int
}

// Ray returns the normalized direction of the ray from the eye through the center of pixel (px, py).
// Pixel rows grow downward as in [image.Image].
func (v Viewport) Ray(px, py int) ms3.Vec {
	ndcX := 2*(float32(px)+0.5)/float32(v.width) - 1
	ndcY := 1 - 2*(float32(py)+0.5)/float32(v.height)
	far := v.inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	p := ms3.Vec{X: far[0] / far[3], Y: far[1] / far[3], Z: far[2] / far[3]}
	return ms3.Unit(ms3.Sub(p, v.eye))
}

// Eye returns the ray origin.
func (v Viewport) Eye() ms3.Vec { return v.eye }

// Fragment returns the world position where the ray through pixel (px, py) first meets the
// unit sphere. ok is false when the ray misses the sphere. This stands in for rasterizing
// the sphere mesh.
func (v Viewport) Fragment(px, py int) (frag ms3.Vec, ok bool) {
	dir := v.Ray(px, py)
	roots := aurora.SphereRoots(v.eye, dir, aurora.OuterRadius)
	if roots.Count == 0 || roots.T1 < 0 {
		return ms3.Vec{}, false
	}
	t := roots.T0
	if t < 0 {
		t = roots.T1 // Eye inside the sphere.
	}
	return ms3.Add(v.eye, ms3.Scale(t, dir)), true
}

func vec3(v ms3.Vec) mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

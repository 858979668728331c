package aurora

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms3"
)

// RGBA is a non-premultiplied float colour. Components are in [0,1] for well-formed input.
type RGBA struct {
	R, G, B, A float32
}

// Gradient mixes colour a with alpha 0 and colour b with alpha 1 by v.
// v acts as mix factor for colour and alpha simultaneously.
func Gradient(a, b RGB, v float32) RGBA {
	return RGBA{
		R: ms1.Interp(a.R, b.R, v),
		G: ms1.Interp(a.G, b.G, v),
		B: ms1.Interp(a.B, b.B, v),
		A: v,
	}
}

// NRGBA converts the colour to 8 bit non-premultiplied form. NaN components become 0.
func (c RGBA) NRGBA() color.NRGBA {
	u8 := func(f float32) uint8 {
		if math32.IsNaN(f) {
			return 0
		}
		return uint8(ms1.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: u8(c.R), G: u8(c.G), B: u8(c.B), A: u8(c.A)}
}

// RGBA implements [color.Color].
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Segment is a parametric interval [T0, T1] along a ray.
type Segment struct {
	T0, T1 float32
}

// Shader is the volumetric shell shader parameter block. A Shader is read-only during
// shading and may be shared across goroutines shading different fragments.
type Shader struct {
	Config Config
	// Density is the density map, red channel. Must not be nil.
	Density Field
	// Displacement is the optional scrolling displacement map.
	Displacement Field
	// Time is the externally advanced scroll clock.
	Time float32
}

// Sampler returns the density sampler configured by the shader.
func (sh *Shader) Sampler() Sampler {
	s := Sampler{
		Density: sh.Density,
		Time:    sh.Time,
	}
	if sh.Displacement != nil && sh.Config.Displacement != 0 {
		s.Displacement = sh.Displacement
		s.Strength = sh.Config.Displacement
	}
	return s
}

// Segments returns the shell segments marched for a ray under the shader's marching mode
// and the branch the ray fell into. n is 0 when the ray misses the outer sphere or the
// mode is [ShellFixedStepFalloff], which does not march discrete segments.
func (sh *Shader) Segments(camera, dir ms3.Vec) (segs [2]Segment, n int, branch ShellMode) {
	if sh.Config.Mode == ShellFixedStepFalloff {
		return segs, 0, ShellFixedStepFalloff
	}
	innerRadius := OuterRadius - sh.Config.Depth
	outer := SphereRoots(camera, dir, OuterRadius)
	inner := SphereRoots(camera, dir, innerRadius)
	branch, ok := Classify(outer, inner)
	if !ok {
		return segs, 0, 0
	}
	if branch == ShellHollowSplit && sh.Config.Mode == ShellSingleSegment {
		branch = ShellSingleSegment
	}
	switch branch {
	case ShellTangent:
		// Zero length segment: the inclusive march bound admits exactly one sample.
		segs[0] = Segment{T0: outer.T0, T1: outer.T0}
		n = 1
	case ShellSingleSegment:
		segs[0] = Segment{T0: outer.T0, T1: outer.T1}
		n = 1
	case ShellHollowSplit:
		segs[0] = Segment{T0: outer.T0, T1: inner.T0}
		segs[1] = Segment{T0: inner.T1, T1: outer.T1}
		n = 2
	}
	return segs, n, branch
}

// Volume returns the raw, unclamped volume accumulated by the ray from camera through frag.
// camera and frag must not coincide. Iterations < 1 yields zero volume.
func (sh *Shader) Volume(camera, frag ms3.Vec) float32 {
	stepSize := StepSize(sh.Config.Iterations)
	if stepSize == 0 {
		return 0
	}
	dir := RayDir(camera, frag)
	s := sh.Sampler()
	if sh.Config.Mode == ShellFixedStepFalloff {
		return falloffVolume(&s, camera, dir, sh.Config)
	}
	weight := StepWeight(stepSize)
	segs, n, _ := sh.Segments(camera, dir)
	var volume float32
	for _, seg := range segs[:n] {
		volume += March(&s, camera, dir, seg.T0, seg.T1, stepSize, weight)
	}
	return volume
}

// Shade returns the fragment colour: the volume clamped to [0, MaxVolume] mapped through the
// ColorA-ColorB gradient.
func (sh *Shader) Shade(camera, frag ms3.Vec) RGBA {
	v := ms1.Clamp(sh.Volume(camera, frag), 0, MaxVolume)
	return Gradient(sh.Config.ColorA, sh.Config.ColorB, v)
}

// falloffVolume marches the full outer chord with fixed steps of diameter/iterations.
// The effective shell depth narrows toward the silhouette over a band of width
// cfg.Smoothing in entry incidence cosine. Each new entry into the shell along the ray
// halves the weight of later samples and samples are weighted by a cubic pulse
// centred in the shell. The result is bounded by roughly 1+1/iterations.
func falloffVolume(s *Sampler, camera, dir ms3.Vec, cfg Config) float32 {
	outer := SphereRoots(camera, dir, OuterRadius)
	if outer.Count < 2 {
		return 0
	}
	entry := ms3.Add(camera, ms3.Scale(outer.T0, dir))
	cosInc := math32.Abs(ms3.Dot(dir, ms3.Unit(entry)))
	depth := cfg.Depth
	if cfg.Smoothing > 0 {
		depth *= ms1.SmoothStep(0, cfg.Smoothing, cosInc)
	}
	if depth <= 0 {
		return 0
	}
	halfDepth := depth / 2
	center := OuterRadius - halfDepth
	step := 2 * OuterRadius / float32(cfg.Iterations)
	weight := 1 / float32(cfg.Iterations)
	var (
		volume  float32
		dim     float32 = 1
		inShell bool
		entries int
	)
	for t := outer.T0; t <= outer.T1; t += step {
		p := ms3.Add(camera, ms3.Scale(t, dir))
		r := ms3.Norm(p)
		in := r >= OuterRadius-depth
		if in && !inShell {
			entries++
			if entries > 1 {
				dim *= 0.5
			}
		}
		inShell = in
		if in {
			volume += s.Sample(p) * cubicPulse(center, halfDepth, r) * dim * weight
		}
		if t+step == t {
			break
		}
	}
	return volume
}

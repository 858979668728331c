package aurora

import (
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Sampler looks up shell density at 3D points. The zero value is not usable; Density must be set.
type Sampler struct {
	// Density is the density map. Its red channel is the density.
	Density Field
	// Displacement optionally perturbs sample points. May be nil.
	Displacement Field
	// Strength scales the displacement perturbation.
	Strength float32
	// Time scrolls the displacement field along U. Displacement is expected to
	// be periodic in U with period 1, as equirectangular maps with wrap addressing are.
	Time float32
}

// Sample returns the density at p. p must not be the zero vector.
//
// When a displacement field is set it is sampled twice, once scrolled forward at
// uv+(time,0) and once mirrored in V and scrolled backward at uv*(1,-1)-(time,0).
// Both samples are centered to [-0.5,0.5], summed, scaled by Strength and added to
// p before the final normalization and projection.
func (s *Sampler) Sample(p ms3.Vec) float32 {
	uv := Equirect(ms3.Unit(p))
	if s.Displacement != nil {
		d1 := s.Displacement.At(ms2.Vec{X: uv.X + s.Time, Y: uv.Y})
		d2 := s.Displacement.At(ms2.Vec{X: uv.X - s.Time, Y: -uv.Y})
		disp := ms3.Add(ms3.AddScalar(-0.5, d1), ms3.AddScalar(-0.5, d2))
		uv = Equirect(ms3.Unit(ms3.Add(p, ms3.Scale(s.Strength, disp))))
	}
	return s.Density.At(uv).X
}

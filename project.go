package aurora

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Equirect maps a unit direction to equirectangular texture coordinates in [0,1]x[0,1].
// U wraps around the Y axis starting at -X, V is 0 at the south pole and 1 at the north pole.
// dir must be normalized; the zero vector yields NaN.
func Equirect(dir ms3.Vec) ms2.Vec {
	return ms2.Vec{
		X: math32.Atan2(dir.Z, dir.X)/(2*math32.Pi) + 0.5,
		Y: math32.Asin(ms1.Clamp(dir.Y, -1, 1))/math32.Pi + 0.5,
	}
}

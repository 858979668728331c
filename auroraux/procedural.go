package auroraux

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/soypat/aurora"
)

// ProceduralImage returns a width x height equirectangular map of wavy latitude bands
// seeded by seed. The bands wrap seamlessly in longitude.
func ProceduralImage(width, height int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	const nwaves = 4
	var freq, phase, amp [nwaves]float32
	for k := range freq {
		freq[k] = float32(1 + rng.Intn(6)) // Integer frequencies keep the U seam continuous.
		phase[k] = 2 * math32.Pi * rng.Float32()
		amp[k] = 0.05 + 0.1*rng.Float32()
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width; i++ {
		u := (float32(i) + 0.5) / float32(width)
		var wave float32
		for k := range freq {
			wave += amp[k] * math32.Sin(2*math32.Pi*freq[k]*u+phase[k])
		}
		for j := 0; j < height; j++ {
			v := 1 - (float32(j)+0.5)/float32(height)
			lat := 2*v - 1 + wave
			band := 0.5 + 0.5*math32.Cos(9*math32.Pi*lat)
			g := 0.5 + 0.5*math32.Sin(4*math32.Pi*u+3*lat)
			b := 0.5 + 0.5*math32.Cos(6*math32.Pi*u-2*lat)
			img.SetNRGBA(i, j, color.NRGBA{R: u8(band * band), G: u8(g), B: u8(b), A: 255})
		}
	}
	return img
}

// ProceduralField returns a [ProceduralImage] as a field.
func ProceduralField(width, height int, seed int64, addr aurora.Addressing) (*aurora.ImageField, error) {
	return aurora.NewImageField(ProceduralImage(width, height, seed), addr)
}

package aurora

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Field is a read-only 2D field addressed by texture coordinates in [0,1]x[0,1]
// with V pointing up. At returns the field's RGB value in [0,1].
// Implementations must be safe for concurrent use by multiple goroutines.
type Field interface {
	At(uv ms2.Vec) ms3.Vec
}

// Addressing controls how out of range texture coordinates are resolved.
type Addressing uint8

const (
	_ Addressing = iota
	// AddressWrap repeats the field in both axes.
	AddressWrap
	// AddressClampV repeats in U and clamps V, which suits equirectangular maps.
	AddressClampV
)

// ImageField is a nearest-neighbour sampled field backed by a dense RGB float buffer.
// Nearest sampling avoids seam bleeding at the equirectangular wrap boundary.
type ImageField struct {
	width, height int
	addr          Addressing
	// texels stored row-major with row 0 at the top of the image.
	texels []ms3.Vec
}

var errEmptyImage = errors.New("empty image")

// NewImageField copies img into a field with the given addressing mode.
func NewImageField(img image.Image, addr Addressing) (*ImageField, error) {
	bb := img.Bounds()
	w, h := bb.Dx(), bb.Dy()
	if w <= 0 || h <= 0 {
		return nil, errEmptyImage
	}
	f := &ImageField{
		width:  w,
		height: h,
		addr:   addr,
		texels: make([]ms3.Vec, w*h),
	}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			c := color.NRGBAModel.Convert(img.At(bb.Min.X+i, bb.Min.Y+j)).(color.NRGBA)
			f.texels[j*w+i] = ms3.Vec{
				X: float32(c.R) / 255,
				Y: float32(c.G) / 255,
				Z: float32(c.B) / 255,
			}
		}
	}
	return f, nil
}

// Size returns the field's texel dimensions.
func (f *ImageField) Size() (width, height int) { return f.width, f.height }

// Addressing returns the field's addressing mode.
func (f *ImageField) Addressing() Addressing { return f.addr }

// Texels returns the underlying texel buffer, row 0 at the top. It must not be modified.
func (f *ImageField) Texels() []ms3.Vec { return f.texels }

// At implements [Field].
func (f *ImageField) At(uv ms2.Vec) ms3.Vec {
	x, y := f.Texel(uv)
	return f.texels[y*f.width+x]
}

// Texel returns the integer texel coordinates sampled for uv.
func (f *ImageField) Texel(uv ms2.Vec) (x, y int) {
	u := uv.X - math32.Floor(uv.X)
	var v float32
	if f.addr == AddressWrap {
		v = uv.Y - math32.Floor(uv.Y)
	} else {
		v = ms1.Clamp(uv.Y, 0, 1)
	}
	v = 1 - v // Image rows grow downward.
	x = int(u * float32(f.width))
	y = int(v * float32(f.height))
	if x >= f.width {
		x = f.width - 1
	} else if x < 0 {
		x = 0
	}
	if y >= f.height {
		y = f.height - 1
	} else if y < 0 {
		y = 0
	}
	return x, y
}

// UniformField is a constant field.
type UniformField ms3.Vec

// At implements [Field].
func (u UniformField) At(ms2.Vec) ms3.Vec { return ms3.Vec(u) }

// FuncField adapts a function to the [Field] interface.
type FuncField func(uv ms2.Vec) ms3.Vec

// At implements [Field].
func (fn FuncField) At(uv ms2.Vec) ms3.Vec { return fn(uv) }

// Package auglsl holds the GLSL compute program that evaluates the aurora shell
// shader on the GPU along with the buffer and uniform layout the program expects.
//
// The program source is static. Configuration reaches it only through uniforms
// and shader storage buffers, see [MakeUniforms] and [MakeBuffer].
package auglsl

import (
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/soypat/aurora"
	"github.com/soypat/geometry/ms3"
)

//go:embed aurora.glsl
var computeSrc string

// LocalSizeX is the compute work group size declared by the program.
const LocalSizeX = 32

// Shader storage buffer binding points.
const (
	BindingFragments    = 0
	BindingDensity      = 1
	BindingDisplacement = 2
	BindingColors       = 3
)

// Uniform names, null terminated.
const (
	UniformCount        = "uCount\x00"
	UniformCamera       = "uCamera\x00"
	UniformIterations   = "uIterations\x00"
	UniformDepth        = "uDepth\x00"
	UniformSmoothing    = "uSmoothing\x00"
	UniformDisplacement = "uDisplacement\x00"
	UniformColorA       = "uColorA\x00"
	UniformColorB       = "uColorB\x00"
	UniformMode         = "uMode\x00"
	UniformTime         = "uTime\x00"
	UniformDensitySize  = "uDensitySize\x00"
	UniformDensityWrapV = "uDensityWrapV\x00"
	UniformDisplaceSize = "uDisplaceSize\x00"
)

// ComputeSource returns the null terminated compute program source ready for compilation.
func ComputeSource() string {
	return computeSrc + "\x00"
}

var (
	errNoImageDensity = errors.New("GPU evaluation requires density to be an *aurora.ImageField")
	errNoImageDisp    = errors.New("GPU evaluation requires displacement to be an *aurora.ImageField")
)

// Uniforms is the value of every uniform the program reads for one dispatch.
type Uniforms struct {
	Count        uint32
	Camera       ms3.Vec
	Iterations   int32
	Depth        float32
	Smoothing    float32
	Displacement float32
	ColorA       ms3.Vec
	ColorB       ms3.Vec
	Mode         int32
	Time         float32
	DensitySize  [2]int32
	DensityWrapV int32
	DisplaceSize [2]int32
}

// MakeUniforms returns the uniforms that shade count fragments from camera with sh.
func MakeUniforms(sh *aurora.Shader, camera ms3.Vec, count int) (Uniforms, error) {
	density, ok := sh.Density.(*aurora.ImageField)
	if !ok {
		return Uniforms{}, errNoImageDensity
	}
	cfg := sh.Config
	u := Uniforms{
		Count:        uint32(count),
		Camera:       camera,
		Iterations:   int32(cfg.Iterations),
		Depth:        cfg.Depth,
		Smoothing:    cfg.Smoothing,
		Displacement: cfg.Displacement,
		ColorA:       ms3.Vec{X: cfg.ColorA.R, Y: cfg.ColorA.G, Z: cfg.ColorA.B},
		ColorB:       ms3.Vec{X: cfg.ColorB.R, Y: cfg.ColorB.G, Z: cfg.ColorB.B},
		Mode:         int32(cfg.Mode),
		Time:         sh.Time,
	}
	w, h := density.Size()
	u.DensitySize = [2]int32{int32(w), int32(h)}
	if density.Addressing() == aurora.AddressWrap {
		u.DensityWrapV = 1
	}
	s := sh.Sampler()
	if s.Displacement != nil {
		disp, ok := s.Displacement.(*aurora.ImageField)
		if !ok {
			return Uniforms{}, errNoImageDisp
		}
		w, h = disp.Size()
		u.DisplaceSize = [2]int32{int32(w), int32(h)}
	}
	return u, nil
}

// Buffer is a handle to data bound to a shader storage buffer binding point.
type Buffer struct {
	// Element is the element type of the buffer.
	Element reflect.Type
	// Data points to the start of buffer data.
	Data unsafe.Pointer
	// Size of buffer in bytes.
	Size int
	// Binding is the binding point in the program.
	Binding int
}

// MakeBuffer creates a [Buffer] over a non-empty slice. The slice must outlive the buffer's use.
func MakeBuffer[T any](binding int, data []T) (Buffer, error) {
	if len(data) == 0 {
		return Buffer{}, fmt.Errorf("empty buffer for binding %d", binding)
	}
	var z T
	return Buffer{
		Element: reflect.TypeOf(z),
		Data:    unsafe.Pointer(&data[0]),
		Size:    len(data) * int(unsafe.Sizeof(z)),
		Binding: binding,
	}, nil
}

// PackDensity returns the red channel of f in the layout of the density buffer.
func PackDensity(f *aurora.ImageField) []float32 {
	texels := f.Texels()
	dst := make([]float32, len(texels))
	for i, t := range texels {
		dst[i] = t.X
	}
	return dst
}

// PackRGB returns the texels of f as packed RGB triples, the layout of the displacement buffer.
// A nil field packs a single zero triple so the binding is never empty.
func PackRGB(f *aurora.ImageField) []float32 {
	if f == nil {
		return make([]float32, 3)
	}
	return PackVec3(f.Texels())
}

// PackVec3 packs vectors into float triples, the layout of the fragment buffer.
// std430 arrays of vec3 carry a 16 byte stride so the program reads floats instead.
func PackVec3(v []ms3.Vec) []float32 {
	dst := make([]float32, 0, 3*len(v))
	for _, p := range v {
		dst = append(dst, p.X, p.Y, p.Z)
	}
	return dst
}

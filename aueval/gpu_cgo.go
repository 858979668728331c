//go:build !tinygo && cgo

package aueval

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/aurora"
	"github.com/soypat/aurora/auglsl"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Init1x1GLFW starts a 1x1 sized GLFW window so that the user can start working with the GPU.
// It returns a termination function that should be called when done running loads on the GPU.
// The calling goroutine must be locked to its OS thread.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "compute",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// GPUEvaluator shades fragments with an OpenGL compute program. Density and displacement
// fields must be [*aurora.ImageField] and are uploaded once per distinct field.
// A GPUEvaluator must only be used from the thread owning the current GL context.
type GPUEvaluator struct {
	prog        glgl.Program
	density     *aurora.ImageField
	disp        *aurora.ImageField
	densitySSBO uint32
	dispSSBO    uint32
}

var _ Evaluator = (*GPUEvaluator)(nil)

// NewGPUEvaluator compiles the shell compute program. A GL context must be current, see [Init1x1GLFW].
func NewGPUEvaluator() (*GPUEvaluator, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{Compute: auglsl.ComputeSource()})
	if err != nil {
		return nil, fmt.Errorf("compiling shell compute program: %w", err)
	}
	return &GPUEvaluator{prog: prog}, nil
}

// Close releases the program and uploaded fields.
func (g *GPUEvaluator) Close() error {
	g.releaseFields()
	g.prog.Delete()
	return glgl.Err()
}

// Evaluate implements [Evaluator].
func (g *GPUEvaluator) Evaluate(sh *aurora.Shader, camera ms3.Vec, frags []ms3.Vec, dst []aurora.RGBA) error {
	err := checkBuffers(sh, frags, dst)
	if err != nil {
		return err
	} else if g.prog.ID() == 0 {
		return errors.New("program id is 0, did you use NewGPUEvaluator?")
	}
	u, err := auglsl.MakeUniforms(sh, camera, len(frags))
	if err != nil {
		return err
	}
	g.prog.Bind()
	defer g.prog.Unbind()
	err = g.bindFields(sh)
	if err != nil {
		return err
	}
	setUniforms(uint32(g.prog.ID()), u)

	var p runtime.Pinner
	var fragSSBO, colorSSBO uint32
	p.Pin(&fragSSBO)
	p.Pin(&colorSSBO)
	defer p.Unpin()
	fragBuf, err := auglsl.MakeBuffer(auglsl.BindingFragments, auglsl.PackVec3(frags))
	if err != nil {
		return err
	}
	fragSSBO = loadSSBO(fragBuf, gl.STATIC_DRAW)
	if fragSSBO == 0 {
		return glErrOrMessage("zero SSBO id loading fragments")
	}
	defer gl.DeleteBuffers(1, &fragSSBO)
	colorSSBO = createSSBO(len(dst)*int(unsafe.Sizeof(aurora.RGBA{})), auglsl.BindingColors, gl.DYNAMIC_READ)
	if colorSSBO == 0 {
		return glErrOrMessage("zero SSBO id creating colour buffer")
	}
	defer gl.DeleteBuffers(1, &colorSSBO)

	nWorkX := (len(dst) + auglsl.LocalSizeX - 1) / auglsl.LocalSizeX
	gl.DispatchCompute(uint32(nWorkX), 1, 1)
	err = glgl.Err()
	if err != nil {
		return err
	}
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)
	err = copySSBO(dst, colorSSBO)
	if err != nil {
		return err
	}
	return glgl.Err()
}

// bindFields uploads the shader's fields if they changed since the last call and binds them.
func (g *GPUEvaluator) bindFields(sh *aurora.Shader) error {
	density := sh.Density.(*aurora.ImageField) // Checked by MakeUniforms.
	var disp *aurora.ImageField
	if s := sh.Sampler(); s.Displacement != nil {
		disp = s.Displacement.(*aurora.ImageField)
	}
	if density != g.density || g.densitySSBO == 0 {
		deleteSSBO(&g.densitySSBO)
		buf, err := auglsl.MakeBuffer(auglsl.BindingDensity, auglsl.PackDensity(density))
		if err != nil {
			return err
		}
		g.densitySSBO = loadSSBO(buf, gl.STATIC_DRAW)
		if g.densitySSBO == 0 {
			return glErrOrMessage("zero SSBO id loading density")
		}
		g.density = density
	}
	if disp != g.disp || g.dispSSBO == 0 {
		deleteSSBO(&g.dispSSBO)
		buf, err := auglsl.MakeBuffer(auglsl.BindingDisplacement, auglsl.PackRGB(disp))
		if err != nil {
			return err
		}
		g.dispSSBO = loadSSBO(buf, gl.STATIC_DRAW)
		if g.dispSSBO == 0 {
			return glErrOrMessage("zero SSBO id loading displacement")
		}
		g.disp = disp
	}
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, auglsl.BindingDensity, g.densitySSBO)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, auglsl.BindingDisplacement, g.dispSSBO)
	return glgl.Err()
}

func (g *GPUEvaluator) releaseFields() {
	deleteSSBO(&g.densitySSBO)
	deleteSSBO(&g.dispSSBO)
	g.density = nil
	g.disp = nil
}

func setUniforms(prog uint32, u auglsl.Uniforms) {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name))
	}
	// Locations of uniforms optimized out by the compiler are -1 and ignored by GL.
	gl.Uniform1ui(loc(auglsl.UniformCount), u.Count)
	gl.Uniform3f(loc(auglsl.UniformCamera), u.Camera.X, u.Camera.Y, u.Camera.Z)
	gl.Uniform1i(loc(auglsl.UniformIterations), u.Iterations)
	gl.Uniform1f(loc(auglsl.UniformDepth), u.Depth)
	gl.Uniform1f(loc(auglsl.UniformSmoothing), u.Smoothing)
	gl.Uniform1f(loc(auglsl.UniformDisplacement), u.Displacement)
	gl.Uniform3f(loc(auglsl.UniformColorA), u.ColorA.X, u.ColorA.Y, u.ColorA.Z)
	gl.Uniform3f(loc(auglsl.UniformColorB), u.ColorB.X, u.ColorB.Y, u.ColorB.Z)
	gl.Uniform1i(loc(auglsl.UniformMode), u.Mode)
	gl.Uniform1f(loc(auglsl.UniformTime), u.Time)
	gl.Uniform2i(loc(auglsl.UniformDensitySize), u.DensitySize[0], u.DensitySize[1])
	gl.Uniform1i(loc(auglsl.UniformDensityWrapV), u.DensityWrapV)
	gl.Uniform2i(loc(auglsl.UniformDisplaceSize), u.DisplaceSize[0], u.DisplaceSize[1])
}

func loadSSBO(buf auglsl.Buffer, usage uint32) (ssbo uint32) {
	var p runtime.Pinner
	p.Pin(&ssbo)
	gl.GenBuffers(1, &ssbo)
	p.Unpin()
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, buf.Size, buf.Data, usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, uint32(buf.Binding), ssbo)
	return ssbo
}

func createSSBO(size int, base, usage uint32) (ssbo uint32) {
	gl.GenBuffers(1, &ssbo)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, usage)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, base, ssbo)
	return ssbo
}

func deleteSSBO(ssbo *uint32) {
	if *ssbo != 0 {
		gl.DeleteBuffers(1, ssbo)
		*ssbo = 0
	}
}

func copySSBO[T any](dst []T, ssbo uint32) error {
	var z T
	bufSize := int(unsafe.Sizeof(z)) * len(dst)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, ssbo)
	ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, bufSize, gl.MAP_READ_BIT)
	if ptr == nil {
		return glErrOrMessage("failed to map SSBO buffer during copy")
	}
	defer gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER)
	gpuBytes := unsafe.Slice((*byte)(ptr), bufSize)
	bufBytes := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), bufSize)
	copy(bufBytes, gpuBytes)
	return nil
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}

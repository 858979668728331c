package aurender

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/soypat/aurora"
	"github.com/soypat/aurora/aueval"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms3"
)

// ImageRenderer renders the shell shader over the unit sphere into images.
// Pixels whose ray misses the sphere keep the background colour.
type ImageRenderer struct {
	eval aueval.Evaluator
	// Background is composited under shaded fragments. Nil means transparent.
	Background color.Color
	frags      []ms3.Vec
	colors     []aurora.RGBA
	pix        []image.Point
}

// NewImageRenderer instances a new [ImageRenderer] that evaluates fragments in batches of up to
// evalBufferSize through eval. A nil evaluator uses an [aueval.CPUEvaluator].
func NewImageRenderer(evalBufferSize int, eval aueval.Evaluator) (*ImageRenderer, error) {
	if evalBufferSize <= 64 {
		return nil, errors.New("too small evaluation buffer size")
	}
	if eval == nil {
		eval = &aueval.CPUEvaluator{}
	}
	ir := &ImageRenderer{
		eval:   eval,
		frags:  make([]ms3.Vec, 0, evalBufferSize),
		colors: make([]aurora.RGBA, evalBufferSize),
		pix:    make([]image.Point, 0, evalBufferSize),
	}
	return ir, nil
}

// Render shades sh as seen by cam into img.
func (ir *ImageRenderer) Render(sh *aurora.Shader, cam Camera, img draw.Image) error {
	bb := img.Bounds()
	vp, err := cam.Viewport(bb.Dx(), bb.Dy())
	if err != nil {
		return err
	}
	bg := color.NRGBA64Model.Convert(color.Transparent).(color.NRGBA64)
	if ir.Background != nil {
		bg = color.NRGBA64Model.Convert(ir.Background).(color.NRGBA64)
	}
	ir.frags = ir.frags[:0]
	ir.pix = ir.pix[:0]
	for j := 0; j < bb.Dy(); j++ {
		for i := 0; i < bb.Dx(); i++ {
			p := image.Point{X: bb.Min.X + i, Y: bb.Min.Y + j}
			frag, ok := vp.Fragment(i, j)
			if !ok {
				img.Set(p.X, p.Y, bg)
				continue
			}
			ir.frags = append(ir.frags, frag)
			ir.pix = append(ir.pix, p)
			if len(ir.frags) == cap(ir.frags) {
				err = ir.flush(sh, vp.Eye(), bg, img)
				if err != nil {
					return err
				}
			}
		}
	}
	if len(ir.frags) > 0 {
		return ir.flush(sh, vp.Eye(), bg, img)
	}
	return nil
}

func (ir *ImageRenderer) flush(sh *aurora.Shader, eye ms3.Vec, bg color.NRGBA64, img draw.Image) error {
	n := len(ir.frags)
	err := ir.eval.Evaluate(sh, eye, ir.frags, ir.colors[:n])
	if err != nil {
		return fmt.Errorf("evaluating %d fragments: %w", n, err)
	}
	for k, p := range ir.pix {
		img.Set(p.X, p.Y, Over(ir.colors[k], bg))
	}
	ir.frags = ir.frags[:0]
	ir.pix = ir.pix[:0]
	return nil
}

// Over composites the non-premultiplied colour c over the background bg.
func Over(c aurora.RGBA, bg color.NRGBA64) color.NRGBA64 {
	const m16 = 0xffff
	a := ms1.Clamp(c.A, 0, 1)
	if math32.IsNaN(a) {
		a = 0
	}
	bgA := float32(bg.A) / m16
	outA := a + bgA*(1-a)
	if outA <= 0 {
		return color.NRGBA64{}
	}
	ch := func(fg float32, bgc uint16) uint16 {
		v := ms1.Clamp((fg*a+float32(bgc)/m16*bgA*(1-a))/outA, 0, 1)
		if math32.IsNaN(v) {
			return 0
		}
		return uint16(v*m16 + 0.5)
	}
	return color.NRGBA64{
		R: ch(c.R, bg.R),
		G: ch(c.G, bg.G),
		B: ch(c.B, bg.B),
		A: uint16(ms1.Clamp(outA, 0, 1)*m16 + 0.5),
	}
}

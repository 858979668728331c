package aurender

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"time"

	"github.com/soypat/aurora"
	"golang.org/x/image/draw"
)

// AnimationConfig configures [Animate].
type AnimationConfig struct {
	Width, Height int
	Frames        int
	// FrameTime is the wall time between frames. It drives both the clock and the GIF delay.
	FrameTime time.Duration
	Camera    Camera
}

// Animate renders cfg.Frames frames of sh, advancing the scroll clock by the configured
// speed between frames, and writes them to w as an animated GIF.
// sh.Time is the starting time and is left unchanged.
func Animate(w io.Writer, ir *ImageRenderer, sh aurora.Shader, cfg AnimationConfig) error {
	if cfg.Frames <= 0 {
		return errors.New("animation needs at least one frame")
	} else if cfg.FrameTime < 0 {
		return errors.New("negative frame time")
	}
	clock := Clock{t: float64(sh.Time)}
	frame := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	anim := &gif.GIF{LoopCount: 0}
	delay := int(cfg.FrameTime / (10 * time.Millisecond))
	for i := 0; i < cfg.Frames; i++ {
		err := ir.Render(&sh, cfg.Camera, frame)
		if err != nil {
			return err
		}
		pm := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pm, pm.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
		sh.Time = clock.Advance(cfg.FrameTime, sh.Config.Speed)
	}
	return gif.EncodeAll(w, anim)
}

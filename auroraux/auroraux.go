// Package auroraux provides auxiliary helpers to get started rendering aurora shells quickly:
// field and configuration loading, PNG rendering and caption overlays.
package auroraux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/soypat/aurora"
	"github.com/soypat/aurora/aueval"
	"github.com/soypat/aurora/aurender"
)

type RenderConfig struct {
	Output        io.Writer
	Width, Height int
	Camera        aurender.Camera
	// Background is composited under the shell. Nil renders a transparent background.
	Background color.Color
	// UseGPU evaluates on the GPU. The calling goroutine must be locked to the main OS thread.
	UseGPU bool
	Silent bool
	// Caption overlays a summary of the shader configuration on the image.
	Caption bool
}

// Render is an auxiliary function to aid users in getting setup quickly.
// It renders a single frame of sh and writes it to cfg.Output as a PNG.
func Render(sh *aurora.Shader, cfg RenderConfig) (err error) {
	if cfg.Output == nil {
		return errors.New("Render requires output parameter in config")
	} else if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("Render requires positive image dimensions")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	watch := stopwatch()
	var eval aueval.Evaluator
	if cfg.UseGPU {
		log("using GPU")
		terminate, err := aueval.Init1x1GLFW()
		if err != nil {
			return err
		}
		defer terminate()
		gpu, err := aueval.NewGPUEvaluator()
		if err != nil {
			return err
		}
		defer gpu.Close()
		eval = gpu
	} else {
		log("using CPU")
		eval = &aueval.CPUEvaluator{}
	}
	log("instantiating evaluator took", watch())
	renderer, err := aurender.NewImageRenderer(max(4096, cfg.Width), eval)
	if err != nil {
		return err
	}
	renderer.Background = cfg.Background
	img := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	watch = stopwatch()
	err = renderer.Render(sh, cfg.Camera, img)
	if err != nil {
		return fmt.Errorf("rendering shell: %w", err)
	}
	log("rendered", cfg.Width*cfg.Height, "pixels in", watch())
	if cfg.Caption {
		err = Caption(img, Summary(sh.Config), Complement(sh.Config.ColorB))
		if err != nil {
			return err
		}
	}
	err = png.Encode(cfg.Output, img)
	if err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	filename := "PNG"
	if fp, ok := cfg.Output.(*os.File); ok {
		filename = fp.Name()
	}
	log("wrote", filename)
	return nil
}

// RenderPNGFile renders sh as seen from cam and saves the result to a PNG file with said filename.
func RenderPNGFile(filename string, sh *aurora.Shader, cam aurender.Camera, width, height int, useGPU bool) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Render(sh, RenderConfig{
		Output: fp,
		Width:  width,
		Height: height,
		Camera: cam,
		UseGPU: useGPU,
		Silent: true,
	})
	if err != nil {
		return err
	}
	return fp.Sync()
}

// Summary returns a single line description of the configuration.
func Summary(cfg aurora.Config) string {
	return fmt.Sprintf("%s iter=%d depth=%.2f smooth=%.2f disp=%.2f %s>%s",
		cfg.Mode, cfg.Iterations, cfg.Depth, cfg.Smoothing, cfg.Displacement, cfg.ColorA.Hex(), cfg.ColorB.Hex())
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

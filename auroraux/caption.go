package auroraux

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

func goRegular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// Caption draws a single line of text at the bottom left of img. The font size
// scales with the image height.
func Caption(img draw.Image, text string, c color.Color) error {
	ttf, err := goRegular()
	if err != nil {
		return err
	}
	bb := img.Bounds()
	size := max(8, float64(bb.Dy())/32)
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	margin := int(size / 2)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(bb.Min.X+margin, bb.Max.Y-margin),
	}
	d.DrawString(text)
	return nil
}

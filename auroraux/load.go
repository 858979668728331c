package auroraux

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
	"github.com/soypat/aurora"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP image.
func LoadImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// LoadFieldFile loads an equirectangular map from an image file, see [LoadField].
func LoadFieldFile(filename string, addr aurora.Addressing, maxSize int) (*aurora.ImageField, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	f, err := LoadField(fp, addr, maxSize)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return f, nil
}

// LoadField decodes an equirectangular map into a field with the given addressing.
// Images larger than maxSize in either dimension are downsampled preserving aspect ratio.
// A maxSize of zero keeps the original size.
func LoadField(r io.Reader, addr aurora.Addressing, maxSize int) (*aurora.ImageField, error) {
	img, err := LoadImage(r)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 {
		bb := img.Bounds()
		if bb.Dx() > maxSize || bb.Dy() > maxSize {
			img = resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Bilinear)
		}
	}
	return aurora.NewImageField(img, addr)
}

package auroraux_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/soypat/aurora"
	"github.com/soypat/aurora/aurender"
	"github.com/soypat/aurora/auroraux"
	"github.com/soypat/geometry/ms2"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			img.Set(i, j, color.NRGBA{R: uint8(4 * i), G: uint8(8 * j), B: 100, A: 255})
		}
	}
	return img
}

func TestLoadField(t *testing.T) {
	var buf bytes.Buffer
	err := png.Encode(&buf, testImage(64, 32))
	if err != nil {
		t.Fatal(err)
	}
	f, err := auroraux.LoadField(bytes.NewReader(buf.Bytes()), aurora.AddressClampV, 0)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := f.Size(); w != 64 || h != 32 {
		t.Errorf("want 64x32 field, got %dx%d", w, h)
	}
	f, err = auroraux.LoadField(bytes.NewReader(buf.Bytes()), aurora.AddressWrap, 16)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := f.Size(); w != 16 || h != 8 {
		t.Errorf("downsampled field should keep aspect ratio, got %dx%d", w, h)
	}
	if f.Addressing() != aurora.AddressWrap {
		t.Error("addressing not kept")
	}

	buf.Reset()
	err = bmp.Encode(&buf, testImage(8, 4))
	if err != nil {
		t.Fatal(err)
	}
	f, err = auroraux.LoadField(&buf, aurora.AddressClampV, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Bottom left texel at the south pole seam.
	c := f.At(ms2.Vec{X: 0, Y: 0})
	if c.X != 0 || c.Y != float32(24)/255 {
		t.Errorf("unexpected BMP texel %v", c)
	}
	_, err = auroraux.LoadField(strings.NewReader("not an image"), aurora.AddressWrap, 0)
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := auroraux.LoadConfig(strings.NewReader(`{"mode": "falloff", "colorA": "#102030"}`))
	if err != nil {
		t.Fatal(err)
	}
	def := aurora.DefaultConfig()
	if cfg.Mode != aurora.ShellFixedStepFalloff || cfg.Iterations != def.Iterations || cfg.ColorA.Hex() != "#102030" {
		t.Errorf("unexpected config %+v", cfg)
	}
	_, err = auroraux.LoadConfig(strings.NewReader(`{"depth": 1.5}`))
	if err == nil {
		t.Error("expected validation error")
	}
	_, err = auroraux.LoadConfig(strings.NewReader(`{"depth": `))
	if err == nil {
		t.Error("expected syntax error")
	}
	var buf bytes.Buffer
	err = auroraux.WriteConfig(&buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := auroraux.LoadConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("config changed after write and load:\n%+v\n%+v", cfg, got)
	}
}

func TestRender(t *testing.T) {
	sh := &aurora.Shader{Config: aurora.DefaultConfig(), Density: aurora.UniformField{X: 0.2}}
	var plain, captioned bytes.Buffer
	cfg := auroraux.RenderConfig{
		Output:     &plain,
		Width:      96,
		Height:     64,
		Camera:     aurender.DefaultCamera(),
		Background: color.Black,
		Silent:     true,
	}
	err := auroraux.Render(sh, cfg)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&plain)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 96 || img.Bounds().Dy() != 64 {
		t.Errorf("unexpected image bounds %v", img.Bounds())
	}
	cfg.Output = &captioned
	cfg.Caption = true
	err = auroraux.Render(sh, cfg)
	if err != nil {
		t.Fatal(err)
	}
	imgc, err := png.Decode(&captioned)
	if err != nil {
		t.Fatal(err)
	}
	var changed int
	for j := 0; j < 64; j++ {
		for i := 0; i < 96; i++ {
			if img.At(i, j) != imgc.At(i, j) {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("caption did not draw any pixels")
	}
	err = auroraux.Render(sh, auroraux.RenderConfig{Width: 1, Height: 1})
	if err == nil {
		t.Error("expected missing output error")
	}
}

func TestComplement(t *testing.T) {
	got := auroraux.Complement(aurora.RGB{R: 1})
	if got != (color.NRGBA{G: 255, B: 255, A: 255}) {
		t.Errorf("complement of red should be cyan, got %v", got)
	}
	got = auroraux.Complement(aurora.RGB{R: 0.2, G: 0.2, B: 0.2})
	if got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("complement of grey should be white, got %v", got)
	}
}

func TestProceduralField(t *testing.T) {
	a := auroraux.ProceduralImage(64, 32, 1)
	b := auroraux.ProceduralImage(64, 32, 1)
	c := auroraux.ProceduralImage(64, 32, 2)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed must produce the same image")
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different seeds should produce different images")
	}
	f, err := auroraux.ProceduralField(64, 32, 1, aurora.AddressClampV)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := f.Size(); w != 64 || h != 32 {
		t.Errorf("unexpected field size %dx%d", w, h)
	}
}

package utils

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	pbn "paintbynumbers"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreviewPaletteReturnsRequestedCount(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{R: 200, G: 50, B: 50, A: 255})
	palette := PreviewPalette(img, 3)
	if len(palette) == 0 {
		t.Fatalf("PreviewPalette returned no colors")
	}
	if len(palette) > 3 {
		t.Fatalf("PreviewPalette returned %d colors, want <= 3", len(palette))
	}
}

func TestPreviewPaletteZeroKReturnsNil(t *testing.T) {
	img := solidImage(4, 4, color.Black)
	if p := PreviewPalette(img, 0); p != nil {
		t.Fatalf("PreviewPalette(k=0) = %v, want nil", p)
	}
}

func TestSortPaletteByBrightnessOrdersDarkToLight(t *testing.T) {
	palette := []colorful.Color{
		{R: 1, G: 1, B: 1}, // white
		{R: 0, G: 0, B: 0}, // black
		{R: 0.5, G: 0.5, B: 0.5},
	}
	SortPaletteByBrightness(palette)
	for i := 1; i < len(palette); i++ {
		ri, gi, bi := palette[i-1].LinearRgb()
		rj, gj, bj := palette[i].LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi > yj {
			t.Fatalf("palette not sorted dark-to-light at index %d: %v > %v", i, yi, yj)
		}
	}
}

func TestRenderPaletteRoundTripsNearOriginalRGB(t *testing.T) {
	orig := colorful.Color{R: 0.8, G: 0.2, B: 0.2}
	l, a, b := orig.Lab()
	p := pbn.Palette{colorful.Color{R: l, G: a, B: b}}

	rendered := RenderPalette(p)
	if len(rendered) != 1 {
		t.Fatalf("RenderPalette length = %d, want 1", len(rendered))
	}
	got := rendered[0]
	if math.Abs(got.R-orig.R) > 0.02 || math.Abs(got.G-orig.G) > 0.02 || math.Abs(got.B-orig.B) > 0.02 {
		t.Fatalf("RenderPalette round trip = %+v, want close to %+v", got, orig)
	}
}

func TestSavePaletteDimensions(t *testing.T) {
	palette := []colorful.Color{{R: 1, G: 0, B: 0}, {R: 0, G: 1, B: 0}, {R: 0, G: 0, B: 1}}
	img, err := SavePalette(palette, 10)
	if err != nil {
		t.Fatalf("SavePalette: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 30 || b.Dy() != 10 {
		t.Fatalf("swatch dims = (%d,%d), want (30,10)", b.Dx(), b.Dy())
	}
}

func TestSavePaletteEmptyIsError(t *testing.T) {
	if _, err := SavePalette(nil, 10); err == nil {
		t.Fatalf("SavePalette(nil): want error")
	}
}

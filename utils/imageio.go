// Package utils collects the ambient, caller-facing helpers that sit around
// the pbn core: image decoding, palette preview/export, and SVG rendering.
// None of this package is on pbn.Process's critical path — it exists for
// CLI shells and other callers that need to get a raw pixel buffer in and a
// rendered result out.
package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// DecodeImage decodes PNG, JPEG, and GIF via the standard library, plus BMP
// and WebP via golang.org/x/image — broader input coverage than the
// teacher's ReadImage (which only registered the three stdlib formats and
// panicked on a decode failure). Grounded on the teacher's ReadImage
// (utils.go) but returns an error instead of panicking, per this package's
// typed-error convention.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("paintbynumbers/utils: read: %w", err)
	}
	if img, err := png.Decode(bytes.NewReader(buf)); err == nil {
		return img, "png", nil
	}
	if img, err := jpeg.Decode(bytes.NewReader(buf)); err == nil {
		return img, "jpeg", nil
	}
	if img, err := gif.Decode(bytes.NewReader(buf)); err == nil {
		return img, "gif", nil
	}
	if img, err := bmp.Decode(bytes.NewReader(buf)); err == nil {
		return img, "bmp", nil
	}
	if img, err := webp.Decode(bytes.NewReader(buf)); err == nil {
		return img, "webp", nil
	}
	return nil, "", fmt.Errorf("paintbynumbers/utils: unrecognized image format")
}

// ImageToPixels flattens an image.Image into the row-major RGBA byte buffer
// pbn.ProcessInput expects, sampling through img.At so any image.Image
// (not just *image.NRGBA) works as input.
func ImageToPixels(img image.Image) (pixels []byte, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	pixels = make([]byte, w*h*4)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			pixels[i] = byte(r >> 8)
			pixels[i+1] = byte(g >> 8)
			pixels[i+2] = byte(bl >> 8)
			pixels[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return pixels, w, h
}

// ResizeToMaxDim scales img down (never up) so its longer side is at most
// maxDim, using golang.org/x/image/draw's high-quality CatmullRom
// interpolation. A caller typically does this before building a
// pbn.ProcessInput, since §3's "post-resize dimensions" note implies the
// core never resizes on its own.
func ResizeToMaxDim(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

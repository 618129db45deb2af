package pbn

// makeSolidPixels builds a W*H RGBA buffer filled with one color.
func makeSolidPixels(w, h int, r, g, b byte) []byte {
	out := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		out[i*4] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = 255
	}
	return out
}

// makeCheckerboardPixels alternates between two colors per pixel.
func makeCheckerboardPixels(w, h int, c1, c2 [3]byte) []byte {
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := c1
			if (x+y)%2 == 1 {
				c = c2
			}
			off := (y*w + x) * 4
			out[off], out[off+1], out[off+2], out[off+3] = c[0], c[1], c[2], 255
		}
	}
	return out
}

// makeSplitPixels fills the left half with c1 and right half with c2.
func makeSplitPixels(w, h int, c1, c2 [3]byte) []byte {
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := c1
			if x >= w/2 {
				c = c2
			}
			off := (y*w + x) * 4
			out[off], out[off+1], out[off+2], out[off+3] = c[0], c[1], c[2], 255
		}
	}
	return out
}

// makeSquarePixels fills a bg-colored image with a centered square of
// size sz filled with fg.
func makeSquarePixels(w, h, sz int, bg, fg [3]byte) []byte {
	out := make([]byte, w*h*4)
	x0, y0 := (w-sz)/2, (h-sz)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := bg
			if x >= x0 && x < x0+sz && y >= y0 && y < y0+sz {
				c = fg
			}
			off := (y*w + x) * 4
			out[off], out[off+1], out[off+2], out[off+3] = c[0], c[1], c[2], 255
		}
	}
	return out
}

// makeLabelMap builds a LabelMap by calling the generator f for every (x, y).
func makeLabelMap(w, h int, f func(x, y int) int) LabelMap {
	m := newLabelMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Labels[y*w+x] = uint8(f(x, y))
		}
	}
	return m
}
